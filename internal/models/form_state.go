package models

// FormState is a consistent read of a workspace's form.
type FormState struct {
	Form         ModuleInputData `json:"form"`
	Dirty        bool            `json:"dirty"`
	HasDraft     bool            `json:"hasDraft"`
	LastSaved    string          `json:"lastSaved,omitempty"`
	LoadingField FieldName       `json:"loadingField,omitempty"`
}
