package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPriorKnowledge pre-fills the prior knowledge field of a fresh form.
const DefaultPriorKnowledge = "Murid diharapkan memahami dasar-dasar materi, wujud zat (padat, cair, gas), dan perbedaan perubahan fisika/kimia (dari jenjang SMP)."

const (
	defaultMeetings = 2
	defaultDuration = 40
)

// Upper bounds for the numeric fields: a school year of weekly meetings, and one school
// day per meeting.
const (
	MaxMeetings = 52
	MaxDuration = 480
)

// ModuleInputData is the lesson planning form filled in by a teacher.
type ModuleInputData struct {
	SchoolName                string       `json:"schoolName" validate:"required"`
	TeacherName               string       `json:"teacherName" validate:"required"`
	TeacherNip                string       `json:"teacherNip"`
	PrincipalName             string       `json:"principalName" validate:"required"`
	PrincipalNip              string       `json:"principalNip"`
	Subject                   string       `json:"subject" validate:"required"`
	PhaseClass                string       `json:"phaseClass" validate:"required"`
	Topic                     string       `json:"topic" validate:"required"`
	Meetings                  int          `json:"meetings" validate:"min=1,max=52"`
	Duration                  int          `json:"duration" validate:"min=1,max=480"`
	StudentCharacteristics    string       `json:"studentCharacteristics"`
	GraduateProfileDimensions DimensionSet `json:"graduateProfileDimensions"`
	PriorKnowledge            string       `json:"priorKnowledge"`
	LearningOutcomes          string       `json:"learningOutcomes"`
	LearningObjectives        string       `json:"learningObjectives"`
	PedagogicalPractice       string       `json:"pedagogicalPractice"`
	TeacherNotes              string       `json:"teacherNotes"`
	LearningPartnership       string       `json:"learningPartnership"`
	LearningEnvironment       string       `json:"learningEnvironment"`
	DigitalUtilization        string       `json:"digitalUtilization"`
}

// NewModuleInputData returns the form state shown at the start of a session.
func NewModuleInputData() ModuleInputData {
	return ModuleInputData{
		Meetings:                  defaultMeetings,
		Duration:                  defaultDuration,
		GraduateProfileDimensions: NewDimensionSet(),
		PriorKnowledge:            DefaultPriorKnowledge,
		PedagogicalPractice:       DefaultPedagogicalPractice(),
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (m ModuleInputData) Clone() ModuleInputData {
	out := m
	out.GraduateProfileDimensions = m.GraduateProfileDimensions.Clone()
	return out
}

// FieldName identifies an editable form field by its JSON name.
type FieldName string

const (
	FieldSchoolName             FieldName = "schoolName"
	FieldTeacherName            FieldName = "teacherName"
	FieldTeacherNip             FieldName = "teacherNip"
	FieldPrincipalName          FieldName = "principalName"
	FieldPrincipalNip           FieldName = "principalNip"
	FieldSubject                FieldName = "subject"
	FieldPhaseClass             FieldName = "phaseClass"
	FieldTopic                  FieldName = "topic"
	FieldMeetings               FieldName = "meetings"
	FieldDuration               FieldName = "duration"
	FieldStudentCharacteristics FieldName = "studentCharacteristics"
	FieldPriorKnowledge         FieldName = "priorKnowledge"
	FieldLearningOutcomes       FieldName = "learningOutcomes"
	FieldLearningObjectives     FieldName = "learningObjectives"
	FieldPedagogicalPractice    FieldName = "pedagogicalPractice"
	FieldTeacherNotes           FieldName = "teacherNotes"
	FieldLearningPartnership    FieldName = "learningPartnership"
	FieldLearningEnvironment    FieldName = "learningEnvironment"
	FieldDigitalUtilization     FieldName = "digitalUtilization"
)

// ErrUnknownField is returned for names that are not editable form fields.
type ErrUnknownField struct {
	Name string
}

func (e ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown form field %q", e.Name)
}

// IsNumeric reports whether the field is coerced to an integer on edit.
func (f FieldName) IsNumeric() bool {
	return f == FieldMeetings || f == FieldDuration
}

// textField returns a pointer to the named text field, or nil for numeric/unknown names.
func (m *ModuleInputData) textField(name FieldName) *string {
	switch name {
	case FieldSchoolName:
		return &m.SchoolName
	case FieldTeacherName:
		return &m.TeacherName
	case FieldTeacherNip:
		return &m.TeacherNip
	case FieldPrincipalName:
		return &m.PrincipalName
	case FieldPrincipalNip:
		return &m.PrincipalNip
	case FieldSubject:
		return &m.Subject
	case FieldPhaseClass:
		return &m.PhaseClass
	case FieldTopic:
		return &m.Topic
	case FieldStudentCharacteristics:
		return &m.StudentCharacteristics
	case FieldPriorKnowledge:
		return &m.PriorKnowledge
	case FieldLearningOutcomes:
		return &m.LearningOutcomes
	case FieldLearningObjectives:
		return &m.LearningObjectives
	case FieldPedagogicalPractice:
		return &m.PedagogicalPractice
	case FieldTeacherNotes:
		return &m.TeacherNotes
	case FieldLearningPartnership:
		return &m.LearningPartnership
	case FieldLearningEnvironment:
		return &m.LearningEnvironment
	case FieldDigitalUtilization:
		return &m.DigitalUtilization
	}
	return nil
}

// SetField replaces one field from its raw form value. Meetings and duration are parsed as
// integers; every other field keeps the raw text. No business validation happens here.
func (m *ModuleInputData) SetField(name FieldName, raw string) error {
	if name.IsNumeric() {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", name, err)
		}
		if name == FieldMeetings {
			m.Meetings = n
		} else {
			m.Duration = n
		}
		return nil
	}
	target := m.textField(name)
	if target == nil {
		return ErrUnknownField{Name: string(name)}
	}
	*target = raw
	return nil
}

// TextValue returns the current value of a text field.
func (m *ModuleInputData) TextValue(name FieldName) (string, error) {
	target := m.textField(name)
	if target == nil {
		return "", ErrUnknownField{Name: string(name)}
	}
	return *target, nil
}

// IsDirty reports whether the form holds anything beyond the fresh defaults. Meeting
// counts and the selected practice are ignored so an untouched form never auto-saves.
func (m ModuleInputData) IsDirty() bool {
	base := NewModuleInputData()
	texts := []FieldName{
		FieldSchoolName, FieldTeacherName, FieldTeacherNip, FieldPrincipalName, FieldPrincipalNip,
		FieldSubject, FieldPhaseClass, FieldTopic, FieldStudentCharacteristics, FieldPriorKnowledge,
		FieldLearningOutcomes, FieldLearningObjectives, FieldTeacherNotes, FieldLearningPartnership,
		FieldLearningEnvironment, FieldDigitalUtilization,
	}
	for _, name := range texts {
		current, _ := m.TextValue(name)
		initial, _ := base.TextValue(name)
		if current != initial {
			return true
		}
	}
	return m.GraduateProfileDimensions.Len() > 0
}
