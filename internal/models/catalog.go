package models

// PedagogicalPractices lists the supported instructional models. The first entry is the default.
var PedagogicalPractices = []string{
	"Problem-Based Learning (PBL)",
	"Project-Based Learning (PjBL)",
	"Inquiry-Based Learning (Pembelajaran Inkuiri)",
	"Collaborative Inquiry (Inkuiri Kolaboratif)",
	"Discovery Learning",
	"Teaching Factory (TeFa) - Model 6 Langkah (TF-6M)",
	"Teaching Factory (TeFa) - Umum",
	"Contextual Teaching and Learning (CTL)",
	"Experiential Learning (Pembelajaran Berbasis Pengalaman)",
	"Cooperative Learning (Pembelajaran Kooperatif)",
	"Differentiated Instruction (Pembelajaran Berdiferensiasi)",
	"Flipped Classroom",
	"Design Thinking",
	"Gamification",
	"Constructivism Approach",
	"STEAM (Science, Technology, Engineering, Arts, Math)",
}

// Graduate profile dimensions referenced by the assessment rules.
const (
	DimensionFaith         = "Keimanan, Ketakwaan, & Akhlak Mulia"
	DimensionCitizenship   = "Kewargaan & Kebinekaan Global"
	DimensionCritical      = "Penalaran Kritis"
	DimensionCreativity    = "Kreativitas"
	DimensionCollaboration = "Gotong Royong / Kolaborasi"
	DimensionIndependence  = "Kemandirian"
	DimensionHealth        = "Kesehatan Fisik & Mental"
	DimensionCommunication = "Komunikasi"
)

// GraduateProfileDimensions is the fixed catalog in display order.
var GraduateProfileDimensions = []string{
	DimensionFaith,
	DimensionCitizenship,
	DimensionCritical,
	DimensionCreativity,
	DimensionCollaboration,
	DimensionIndependence,
	DimensionHealth,
	DimensionCommunication,
}

var (
	practiceIndex  = indexOf(PedagogicalPractices)
	dimensionIndex = indexOf(GraduateProfileDimensions)
)

// DefaultPedagogicalPractice returns the catalog's first practice.
func DefaultPedagogicalPractice() string {
	return PedagogicalPractices[0]
}

// IsPedagogicalPractice reports catalog membership.
func IsPedagogicalPractice(value string) bool {
	_, ok := practiceIndex[value]
	return ok
}

// IsGraduateProfileDimension reports catalog membership.
func IsGraduateProfileDimension(value string) bool {
	_, ok := dimensionIndex[value]
	return ok
}

func indexOf(values []string) map[string]struct{} {
	index := make(map[string]struct{}, len(values))
	for _, v := range values {
		index[v] = struct{}{}
	}
	return index
}
