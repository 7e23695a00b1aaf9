package prompt

import (
	"strings"

	"github.com/noah-isme/modul-ajar-api/internal/models"
)

// TopicRequiredAdvisory is returned instead of a prompt while the topic is blank.
const TopicRequiredAdvisory = "Mohon isi topik pembelajaran terlebih dahulu."

// SuggestionField is a form field with a dedicated suggestion instruction.
type SuggestionField string

const (
	SuggestTeacherNotes        SuggestionField = SuggestionField(models.FieldTeacherNotes)
	SuggestDigitalUtilization  SuggestionField = SuggestionField(models.FieldDigitalUtilization)
	SuggestLearningPartnership SuggestionField = SuggestionField(models.FieldLearningPartnership)
	SuggestLearningEnvironment SuggestionField = SuggestionField(models.FieldLearningEnvironment)
	SuggestLearningObjectives  SuggestionField = SuggestionField(models.FieldLearningObjectives)
)

// SuggestionFields lists the fields with dedicated instructions in display order.
var SuggestionFields = []SuggestionField{
	SuggestTeacherNotes,
	SuggestDigitalUtilization,
	SuggestLearningPartnership,
	SuggestLearningEnvironment,
	SuggestLearningObjectives,
}

var suggestionInstructions = map[SuggestionField]string{
	SuggestTeacherNotes:        "Berikan 2-3 ide aktivitas kreatif/ice breaking/pemicu diskusi yang menarik untuk topik ini.",
	SuggestDigitalUtilization:  "Sebutkan 2-3 aplikasi, website, atau alat digital spesifik yang sangat cocok untuk mengajarkan topik ini (contoh: Quizizz, PhET, Canva, Google Earth, dll) beserta cara singkat penggunaannya.",
	SuggestLearningPartnership: "Sebutkan 2-3 ide kemitraan (narasumber tamu, kunjungan industri, atau kolaborasi komunitas) yang relevan dan bisa memperkaya topik ini.",
	SuggestLearningEnvironment: "Berikan 2-3 ide pengaturan ruang kelas atau suasana belajar (seperti layout tempat duduk, penggunaan area luar kelas) yang mendukung model pembelajaran ini.",
	SuggestLearningObjectives:  "Rumuskan 2-3 Tujuan Pembelajaran (TP) yang spesifik, terukur, dan relevan dengan Topik ini. Gunakan Kata Kerja Operasional (KKO) yang bervariasi (misal: menganalisis, menciptakan, mengevaluasi).",
}

const defaultSuggestionInstruction = "Berikan ide singkat yang relevan."

// Instruction returns the field's task text, or the generic one for other fields.
func (f SuggestionField) Instruction() string {
	if instruction, ok := suggestionInstructions[f]; ok {
		return instruction
	}
	return defaultSuggestionInstruction
}

// BuildSuggestionPrompt returns the suggestion request for a field. When the topic is
// blank it returns the advisory instead and ok is false; no request should be sent then.
func BuildSuggestionPrompt(field SuggestionField, data models.ModuleInputData) (prompt string, advisory string, ok bool) {
	if strings.TrimSpace(data.Topic) == "" {
		return "", TopicRequiredAdvisory, false
	}

	lines := []string{
		"Bertindaklah sebagai konsultan pendidikan kreatif.",
		"Mapel: " + FormatForTable(data.Subject),
		"Topik: " + FormatForTable(data.Topic),
		"Model Belajar: " + FormatForTable(data.PedagogicalPractice),
		"",
		"Tugas: " + field.Instruction(),
		"",
		"Jawab dengan poin-poin singkat, padat, dan langsung dapat diterapkan. Jangan gunakan basa-basi.",
	}
	return strings.Join(lines, "\n"), "", true
}
