package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/modul-ajar-api/internal/models"
)

func filledInput() models.ModuleInputData {
	data := models.NewModuleInputData()
	data.SchoolName = "SMA Negeri 1 Bandung"
	data.TeacherName = "Siti Aminah"
	data.TeacherNip = "198501012010012001"
	data.PrincipalName = "Budi Santoso"
	data.PrincipalNip = "197001011995011001"
	data.Subject = "Kimia"
	data.PhaseClass = "Fase E / X"
	data.Topic = "Perubahan Fisika dan Kimia"
	data.Meetings = 3
	data.Duration = 2
	data.GraduateProfileDimensions = models.NewDimensionSet(models.DimensionCritical, models.DimensionCollaboration)
	return data
}

func TestFormatForTable(t *testing.T) {
	assert.Equal(t, "-", FormatForTable(""))
	assert.Equal(t, "-", FormatForTable("   "))
	assert.Equal(t, "a<br>b<br>c<br>d", FormatForTable("a\nb\r\nc\rd"))
	assert.Equal(t, "tanpa baris", FormatForTable("tanpa baris"))
}

func TestBuildModulePromptIsDeterministic(t *testing.T) {
	data := filledInput()
	first := BuildModulePrompt(data)
	second := BuildModulePrompt(data.Clone())
	assert.Equal(t, first, second)
}

func TestBuildModulePromptReplacesLineBreaks(t *testing.T) {
	data := filledInput()
	data.LearningOutcomes = "Peserta didik mampu:\nmengamati\r\nmenganalisis"
	data.TeacherNotes = "catatan 1\ncatatan 2"

	got := BuildModulePrompt(data)
	assert.Contains(t, got, "Peserta didik mampu:<br>mengamati<br>menganalisis")
	assert.Contains(t, got, "catatan 1<br>catatan 2")
	assert.NotContains(t, got, "mampu:\n")
	assert.NotContains(t, got, "catatan 1\n")
}

func TestBuildModulePromptUsesPlaceholderForEmptyFields(t *testing.T) {
	data := filledInput()
	data.DigitalUtilization = ""
	data.LearningPartnership = ""
	data.TeacherNip = ""

	got := BuildModulePrompt(data)
	assert.Contains(t, got, "* **Digital:** -\n")
	assert.Contains(t, got, "* **Kemitraan:** -\n")
	assert.Contains(t, got, "| Sarana Digital | - |")
	assert.Contains(t, got, "NIP. -")
}

func TestBuildModulePromptObjectivesRule(t *testing.T) {
	data := filledInput()
	data.LearningObjectives = ""
	derived := BuildModulePrompt(data)
	assert.Contains(t, derived, "Rumuskan TP dari Capaian Pembelajaran dan Topik")
	assert.NotContains(t, derived, "GUNAKAN INPUT TERSEBUT PERSIS")

	data.LearningObjectives = "Menganalisis ciri perubahan kimia"
	supplied := BuildModulePrompt(data)
	assert.Contains(t, supplied, "GUNAKAN INPUT TERSEBUT PERSIS")
	assert.NotContains(t, supplied, "Rumuskan TP dari Capaian Pembelajaran")
}

func TestBuildModulePromptDimensionRules(t *testing.T) {
	data := filledInput()
	data.GraduateProfileDimensions = models.NewDimensionSet(models.DimensionCreativity, models.DimensionCommunication)

	got := BuildModulePrompt(data)
	assert.Contains(t, got, "Dimensi *Kreativitas*: instrumen harus menilai orisinalitas ide/produk.")
	assert.Contains(t, got, "Dimensi *Komunikasi*: "+genericDimensionGuidance)
	assert.NotContains(t, got, "HOTS")
	assert.NotContains(t, got, "rubrik penilaian kolaborasi")

	data.GraduateProfileDimensions = models.NewDimensionSet()
	fallback := BuildModulePrompt(data)
	for _, dimension := range guidedDimensions {
		assert.Contains(t, fallback, "Jika dimensi *"+dimension+"* dipilih oleh AI")
	}
}

func TestModuleSkeletonShape(t *testing.T) {
	data := filledInput()
	sections := ModuleSkeleton(data)

	require.Len(t, sections, 7)
	assert.Equal(t, "Modul Ajar: Perubahan Fisika dan Kimia", sections[0].Title)

	info := sections[1]
	require.NotNil(t, info.Table)
	assert.Len(t, info.Table.Rows, 10)
	assert.Equal(t, []string{"Alokasi Waktu", "3 Pertemuan x 2 JP"}, info.Table.Rows[4])

	activities := sections[3]
	require.Len(t, activities.Children, 3)
	for i, meeting := range activities.Children {
		require.NotNil(t, meeting.Table)
		assert.Len(t, meeting.Table.Headers, 3)
		require.Len(t, meeting.Table.Rows, 3)
		assert.Equal(t, "**Pendahuluan**", meeting.Table.Rows[0][0])
		assert.Contains(t, meeting.Table.Rows[0][1], "menyapa")
		assert.Contains(t, meeting.Table.Rows[0][1], "kehadiran")
		assert.Contains(t, meeting.Table.Rows[0][1], "doa")
		if i == 0 {
			assert.Contains(t, meeting.Table.Rows[0][1], "Pertanyaan Pemantik & Pernyataan Bermakna")
		} else {
			assert.NotContains(t, meeting.Table.Rows[0][1], "Pertanyaan Pemantik")
		}
		assert.NotContains(t, meeting.Table.Rows[1][1], "\n")
	}

	assessment := sections[4]
	require.NotNil(t, assessment.Table)
	assert.Equal(t, "Diagnostik", assessment.Table.Rows[0][0])
	assert.Equal(t, "Formatif", assessment.Table.Rows[1][0])
	assert.Equal(t, "Sumatif", assessment.Table.Rows[2][0])

	signature := sections[5]
	require.NotNil(t, signature.Table)
	assert.Len(t, signature.Table.Headers, 2)
	assert.Contains(t, signature.Table.Rows[0][0], "**Budi Santoso**")
	assert.Contains(t, signature.Table.Rows[0][1], "**Siti Aminah**")
	assert.Equal(t, "NIP. 197001011995011001", signature.Table.Rows[1][0])

	appendix := sections[6]
	assert.Equal(t, "E. Lampiran Lengkap", appendix.Title)
	assert.Len(t, appendix.Children, 4)
}

func TestModuleSkeletonClampsMeetings(t *testing.T) {
	data := filledInput()
	data.Meetings = 0
	assert.Len(t, ModuleSkeleton(data)[3].Children, 1)

	data.Meetings = 200000
	assert.Len(t, ModuleSkeleton(data)[3].Children, models.MaxMeetings)
}

func TestBuildModulePromptBoundsMeetingTables(t *testing.T) {
	data := filledInput()
	data.Meetings = models.MaxMeetings
	capped := BuildModulePrompt(data)

	data.Meetings = 200000
	oversized := BuildModulePrompt(data)
	assert.Less(t, len(oversized), len(capped)+64)
	assert.Contains(t, oversized, fmt.Sprintf("Buat tepat %d tabel pertemuan.", models.MaxMeetings))
	assert.Less(t, len(oversized), 256*1024)
}

func TestRenderSkeletonMarkdown(t *testing.T) {
	rendered := RenderSkeleton(ModuleSkeleton(filledInput()))

	assert.True(t, strings.HasPrefix(rendered, "# Modul Ajar: Perubahan Fisika dan Kimia\n"))
	assert.Contains(t, rendered, "| Komponen | Deskripsi |\n| --- | --- |\n| Sekolah | SMA Negeri 1 Bandung |")
	assert.Contains(t, rendered, "### Pertemuan 1\n")
	assert.Contains(t, rendered, "### Pertemuan 3\n")
	assert.NotContains(t, rendered, "### Pertemuan 4")
	assert.Contains(t, rendered, "| :--- | :--- |")
	assert.Contains(t, rendered, "---\n\n## E. Lampiran Lengkap")
}

func TestBuildSuggestionPromptRequiresTopic(t *testing.T) {
	data := filledInput()
	data.Topic = "  "

	got, advisory, ok := BuildSuggestionPrompt(SuggestTeacherNotes, data)
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, TopicRequiredAdvisory, advisory)
}

func TestBuildSuggestionPromptInstructions(t *testing.T) {
	data := filledInput()
	for _, field := range SuggestionFields {
		got, advisory, ok := BuildSuggestionPrompt(field, data)
		require.True(t, ok)
		assert.Empty(t, advisory)
		assert.Contains(t, got, "Tugas: "+suggestionInstructions[field])
		assert.Contains(t, got, "Topik: Perubahan Fisika dan Kimia")
		assert.Contains(t, got, "Model Belajar: "+models.DefaultPedagogicalPractice())
	}

	got, _, ok := BuildSuggestionPrompt(SuggestionField(models.FieldStudentCharacteristics), data)
	require.True(t, ok)
	assert.Contains(t, got, "Tugas: "+defaultSuggestionInstruction)
}

func TestBuildSuggestionPromptIsDeterministic(t *testing.T) {
	data := filledInput()
	a, _, _ := BuildSuggestionPrompt(SuggestDigitalUtilization, data)
	b, _, _ := BuildSuggestionPrompt(SuggestDigitalUtilization, data)
	assert.Equal(t, a, b)
}
