// Package prompt assembles the text requests sent to the generation provider. Every
// builder is a pure function of its inputs.
package prompt

import (
	"fmt"
	"strings"

	"github.com/noah-isme/modul-ajar-api/internal/models"
)

// EmptyPlaceholder stands in for blank optional values.
const EmptyPlaceholder = "-"

var lineBreaks = strings.NewReplacer("\r\n", lineBreak, "\r", lineBreak, "\n", lineBreak)

// FormatForTable makes a value safe for a single markdown table cell: blank values
// become the placeholder and every line break becomes an explicit <br> marker.
func FormatForTable(value string) string {
	if strings.TrimSpace(value) == "" {
		return EmptyPlaceholder
	}
	return lineBreaks.Replace(value)
}

const persona = `**ROLE & PERSONA**
Anda adalah "Deep Learning Module Engine", sebuah AI ahli kurikulum yang berspesialisasi dalam "Pembelajaran Mendalam" (Deep Learning).`

const outputRules = "**ATURAN OUTPUT MUTLAK**\n" +
	"1. **JANGAN** memberikan kata pengantar, kalimat pembuka, atau basa-basi AI.\n" +
	"2. **LANGSUNG** mulai output dengan Judul Modul (Heading 1).\n" +
	"3. Bagian \"Informasi Umum\", \"Langkah Pembelajaran\", dan \"Asesmen\" **WAJIB** dalam bentuk **TABEL**.\n" +
	"4. **FORMAT BARIS DALAM TABEL:** Gunakan tag `<br>` untuk memisahkan poin-poin agar teks tersusun **VERTIKAL (KE BAWAH)**, bukan menyamping. Jangan gunakan numbering markdown (1. 2.) biasa di dalam tabel karena akan error, gunakan manual: \"1. Teks<br>2. Teks\".\n" +
	"5. Bagian \"Tanda Tangan\" **WAJIB** dua kolom."

// dimensionGuidance maps dimensions to the instrument they demand.
var dimensionGuidance = map[string]string{
	models.DimensionCritical:      "soal/instrumen harus menuntut analisis (HOTS), bukan sekadar hafalan.",
	models.DimensionCreativity:    "instrumen harus menilai orisinalitas ide/produk.",
	models.DimensionCollaboration: "wajib ada rubrik penilaian kolaborasi.",
	models.DimensionFaith:         "kaitkan materi dengan refleksi nilai spiritual/moral.",
}

// guidedDimensions fixes the order rules are listed in when no dimension is selected.
var guidedDimensions = []string{
	models.DimensionCritical,
	models.DimensionCreativity,
	models.DimensionCollaboration,
	models.DimensionFaith,
}

const genericDimensionGuidance = "sertakan indikator atau kriteria rubrik yang menilai dimensi ini secara eksplisit."

// BuildModulePrompt assembles the full module request.
func BuildModulePrompt(data models.ModuleInputData) string {
	parts := []string{
		persona,
		outputRules,
		inputDump(data),
		designInstructions(data),
		"**FORMAT OUTPUT (MARKDOWN)**\n\n" + RenderSkeleton(ModuleSkeleton(data)),
	}
	return strings.Join(parts, "\n\n")
}

func inputDump(data models.ModuleInputData) string {
	lines := []string{
		"**INPUT DATA**",
		"* Sekolah: " + FormatForTable(data.SchoolName),
		fmt.Sprintf("* Guru: %s (NIP: %s)", FormatForTable(data.TeacherName), FormatForTable(data.TeacherNip)),
		fmt.Sprintf("* Kepala Sekolah: %s (NIP: %s)", FormatForTable(data.PrincipalName), FormatForTable(data.PrincipalNip)),
		fmt.Sprintf("* Mapel/Fase: %s - %s", FormatForTable(data.Subject), FormatForTable(data.PhaseClass)),
		"* Topik: " + FormatForTable(data.Topic),
		fmt.Sprintf("* Pertemuan: %d x %d JP", data.Meetings, data.Duration),
		"* Siswa: " + FormatForTable(data.StudentCharacteristics),
		"* **Dimensi Profil Lulusan:** " + joinDimensions(data, "Dipilih oleh AI"),
		"* **Capaian Pembelajaran (CP):** " + FormatForTable(data.LearningOutcomes),
		"* **Tujuan Pembelajaran (TP):** " + FormatForTable(data.LearningObjectives),
		"* **Pengetahuan Awal:** " + FormatForTable(data.PriorKnowledge),
		"* **Praktik Pedagogis:** " + FormatForTable(data.PedagogicalPractice),
		"* **Digital:** " + FormatForTable(data.DigitalUtilization),
		"* **Kemitraan:** " + FormatForTable(data.LearningPartnership),
		"* **Lingkungan:** " + FormatForTable(data.LearningEnvironment),
		"* **Catatan Guru:** " + FormatForTable(data.TeacherNotes),
	}
	return strings.Join(lines, "\n")
}

// objectivesRule switches between reusing supplied objectives and deriving new ones.
func objectivesRule(data models.ModuleInputData) string {
	if strings.TrimSpace(data.LearningObjectives) != "" {
		return "   * **Tujuan Pembelajaran (TP):** User sudah mengisi TP. **GUNAKAN INPUT TERSEBUT PERSIS** (hanya rapikan format menjadi poin-poin). JANGAN mengarang TP baru."
	}
	return "   * **Tujuan Pembelajaran (TP):** Input TP kosong. Rumuskan TP dari Capaian Pembelajaran dan Topik menggunakan KKO yang terukur dan berjenjang (Taksonomi SOLO/Bloom)."
}

func assessmentRules(data models.ModuleInputData) []string {
	selected := data.GraduateProfileDimensions.Values()
	if len(selected) == 0 {
		rules := make([]string, 0, len(guidedDimensions))
		for _, dimension := range guidedDimensions {
			rules = append(rules, fmt.Sprintf("     - Jika dimensi *%s* dipilih oleh AI, %s", dimension, dimensionGuidance[dimension]))
		}
		return rules
	}
	rules := make([]string, 0, len(selected))
	for _, dimension := range selected {
		guidance, ok := dimensionGuidance[dimension]
		if !ok {
			guidance = genericDimensionGuidance
		}
		rules = append(rules, fmt.Sprintf("     - Dimensi *%s*: %s", dimension, guidance))
	}
	return rules
}

func designInstructions(data models.ModuleInputData) string {
	practice := FormatForTable(data.PedagogicalPractice)
	lines := []string{
		"**INSTRUKSI DESAIN**",
		"1. **Perlakuan Input (PENTING):**",
		"   * **Capaian Pembelajaran (CP):** Tampilkan CP sesuai input user di tabel Informasi Umum.",
		objectivesRule(data),
		"",
		"2. **Desain Aktivitas (TABEL):**",
		"   * Gunakan sintaks *" + practice + "*.",
		"   * Pastikan siklus Deep Learning (Memahami -> Mengaplikasi -> Merefleksi) terdistribusi.",
		"   * **Rutinitas Awal:** Setiap pertemuan WAJIB diawali dengan: Menyapa, Mengabsen, dan Berdoa.",
		"   * **Pertemuan 1:** WAJIB ada **Pertanyaan Pemantik** dan **Pernyataan Bermakna** (manfaat kehidupan nyata).",
		fmt.Sprintf("   * **Jumlah Pertemuan:** Buat tepat %d tabel pertemuan.", meetingCount(data)),
		"   * **Visualisasi:** Gunakan placeholder *[GAMBAR: Deskripsi]* jika perlu.",
		"",
		"3. **Desain Asesmen (INTEGRASI PROFIL):**",
		"   * Asesmen WAJIB mengukur pemahaman materi DAN **Dimensi Profil Lulusan** yang dipilih: **" + joinDimensions(data, "Umum") + "**.",
		"   * **LOGIKA ASESMEN:**",
	}
	lines = append(lines, assessmentRules(data)...)
	return strings.Join(lines, "\n")
}
