package prompt

import (
	"fmt"
	"strings"

	"github.com/noah-isme/modul-ajar-api/internal/models"
)

// Table is a markdown table inside the document skeleton.
type Table struct {
	Headers []string
	// Align is the separator cell used for every column; defaults to "---".
	Align string
	Rows  [][]string
}

// Section describes one block of the expected output document. Sections render in
// order; Children render after the section's own table.
type Section struct {
	Level    int
	Title    string
	Note     string
	Lead     string
	Lines    []string
	Table    *Table
	Children []Section
	// RuleBefore emits a thematic break ahead of the section.
	RuleBefore bool
}

const lineBreak = "<br>"

// ModuleSkeleton returns the document outline the generator must fill, in order.
func ModuleSkeleton(data models.ModuleInputData) []Section {
	meetings := meetingCount(data)
	return []Section{
		{Level: 1, Title: "Modul Ajar: " + FormatForTable(data.Topic)},
		generalInformation(data),
		{
			Level: 2,
			Title: "B. Tujuan Pembelajaran",
			Note:  "*(Gunakan TP dari input user di atas. Jika kosong, gunakan TP hasil rumusan AI)*",
			Lines: []string{"1. ...", "2. ..."},
		},
		{
			Level:    2,
			Title:    "C. Rincian Kegiatan Pembelajaran",
			Note:     fmt.Sprintf("*(Isi tabel untuk setiap Pertemuan 1 s.d. %d. Pastikan Pertemuan 1 memiliki Pertanyaan Pemantik & Pernyataan Bermakna)*", meetings),
			Children: meetingSections(data, meetings),
		},
		{
			Level: 2,
			Title: "D. Asesmen",
			Table: &Table{
				Headers: []string{"Jenis", "Metode", "Instrumen"},
				Rows: [][]string{
					{"Diagnostik", "[Metode]", "[Instrumen]"},
					{"Formatif", "[Metode]", "[Instrumen]"},
					{"Sumatif", "[Metode]", "[Instrumen]"},
				},
			},
		},
		signatureSection(data),
		appendixSection(data),
	}
}

func generalInformation(data models.ModuleInputData) Section {
	return Section{
		Level: 2,
		Title: "A. Informasi Umum",
		Table: &Table{
			Headers: []string{"Komponen", "Deskripsi"},
			Rows: [][]string{
				{"Sekolah", FormatForTable(data.SchoolName)},
				{"Guru Penyusun", FormatForTable(data.TeacherName)},
				{"Mapel/Fase", FormatForTable(data.Subject) + " / " + FormatForTable(data.PhaseClass)},
				{"Topik", FormatForTable(data.Topic)},
				{"Alokasi Waktu", fmt.Sprintf("%d Pertemuan x %d JP", data.Meetings, data.Duration)},
				{"**Capaian Pembelajaran**", FormatForTable(data.LearningOutcomes)},
				{"Kompetensi Awal", FormatForTable(data.PriorKnowledge)},
				{"Profil Lulusan", joinDimensions(data, "Disesuaikan")},
				{"Praktik Pedagogis", FormatForTable(data.PedagogicalPractice)},
				{"Sarana Digital", FormatForTable(data.DigitalUtilization)},
			},
		},
	}
}

func meetingSections(data models.ModuleInputData, meetings int) []Section {
	practice := FormatForTable(data.PedagogicalPractice)
	sections := make([]Section, 0, meetings)
	for i := 1; i <= meetings; i++ {
		apersepsi := "*(Review materi pertemuan sebelumnya)*"
		if i == 1 {
			apersepsi = "*(Pertemuan 1: Masukkan Pertanyaan Pemantik & Pernyataan Bermakna di sini)*"
		}
		opening := strings.Join([]string{
			"**Rutinitas Awal:**",
			"1. Guru menyapa siswa dengan ramah.",
			"2. Guru memeriksa kehadiran peserta didik.",
			"3. Guru memimpin doa sebelum belajar.",
			"",
			"**Apersepsi & Motivasi:**",
			apersepsi,
			"4. Menyampaikan tujuan pembelajaran.",
		}, lineBreak)
		core := strings.Join([]string{
			"**Sintaks " + practice + ":**",
			"",
			"1. [Langkah 1 Model Belajar].",
			"   *Deskripsi aktivitas siswa yang mendalam.*",
			"   *[GAMBAR: Jika perlu, deskripsikan ilustrasi pendukung di sini]*",
			"",
			"2. [Langkah 2 Model Belajar].",
			"   *Deskripsi aktivitas kolaborasi/eksplorasi.*",
			"",
			"3. [Langkah 3 Model Belajar].",
			"   *Deskripsi penyelesaian masalah/proyek.*",
		}, lineBreak)
		closing := strings.Join([]string{
			"**Kegiatan Penutup**",
			"1. Refleksi bersama siswa.",
			"2. Penyimpulan materi.",
			"3. Doa penutup.",
		}, lineBreak)

		sections = append(sections, Section{
			Level: 3,
			Title: fmt.Sprintf("Pertemuan %d", i),
			Table: &Table{
				Headers: []string{"Pengalaman Belajar", "Langkah-langkah Pembelajaran", "Waktu"},
				Rows: [][]string{
					{"**Pendahuluan**", opening, "15 menit"},
					{"**Inti**" + lineBreak + "*(Memahami / Mengaplikasi / Merefleksi)*", core, "... menit"},
					{"**Penutup**", closing, "15 menit"},
				},
			},
		})
	}
	return sections
}

func signatureSection(data models.ModuleInputData) Section {
	spacer := strings.Repeat(lineBreak, 4)
	return Section{
		Lead: lineBreak,
		Table: &Table{
			Headers: []string{"Mengetahui," + lineBreak + "Kepala Sekolah", "Guru Mata Pelajaran"},
			Align:   ":---",
			Rows: [][]string{
				{spacer + " **" + FormatForTable(data.PrincipalName) + "**", spacer + " **" + FormatForTable(data.TeacherName) + "**"},
				{"NIP. " + FormatForTable(data.PrincipalNip), "NIP. " + FormatForTable(data.TeacherNip)},
			},
		},
	}
}

func appendixSection(data models.ModuleInputData) Section {
	return Section{
		RuleBefore: true,
		Level:      2,
		Title:      "E. Lampiran Lengkap",
		Children: []Section{
			{
				Level: 3,
				Title: "1. Instrumen Asesmen",
				Note: "*(Buatkan **detail** instrumen asesmen. **PENTING:** Pastikan butir soal atau kriteria rubrik secara eksplisit menguji/menilai Dimensi Profil Lulusan yang dipilih (" +
					joinDimensions(data, "Dipilih oleh AI") +
					"). Contoh: \"Soal nomor 3 menguji Penalaran Kritis karena meminta siswa menganalisis penyebab...\")*",
			},
			{
				Level: 3,
				Title: "2. Lembar Kerja Peserta Didik (LKPD)",
				Note:  "*(Buatkan **contoh nyata** LKPD yang bisa langsung difotokopi. Berisi: Judul Aktivitas, Petunjuk Pengerjaan, Soal/Tabel Pengamatan, dan sertakan tag [GAMBAR: ...] untuk menunjukkan posisi ilustrasi)*",
			},
			{
				Level: 3,
				Title: "3. Poin Penting Presentasi Guru",
				Note:  "*(Buatkan ringkasan poin-poin materi (slide) yang harus dipresentasikan guru di depan kelas. Sertakan ide visualisasi/gambar untuk setiap poin penting)*",
			},
			{
				Level: 3,
				Title: "4. Bahan Bacaan Guru & Peserta Didik",
				Note:  "*(Berikan ringkasan materi esensial sekitar 2-3 paragraf untuk penguatan pemahaman topik " + FormatForTable(data.Topic) + ")*",
			},
		},
	}
}

// meetingCount keeps the number of meeting blocks within [1, MaxMeetings] even before validation.
func meetingCount(data models.ModuleInputData) int {
	switch {
	case data.Meetings < 1:
		return 1
	case data.Meetings > models.MaxMeetings:
		return models.MaxMeetings
	}
	return data.Meetings
}

func joinDimensions(data models.ModuleInputData, fallback string) string {
	values := data.GraduateProfileDimensions.Values()
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// RenderSkeleton writes sections as markdown.
func RenderSkeleton(sections []Section) string {
	var b strings.Builder
	for i := range sections {
		writeSection(&b, sections[i])
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeSection(b *strings.Builder, s Section) {
	if s.RuleBefore {
		b.WriteString("---\n\n")
	}
	if s.Title != "" {
		b.WriteString(strings.Repeat("#", s.Level))
		b.WriteString(" ")
		b.WriteString(s.Title)
		b.WriteString("\n\n")
	}
	if s.Note != "" {
		b.WriteString(s.Note)
		b.WriteString("\n")
	}
	for _, line := range s.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if s.Note != "" || len(s.Lines) > 0 {
		b.WriteString("\n")
	}
	if s.Lead != "" {
		b.WriteString(s.Lead)
		b.WriteString("\n\n")
	}
	if s.Table != nil {
		writeTable(b, s.Table)
		b.WriteString("\n")
	}
	for i := range s.Children {
		writeSection(b, s.Children[i])
	}
}

func writeTable(b *strings.Builder, t *Table) {
	align := t.Align
	if align == "" {
		align = "---"
	}
	writeRow(b, t.Headers)
	separators := make([]string, len(t.Headers))
	for i := range separators {
		separators[i] = align
	}
	writeRow(b, separators)
	for _, row := range t.Rows {
		writeRow(b, row)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}
