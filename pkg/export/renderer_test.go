package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModule = `# Modul Ajar: Perubahan Zat

## A. Informasi Umum

| Komponen | Deskripsi |
| --- | --- |
| Sekolah | SMA Negeri 1 |
| **Capaian Pembelajaran** | Poin satu<br>Poin dua |

## B. Tujuan Pembelajaran
1. Menganalisis perubahan fisika.
2. Membedakan perubahan kimia.

## D. Asesmen

| Jenis | Metode | Instrumen |
| --- | --- | --- |
| Diagnostik | Tes lisan | Daftar pertanyaan |
| Formatif | Observasi | Rubrik kolaborasi |
| Sumatif | Tes tertulis | Soal HOTS |
`

func fixedRenderer() *Renderer {
	return NewRenderer().WithClock(func() time.Time {
		return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	})
}

func TestRenderWordDocument(t *testing.T) {
	artifact, err := fixedRenderer().Render(FormatWord, sampleModule)
	require.NoError(t, err)

	assert.Equal(t, "Modul_Ajar_2026-10-17.doc", artifact.Filename)
	assert.Equal(t, "application/msword", artifact.ContentType)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("\ufeff")))

	body := string(artifact.Data)
	assert.Contains(t, body, "urn:schemas-microsoft-com:office:word")
	assert.Contains(t, body, "mso-data-placement:same-cell")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "Poin satu<br>Poin dua")
}

func TestRenderPrintDocument(t *testing.T) {
	artifact, err := fixedRenderer().Render(FormatPrint, sampleModule)
	require.NoError(t, err)

	body := string(artifact.Data)
	assert.Contains(t, body, "Times New Roman")
	assert.Contains(t, body, "window.print()")
	assert.Contains(t, body, "<h1")
	assert.Equal(t, "text/html; charset=utf-8", artifact.ContentType)
}

func TestRenderMarkdownCopy(t *testing.T) {
	artifact, err := fixedRenderer().Render(FormatMarkdown, sampleModule)
	require.NoError(t, err)
	assert.Equal(t, sampleModule, string(artifact.Data))
	assert.Equal(t, "Modul_Ajar_2026-10-17.md", artifact.Filename)
}

func TestRenderPDF(t *testing.T) {
	artifact, err := fixedRenderer().Render(FormatPDF, sampleModule)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", artifact.ContentType)
}

func TestRenderCSVExtractsTables(t *testing.T) {
	artifact, err := fixedRenderer().Render(FormatCSV, sampleModule)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(artifact.Data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"A. Informasi Umum"}, records[0])
	assert.Equal(t, []string{"Komponen", "Deskripsi"}, records[1])
	assert.Equal(t, []string{"Capaian Pembelajaran", "Poin satu\nPoin dua"}, records[3])
	assert.Contains(t, records, []string{"D. Asesmen"})
	assert.Contains(t, records, []string{"Sumatif", "Tes tertulis", "Soal HOTS"})
}

func TestRenderCSVWithoutTables(t *testing.T) {
	_, err := fixedRenderer().Render(FormatCSV, "# Judul\n\nTanpa tabel.")
	require.Error(t, err)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := fixedRenderer().Render(Format("xlsx"), sampleModule)
	require.Error(t, err)
}

func TestHTMLPassesLineBreaks(t *testing.T) {
	html, err := fixedRenderer().HTML("| a |\n| --- |\n| x<br>y |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "x<br>y")
}

func TestFormatForFilename(t *testing.T) {
	cases := map[string]Format{
		"Modul_Ajar_2026-10-17.doc":        FormatWord,
		"Modul_Ajar_2026-10-17_print.html": FormatPrint,
		"Modul_Ajar_2026-10-17.html":       FormatHTML,
		"Modul_Ajar_2026-10-17.md":         FormatMarkdown,
	}
	for name, want := range cases {
		got, ok := FormatForFilename(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := FormatForFilename("arsip.zip")
	assert.False(t, ok)
}
