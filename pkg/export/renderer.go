package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Format names an export representation of a generated module.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatWord     Format = "doc"
	FormatPrint    Format = "print"
	FormatPDF      Format = "pdf"
	FormatCSV      Format = "csv"
)

// Formats lists every supported export format.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatWord, FormatPrint, FormatPDF, FormatCSV}

// Valid reports whether the format is supported.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML, FormatPrint:
		return "text/html; charset=utf-8"
	case FormatWord:
		return "application/msword"
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

func (f Format) extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatPrint:
		return "_print.html"
	case FormatWord:
		return ".doc"
	case FormatPDF:
		return ".pdf"
	case FormatCSV:
		return ".csv"
	}
	return ".bin"
}

// Filename stamps the export with the given date, e.g. Modul_Ajar_2026-10-17.doc.
func (f Format) Filename(at time.Time) string {
	return "Modul_Ajar_" + at.Format("2006-01-02") + f.extension()
}

// Artifact is a rendered export ready to be stored or streamed.
type Artifact struct {
	Format      Format
	Filename    string
	ContentType string
	Data        []byte
}

// Renderer converts generated markdown into downloadable artifacts.
type Renderer struct {
	md  goldmark.Markdown
	now func() time.Time
}

// NewRenderer builds a renderer with GFM tables and raw HTML passthrough.
func NewRenderer() *Renderer {
	return &Renderer{md: newMarkdown(), now: time.Now}
}

// WithClock overrides the time source used for filenames.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	if now != nil {
		r.now = now
	}
	return r
}

// HTML renders the markdown body without any page wrapper.
func (r *Renderer) HTML(markdown string) (string, error) {
	return renderHTML(r.md, parseDocument(r.md, markdown))
}

// Render produces the artifact for the requested format.
func (r *Renderer) Render(format Format, markdown string) (*Artifact, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	doc := parseDocument(r.md, markdown)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatMarkdown:
		data = []byte(markdown)
	case FormatHTML, FormatWord, FormatPrint:
		var body string
		body, err = renderHTML(r.md, doc)
		if err != nil {
			break
		}
		switch format {
		case FormatWord:
			data, err = WordDocument(body)
		case FormatPrint:
			data, err = PrintDocument(body)
		default:
			data = []byte(body)
		}
	case FormatPDF:
		data, err = RenderPDF(doc, "Modul Ajar")
	case FormatCSV:
		data, err = RenderCSV(ExtractTables(doc))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &Artifact{
		Format:      format,
		Filename:    format.Filename(r.now()),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// FormatForFilename infers the export format from a stored file name.
func FormatForFilename(name string) (Format, bool) {
	var (
		best    Format
		longest int
	)
	for _, f := range Formats {
		ext := f.extension()
		if strings.HasSuffix(name, ext) && len(ext) > longest {
			best, longest = f, len(ext)
		}
	}
	return best, longest > 0
}
