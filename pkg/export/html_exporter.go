package export

import (
	"html/template"
	"strings"
)

// byteOrderMark lets word processors detect UTF-8 in the exported .doc file.
const byteOrderMark = "\ufeff"

const wordStylesheet = `body { font-family: 'Times New Roman', serif; }
h1, h2, h3, h4 { color: #000000; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1em; }
td, th { border: 1px solid #000000; padding: 8px; text-align: left; vertical-align: top; }
th { background-color: #f2f2f2; }
br { mso-data-placement:same-cell; }`

const printStylesheet = `body { font-family: 'Times New Roman', serif; padding: 40px; line-height: 1.6; color: #000; }
h1 { font-size: 24px; font-weight: bold; text-align: center; margin-bottom: 20px; border-bottom: 2px solid #000; padding-bottom: 10px; }
h2 { font-size: 18px; font-weight: bold; margin-top: 25px; margin-bottom: 10px; border-bottom: 1px solid #ccc; }
h3 { font-size: 16px; font-weight: bold; margin-top: 15px; margin-bottom: 5px; }
h4 { font-size: 14px; font-weight: bold; margin-top: 10px; }
p, li { font-size: 12pt; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin: 15px 0; }
th, td { border: 1px solid #000; padding: 10px; text-align: left; vertical-align: top; }
th { background-color: #f2f2f2; font-weight: bold; }
ul, ol { padding-left: 20px; margin-top: 5px; margin-bottom: 5px; }
blockquote { border-left: 3px solid #ccc; padding-left: 10px; font-style: italic; margin: 10px 0; }
.page-break { page-break-before: always; }
@page { margin: 2cm; }`

var wordTemplate = template.Must(template.New("word").Parse(`<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{.Stylesheet}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{.Stylesheet}}
</style>
</head>
<body>
{{.Body}}
<script>window.addEventListener('load', function () { setTimeout(function () { window.print(); }, 500); });</script>
</body>
</html>
`))

type htmlPage struct {
	Title      string
	Stylesheet template.CSS
	Body       template.HTML
}

// renderPage wraps an already rendered HTML body. The body comes from our own markdown
// renderer so it is trusted as-is.
func renderPage(tmpl *template.Template, title, stylesheet, body string) (string, error) {
	var b strings.Builder
	page := htmlPage{
		Title:      title,
		Stylesheet: template.CSS(stylesheet), //nolint:gosec
		Body:       template.HTML(body),      //nolint:gosec
	}
	if err := tmpl.Execute(&b, page); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WordDocument renders an Office-flavoured HTML document that word processors open as .doc.
func WordDocument(body string) ([]byte, error) {
	page, err := renderPage(wordTemplate, "Modul Ajar", wordStylesheet, body)
	if err != nil {
		return nil, err
	}
	return []byte(byteOrderMark + page), nil
}

// PrintDocument renders a standalone page that opens the print dialog once loaded.
func PrintDocument(body string) ([]byte, error) {
	page, err := renderPage(printTemplate, "Modul Ajar Deep Learning", printStylesheet, body)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}
