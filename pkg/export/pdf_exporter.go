package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

const (
	pdfFont       = "Times"
	pdfMargin     = 15.0
	pdfLineHeight = 5.5
	pdfCellLine   = 4.5
	pdfBodySize   = 11.0
	pdfTableSize  = 9.0
	pdfListIndent = 6.0
)

var headingSizes = map[int]float64{1: 16, 2: 14, 3: 12, 4: 11}

// pdfWriter walks a markdown tree onto A4 pages.
type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	source []byte
}

// RenderPDF lays out headings, paragraphs, lists and tables of a markdown document.
func RenderPDF(doc *document, title string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	w := &pdfWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		source: doc.source,
	}
	w.blocks(doc.root, 0)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) blocks(parent ast.Node, indent float64) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, indent)
	}
}

func (w *pdfWriter) block(n ast.Node, indent float64) {
	switch node := n.(type) {
	case *ast.Heading:
		size, ok := headingSizes[node.Level]
		if !ok {
			size = pdfBodySize
		}
		w.pdf.Ln(2)
		w.paragraph(collectRuns(node, w.source, true, false, nil), size, indent, "")
		w.pdf.Ln(1)
	case *ast.Paragraph, *ast.TextBlock:
		w.paragraph(collectRuns(node, w.source, false, false, nil), pdfBodySize, indent, "")
		w.pdf.Ln(1)
	case *ast.List:
		w.list(node, indent)
	case *ast.Blockquote:
		w.blocks(node, indent+pdfListIndent)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.code(node, indent)
	case *ast.ThematicBreak:
		y := w.pdf.GetY() + 2
		pageW, _ := w.pdf.GetPageSize()
		w.pdf.Line(pdfMargin, y, pageW-pdfMargin, y)
		w.pdf.SetY(y + 3)
	case *extast.Table:
		w.table(node)
		w.pdf.Ln(3)
	case *ast.HTMLBlock:
		// Layout-only HTML such as spacer <br> lines.
		w.pdf.Ln(pdfLineHeight)
	default:
		w.blocks(n, indent)
	}
}

// paragraph writes styled runs, wrapping at the indented left margin.
func (w *pdfWriter) paragraph(runs []run, size, indent float64, marker string) {
	left := pdfMargin + indent
	w.pdf.SetLeftMargin(left)
	w.pdf.SetX(left)
	if marker != "" {
		w.pdf.SetFont(pdfFont, "", size)
		w.pdf.Write(pdfLineHeight, w.tr(marker+" "))
	}
	for _, r := range runs {
		style := ""
		if r.bold {
			style += "B"
		}
		if r.italic {
			style += "I"
		}
		w.pdf.SetFont(pdfFont, style, size)
		w.pdf.Write(pdfLineHeight, w.tr(r.text))
	}
	w.pdf.Ln(pdfLineHeight)
	w.pdf.SetLeftMargin(pdfMargin)
}

func (w *pdfWriter) list(list *ast.List, indent float64) {
	number := list.Start
	if number == 0 {
		number = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "•"
		if list.IsOrdered() {
			marker = strconv.Itoa(number) + "."
			number++
		}
		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				m := ""
				if first {
					m = marker
				}
				w.paragraph(collectRuns(child, w.source, false, false, nil), pdfBodySize, indent+pdfListIndent, m)
			default:
				w.block(child, indent+pdfListIndent)
			}
			first = false
		}
	}
	w.pdf.Ln(1)
}

func (w *pdfWriter) code(n ast.Node, indent float64) {
	lines := n.Lines()
	w.pdf.SetFont("Courier", "", pdfTableSize)
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		w.pdf.SetX(pdfMargin + indent)
		w.pdf.CellFormat(0, pdfCellLine, w.tr(strings.TrimRight(string(segment.Value(w.source)), "\n")), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) table(table *extast.Table) {
	var rows [][]string
	headerRows := 0
	cols := 0
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, plainText(cell, w.source))
		}
		if _, ok := row.(*extast.TableHeader); ok {
			headerRows++
		}
		if len(cells) > cols {
			cols = len(cells)
		}
		rows = append(rows, cells)
	}
	if cols == 0 {
		return
	}

	pageW, pageH := w.pdf.GetPageSize()
	colW := (pageW - 2*pdfMargin) / float64(cols)

	// Rows are placed manually so a row never splits across pages.
	w.pdf.SetAutoPageBreak(false, pdfMargin)
	defer w.pdf.SetAutoPageBreak(true, pdfMargin)

	for i, cells := range rows {
		style := ""
		if i < headerRows {
			style = "B"
		}
		w.pdf.SetFont(pdfFont, style, pdfTableSize)

		lines := make([][]string, cols)
		maxLines := 1
		for c := 0; c < cols; c++ {
			value := ""
			if c < len(cells) {
				value = cells[c]
			}
			lines[c] = w.splitCell(value, colW)
			if len(lines[c]) > maxLines {
				maxLines = len(lines[c])
			}
		}
		height := float64(maxLines)*pdfCellLine + 2

		y := w.pdf.GetY()
		if y+height > pageH-pdfMargin {
			w.pdf.AddPage()
			y = w.pdf.GetY()
		}
		for c := 0; c < cols; c++ {
			x := pdfMargin + float64(c)*colW
			if i < headerRows {
				w.pdf.SetFillColor(242, 242, 242)
				w.pdf.Rect(x, y, colW, height, "FD")
			} else {
				w.pdf.Rect(x, y, colW, height, "D")
			}
			for l, line := range lines[c] {
				w.pdf.SetXY(x, y+1+float64(l)*pdfCellLine)
				w.pdf.CellFormat(colW, pdfCellLine, line, "", 0, "L", false, 0, "")
			}
		}
		w.pdf.SetXY(pdfMargin, y+height)
	}
}

// splitCell wraps cell text to the column width, honouring explicit line breaks.
func (w *pdfWriter) splitCell(value string, width float64) []string {
	var out []string
	for _, segment := range strings.Split(w.tr(value), "\n") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			out = append(out, "")
			continue
		}
		wrapped := w.pdf.SplitLines([]byte(segment), width)
		if len(wrapped) == 0 {
			out = append(out, "")
			continue
		}
		for _, line := range wrapped {
			out = append(out, string(line))
		}
	}
	return out
}
