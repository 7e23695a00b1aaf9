package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var lineBreakTag = regexp.MustCompile(`(?i)^<br\s*/?>$`)

// newMarkdown returns a GFM parser that passes raw HTML such as <br> through untouched.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// document is a parsed markdown source.
type document struct {
	source []byte
	root   ast.Node
}

func parseDocument(md goldmark.Markdown, markdown string) *document {
	source := []byte(markdown)
	return &document{source: source, root: md.Parser().Parse(text.NewReader(source))}
}

func renderHTML(md goldmark.Markdown, doc *document) (string, error) {
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, doc.source, doc.root); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// run is a span of inline text sharing one style.
type run struct {
	text   string
	bold   bool
	italic bool
}

func collectRuns(n ast.Node, source []byte, bold, italic bool, out []run) []run {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, run{text: string(node.Segment.Value(source)), bold: bold, italic: italic})
			if node.HardLineBreak() {
				out = append(out, run{text: "\n"})
			} else if node.SoftLineBreak() {
				out = append(out, run{text: " ", bold: bold, italic: italic})
			}
		case *ast.String:
			out = append(out, run{text: string(node.Value), bold: bold, italic: italic})
		case *ast.Emphasis:
			out = collectRuns(node, source, bold || node.Level >= 2, italic || node.Level == 1, out)
		case *ast.RawHTML:
			if lineBreakTag.MatchString(strings.TrimSpace(rawHTML(node, source))) {
				out = append(out, run{text: "\n"})
			}
		case *ast.AutoLink:
			out = append(out, run{text: string(node.URL(source)), bold: bold, italic: italic})
		default:
			out = collectRuns(c, source, bold, italic, out)
		}
	}
	return out
}

func rawHTML(n *ast.RawHTML, source []byte) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		b.Write(segment.Value(source))
	}
	return b.String()
}

// plainText flattens inline content, turning <br> tags into newlines. Leading breaks are
// kept so signature cells retain their blank space.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	for _, r := range collectRuns(n, source, false, false, nil) {
		b.WriteString(r.text)
	}
	return strings.Trim(b.String(), " \t")
}
