package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// Dataset defines one tabular block extracted from a document.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ExtractTables collects every table of the document, titled by the nearest preceding heading.
func ExtractTables(doc *document) []Dataset {
	var (
		datasets []Dataset
		heading  string
	)
	_ = ast.Walk(doc.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			heading = strings.TrimSpace(plainText(node, doc.source))
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			datasets = append(datasets, tableDataset(node, doc.source, heading))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return datasets
}

func tableDataset(table *extast.Table, source []byte, title string) Dataset {
	data := Dataset{Title: title}
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(plainText(cell, source)))
		}
		if _, ok := row.(*extast.TableHeader); ok {
			data.Headers = cells
			continue
		}
		data.Rows = append(data.Rows, cells)
	}
	return data
}

// RenderCSV writes each dataset as a titled block separated by an empty record.
func RenderCSV(datasets []Dataset) ([]byte, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("csv requires at least one table")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for i, data := range datasets {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return nil, fmt.Errorf("write csv separator: %w", err)
			}
		}
		if data.Title != "" {
			if err := writer.Write([]string{data.Title}); err != nil {
				return nil, fmt.Errorf("write csv title: %w", err)
			}
		}
		if err := writer.Write(data.Headers); err != nil {
			return nil, fmt.Errorf("write csv headers: %w", err)
		}
		for _, row := range data.Rows {
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
