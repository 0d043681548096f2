package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"storybranch/internal/story"
)

const sheetName = "Story Branch"

var headerRow = []any{"Story Branch", "Node", "Situation", "Reasoning", "Choice", "Outcome", "Impact"}

// Converter renders story documents as xlsx workbooks: one file per
// document, an in-memory download buffer, or one combined workbook
// for a whole batch.
type Converter struct {
	outputDir string
}

func NewConverter(outputDir string) *Converter {
	return &Converter{outputDir: outputDir}
}

// Item pairs a document with its derived artifact name for combined
// export.
type Item struct {
	Doc  *story.Document
	Name string
}

// documentRows flattens one document: a topic row, one row per node,
// one row per choice.
func documentRows(doc *story.Document, label string) [][]any {
	rows := [][]any{
		{label, "Topic", doc.Topic, "", "", "", ""},
	}
	for i, node := range doc.Nodes {
		rows = append(rows, []any{label, fmt.Sprintf("Node %d", i+1), node.Situation, node.Reasoning, "", "", ""})
		for j, choice := range node.Choices {
			rows = append(rows, []any{label, fmt.Sprintf("Node %d Choice %d", i+1, j+1), "", "", choice.Text, choice.Outcome, choice.Impact})
		}
	}
	return rows
}

func writeWorkbook(rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}
	all := append([][]any{headerRow}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// DocumentToExcel writes one document to a timestamped workbook in
// the output directory and returns its path.
func (c *Converter) DocumentToExcel(doc *story.Document, name string) (string, error) {
	f, err := writeWorkbook(documentRows(doc, name))
	if err != nil {
		return "", fmt.Errorf("failed to build workbook for %s: %w", name, err)
	}
	defer f.Close()

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", err
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(c.outputDir, fmt.Sprintf("%s_story_branch_%s.xlsx", name, timestamp))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

// DownloadBuffer renders one document as an in-memory workbook.
func (c *Converter) DownloadBuffer(doc *story.Document, name string) (*bytes.Buffer, error) {
	f, err := writeWorkbook(documentRows(doc, name))
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook for %s: %w", name, err)
	}
	defer f.Close()
	return f.WriteToBuffer()
}

// CombineToBuffer renders a batch into one workbook, with a leading
// separator row per source.
func (c *Converter) CombineToBuffer(items []Item) (*bytes.Buffer, error) {
	var rows [][]any
	for _, item := range items {
		rows = append(rows, []any{fmt.Sprintf("=== %s ===", item.Name), "", "", "", "", "", ""})
		rows = append(rows, documentRows(item.Doc, item.Name)...)
	}
	f, err := writeWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build combined workbook: %w", err)
	}
	defer f.Close()
	return f.WriteToBuffer()
}

// SaveCombined writes a combined workbook buffer to a timestamped
// file in the output directory and returns its path.
func (c *Converter) SaveCombined(buf *bytes.Buffer) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", err
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(c.outputDir, fmt.Sprintf("story_branches_%s.xlsx", timestamp))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save combined workbook: %w", err)
	}
	return path, nil
}
