package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Decode strictly parses raw model output into a Document. Unknown
// fields and schema violations are decode failures: a partially
// shaped object is never accepted.
func Decode(raw string) (*Document, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := ValidateSchema(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Marshal renders the document as indented UTF-8 JSON without HTML
// escaping, so accented text stays readable in the artifact.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save validates and writes the document to path.
func Save(path string, d *Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := ValidateSchema(d); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Load reads a document artifact back from disk.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
