package ingest

import (
	"os"
	"path/filepath"
)

// Dirs holds the output directories for one run.
type Dirs struct {
	RawText  string
	Summary  string
	JSON     string
	Excel    string
	Database string
}

// SetupDirectories creates the output tree under base and returns the
// resolved paths.
func SetupDirectories(base string) (Dirs, error) {
	d := Dirs{
		RawText:  filepath.Join(base, "raw_text"),
		Summary:  filepath.Join(base, "summarized_text"),
		JSON:     filepath.Join(base, "json_story_branches"),
		Excel:    filepath.Join(base, "excel_story_branches"),
		Database: filepath.Join(base, "storybranch.db"),
	}
	for _, dir := range []string{d.RawText, d.Summary, d.JSON, d.Excel} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Dirs{}, err
		}
	}
	return d, nil
}

// SaveText writes a plain-text artifact, creating parent directories
// as needed.
func SaveText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}
