package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storybranch/internal/storage"
	"storybranch/internal/story"
)

func TestLoadSettings_ConfigFlagPrecedence(t *testing.T) {
	t.Setenv("STORYBRANCH_API_KEY", "")
	t.Setenv("STORYBRANCH_AI_PROVIDER", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  api_key: test-key
generation:
  enrich: false
  combined_excel: false
`), 0644))

	// Without the flags on the command line, the config file wins even
	// though both flag defaults are true.
	cfg, err := loadSettings(generateCmd, path)
	require.NoError(t, err)
	assert.False(t, cfg.Generation.Enrich)
	assert.False(t, cfg.Generation.CombinedExcel)

	// An explicitly passed flag overrides the file.
	require.NoError(t, generateCmd.Flags().Set("enrich", "true"))
	cfg, err = loadSettings(generateCmd, path)
	require.NoError(t, err)
	assert.True(t, cfg.Generation.Enrich)
	assert.False(t, cfg.Generation.CombinedExcel)
}

func TestExportStored(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "storybranch.db")

	store, err := storage.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	doc := &story.Document{
		Topic: "asma",
		Nodes: []story.Node{{
			Situation: "situazione", Reasoning: "ragionamento",
			Choices: []story.Choice{
				{Text: "a", Outcome: "o", Impact: "i", Score: 1},
				{Text: "b", Outcome: "o", Impact: "i", Score: -1},
			},
		}},
	}
	require.NoError(t, store.SaveDocument(context.Background(), "uno", doc, false))
	require.NoError(t, store.Close())

	filePath := filepath.Join(dir, "uno_story_branch.xlsx")
	require.NoError(t, exportStored(context.Background(), dbPath, "uno", filePath))

	f, err := excelize.OpenFile(filePath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Story Branch")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "asma", rows[1][2])
	assert.Equal(t, "Node 1", rows[2][1])
}

func TestExportStored_NotFound(t *testing.T) {
	dir := t.TempDir()
	err := exportStored(context.Background(), filepath.Join(dir, "storybranch.db"), "missing", filepath.Join(dir, "out.xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
