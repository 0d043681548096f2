package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybranch/internal/story"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, Run{
		Source: "uno.pdf", Name: "uno", Topic: "asma",
		Model: "gpt-4.1", Language: "italiano", NodeCount: 10,
		Status: RunStatusOK,
	}))
	require.NoError(t, store.RecordRun(ctx, Run{
		Source: "due.pdf", Topic: "asma",
		Model: "gpt-4.1", Language: "italiano", NodeCount: 10,
		Status: RunStatusFailed, Error: "no text extracted",
	}))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "due.pdf", runs[0].Source)
	assert.Equal(t, RunStatusFailed, runs[0].Status)
	assert.Equal(t, "no text extracted", runs[0].Error)
	assert.Equal(t, "uno.pdf", runs[1].Source)
	assert.False(t, runs[1].CreatedAt.IsZero())
}

func TestSaveAndLoadDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &story.Document{
		Topic: "asma",
		Nodes: []story.Node{{
			Situation: "s", Reasoning: "r",
			Choices: []story.Choice{
				{Text: "a", Outcome: "o", Impact: "i", Score: 1},
				{Text: "b", Outcome: "o", Impact: "i", Score: -1},
			},
		}},
	}

	require.NoError(t, store.SaveDocument(ctx, "uno", doc, false))

	loaded, enriched, err := store.LoadDocument(ctx, "uno")
	require.NoError(t, err)
	assert.False(t, enriched)
	assert.Equal(t, "asma", loaded.Topic)
	require.Len(t, loaded.Nodes, 1)

	// Upsert replaces the stored copy.
	doc.Nodes[0].Dialogue = []story.DialogueTurn{{Speaker: 1, Text: "ciao"}}
	require.NoError(t, store.SaveDocument(ctx, "uno", doc, true))

	loaded, enriched, err = store.LoadDocument(ctx, "uno")
	require.NoError(t, err)
	assert.True(t, enriched)
	require.Len(t, loaded.Nodes[0].Dialogue, 1)
}

func TestLoadDocument_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.LoadDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
