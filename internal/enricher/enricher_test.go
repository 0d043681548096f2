package enricher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storybranch/internal/llm"
	"storybranch/internal/story"
)

type mockClient struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (m *mockClient) Complete(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock client exhausted")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

const wellFormedDialogue = `[
  {"speaker": 2, "text": "Ehi, tutto bene stamattina?"},
  {"speaker": 1, "text": "Sì, ma devo decidere se uscire subito o aspettare."},
  {"speaker": 2, "text": "Cosa ti preoccupa di più?"},
  {"speaker": 1, "text": "Non vorrei affaticarmi troppo presto."}
]`

func dialogueNode(role string) story.Node {
	return story.Node{
		Situation: "X",
		Reasoning: "R",
		Setting:   "cucina",
		SpeakerTwo: &story.Speaker{
			Role: role,
		},
		Choices: []story.Choice{
			{Text: "a", Outcome: "o", Impact: "i", Score: 1},
			{Text: "b", Outcome: "o", Impact: "i", Score: -1},
		},
	}
}

func plainNode() story.Node {
	n := dialogueNode("familiare")
	n.SpeakerTwo = nil
	return n
}

func testDocument(nodes ...story.Node) *story.Document {
	return &story.Document{Topic: "diabete", Nodes: nodes}
}

func TestEnrich_AddsDialogue(t *testing.T) {
	client := &mockClient{responses: []string{wellFormedDialogue}}
	e := NewEnricher(client, nil)

	doc := testDocument(dialogueNode("amico"))
	out, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)
	require.Same(t, doc, out)

	require.Len(t, doc.Nodes[0].Dialogue, 4)
	assert.Equal(t, 2, doc.Nodes[0].Dialogue[0].Speaker)
	assert.Equal(t, 1, doc.Nodes[0].Dialogue[1].Speaker)
	assert.Equal(t, "amico", doc.Nodes[0].SpeakerTwo.Role)
}

func TestEnrich_CapsAtThreeNodes(t *testing.T) {
	client := &mockClient{responses: []string{wellFormedDialogue, wellFormedDialogue, wellFormedDialogue}}
	e := NewEnricher(client, nil)

	doc := testDocument(
		dialogueNode("amico"),
		dialogueNode("collega"),
		dialogueNode("familiare"),
		dialogueNode("paziente"),
		dialogueNode("conoscente"),
	)
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)

	assert.Equal(t, 3, client.calls)
	assert.Len(t, doc.Nodes[0].Dialogue, 4)
	assert.Len(t, doc.Nodes[1].Dialogue, 4)
	assert.Len(t, doc.Nodes[2].Dialogue, 4)
	assert.Nil(t, doc.Nodes[3].Dialogue)
	assert.Nil(t, doc.Nodes[4].Dialogue)
}

func TestEnrich_SkipsNodesWithoutSpeakerTwo(t *testing.T) {
	client := &mockClient{responses: []string{wellFormedDialogue}}
	e := NewEnricher(client, nil)

	first := plainNode()
	doc := testDocument(first, dialogueNode("amico"), plainNode())
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, first, doc.Nodes[0])
	assert.Len(t, doc.Nodes[1].Dialogue, 4)
	assert.Nil(t, doc.Nodes[2].Dialogue)
}

func TestEnrich_NormalizesInvalidSetting(t *testing.T) {
	client := &mockClient{responses: []string{wellFormedDialogue}}
	e := NewEnricher(client, nil)

	node := dialogueNode("amico")
	node.Setting = "invalid_value"
	doc := testDocument(node)
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)
	assert.Equal(t, "sala", doc.Nodes[0].Setting)
}

func TestEnrich_NormalizesInvalidRole(t *testing.T) {
	client := &mockClient{responses: []string{wellFormedDialogue}}
	e := NewEnricher(client, nil)

	doc := testDocument(dialogueNode("dottore"))
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)

	assert.Equal(t, "familiare", doc.Nodes[0].SpeakerTwo.Role)
	require.Len(t, doc.Nodes[0].Dialogue, 4)

	// The resolved role reaches the prompt, not the invalid one.
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "**Personaggio 2:** familiare")
}

func TestEnrich_MalformedOutputLeavesDialogueUnchanged(t *testing.T) {
	client := &mockClient{responses: []string{"here is a nice dialogue for you", wellFormedDialogue}}
	e := NewEnricher(client, nil)

	doc := testDocument(dialogueNode("amico"), dialogueNode("collega"))
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)

	// First node keeps its (absent) dialogue, second still enriched.
	assert.Nil(t, doc.Nodes[0].Dialogue)
	assert.Len(t, doc.Nodes[1].Dialogue, 4)
}

func TestEnrich_WrongSpeakerValueIsAParseFailure(t *testing.T) {
	client := &mockClient{responses: []string{`[{"speaker": 3, "text": "ciao"}]`}}
	e := NewEnricher(client, nil)

	doc := testDocument(dialogueNode("amico"))
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)
	assert.Nil(t, doc.Nodes[0].Dialogue)
}

func TestEnrich_TransportFailureAborts(t *testing.T) {
	client := &mockClient{err: fmt.Errorf("connection reset")}
	e := NewEnricher(client, nil)

	doc := testDocument(dialogueNode("amico"), dialogueNode("collega"))
	_, err := e.Enrich(context.Background(), doc, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestEnrich_PersistsDocument(t *testing.T) {
	client := &mockClient{responses: []string{wellFormedDialogue}}
	e := NewEnricher(client, nil)

	path := filepath.Join(t.TempDir(), "out", "doc_enhanced_story_branch.json")
	doc := testDocument(dialogueNode("amico"), plainNode())
	_, err := e.Enrich(context.Background(), doc, path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := story.Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 2)
	assert.Len(t, loaded.Nodes[0].Dialogue, 4)
	assert.Nil(t, loaded.Nodes[1].Dialogue)
}

func TestEnrich_ReselectionOverwritesDialogue(t *testing.T) {
	// A second pass re-selects the same node and replaces its
	// dialogue wholesale.
	second := `[
	  {"speaker": 1, "text": "Nuova conversazione."},
	  {"speaker": 2, "text": "Ripartiamo da capo?"}
	]`
	client := &mockClient{responses: []string{wellFormedDialogue, second}}
	e := NewEnricher(client, nil)

	doc := testDocument(dialogueNode("amico"))
	_, err := e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)
	require.Len(t, doc.Nodes[0].Dialogue, 4)

	_, err = e.Enrich(context.Background(), doc, "")
	require.NoError(t, err)
	require.Len(t, doc.Nodes[0].Dialogue, 2)
	assert.Equal(t, "Nuova conversazione.", doc.Nodes[0].Dialogue[0].Text)
}
