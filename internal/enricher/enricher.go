package enricher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"storybranch/internal/llm"
	"storybranch/internal/report"
	"storybranch/internal/story"
)

const (
	// maxDialogueNodes bounds how many nodes one enrichment pass may
	// touch; candidates beyond the cap are left entirely unchanged.
	maxDialogueNodes = 3

	dialogueTemperature = 0.7
)

// Enricher adds simulated dialogue to a bounded subset of a
// document's nodes.
type Enricher struct {
	client        llm.Client
	promptBuilder *PromptBuilder
	reporter      report.Reporter
}

func NewEnricher(client llm.Client, reporter report.Reporter) *Enricher {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Enricher{
		client:        client,
		promptBuilder: &PromptBuilder{},
		reporter:      reporter,
	}
}

// selectCandidates returns the indexes of the first nodes, in
// document order, that have a speaker_two, capped at
// maxDialogueNodes. Selection looks only at speaker_two, so a
// repeated pass re-selects the same nodes and overwrites their
// dialogue.
func selectCandidates(doc *story.Document) []int {
	var candidates []int
	for i := range doc.Nodes {
		if doc.Nodes[i].SpeakerTwo == nil {
			continue
		}
		candidates = append(candidates, i)
		if len(candidates) == maxDialogueNodes {
			break
		}
	}
	return candidates
}

// Enrich mutates doc in place, one model call per selected node, then
// persists the full document to outputPath (empty path skips the
// write). A node whose dialogue output does not parse keeps its
// previous dialogue and processing continues; a model transport
// failure aborts the remaining nodes and is returned to the caller.
func (e *Enricher) Enrich(ctx context.Context, doc *story.Document, outputPath string) (*story.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	candidates := selectCandidates(doc)
	e.reporter.Statusf("💬 Enriching %d of %d nodes with dialogue...", len(candidates), len(doc.Nodes))

	for i, idx := range candidates {
		node := &doc.Nodes[idx]
		e.reporter.Statusf("💬 Enriching node %d (%d/%d)...", idx+1, i+1, len(candidates))

		if setting, substituted := story.NormalizeSetting(node.Setting); substituted {
			e.reporter.Warnf("Node %d: invalid setting %q, using default %q", idx+1, node.Setting, setting)
			node.Setting = setting
		}
		role := story.DefaultRole
		if node.SpeakerTwo != nil {
			if normalized, substituted := story.NormalizeRole(node.SpeakerTwo.Role); substituted {
				e.reporter.Warnf("Node %d: invalid speaker role %q, using default %q", idx+1, node.SpeakerTwo.Role, normalized)
				node.SpeakerTwo.Role = normalized
			}
			role = node.SpeakerTwo.Role
		}

		prompt := e.promptBuilder.BuildDialoguePrompt(doc.Topic, node, role)
		raw, err := e.client.Complete(ctx, prompt, llm.Options{Temperature: dialogueTemperature})
		if err != nil {
			// Transport faults are not swallowed: they abort the
			// remaining enrichment for this document.
			return nil, fmt.Errorf("dialogue generation failed for node %d: %w", idx+1, err)
		}

		turns, err := parseTurns(raw)
		if err != nil {
			e.reporter.Errorf("Node %d: failed to parse dialogue: %v", idx+1, err)
			e.reporter.Errorf("Node %d: raw output: %s", idx+1, raw)
			continue
		}
		node.Dialogue = turns
	}

	if outputPath != "" {
		if err := story.Save(outputPath, doc); err != nil {
			// The artifact is simply absent; the enriched document is
			// still returned.
			e.reporter.Errorf("Failed to save enriched document: %v", err)
		}
	}
	return doc, nil
}

// parseTurns strictly decodes model output as an ordered list of
// dialogue turns.
func parseTurns(raw string) ([]story.DialogueTurn, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var turns []story.DialogueTurn
	if err := dec.Decode(&turns); err != nil {
		return nil, fmt.Errorf("failed to decode dialogue turns: %w", err)
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("dialogue contained no turns")
	}
	for i, t := range turns {
		if t.Speaker != story.SpeakerPatient && t.Speaker != story.SpeakerOther {
			return nil, fmt.Errorf("turn %d: speaker must be 1 or 2, got %d", i+1, t.Speaker)
		}
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("turn %d: text is empty", i+1)
		}
	}
	return turns, nil
}
