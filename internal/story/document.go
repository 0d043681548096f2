package story

import (
	"fmt"
	"strings"
)

// Document is a full branching narrative generated for one source
// document and one medical condition.
type Document struct {
	Topic string `json:"topic"`
	Nodes []Node `json:"nodes"`
}

// Node is a single decision scenario. The setting, speakers and
// dialogue are optional: they may be absent in generator output and
// are only ever filled in by the dialogue enricher.
type Node struct {
	Situation  string         `json:"situation"`
	Reasoning  string         `json:"reasoning"`
	Setting    string         `json:"setting,omitempty"`
	SpeakerOne *Speaker       `json:"speaker_one,omitempty"`
	SpeakerTwo *Speaker       `json:"speaker_two,omitempty"`
	Dialogue   []DialogueTurn `json:"dialogue,omitempty"`
	Choices    []Choice       `json:"choices"`
}

// Choice is one of the two options attached to a node. Score carries
// the medical-correctness polarity: +1 for the preferable option,
// -1 for the other.
type Choice struct {
	Text    string `json:"text"`
	Outcome string `json:"outcome"`
	Impact  string `json:"impact"`
	Score   int    `json:"score"`
}

// Speaker is a character taking part in a node's dialogue.
// SpeakerOne is always the patient; SpeakerTwo carries a role from
// the closed role vocabulary.
type Speaker struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// DialogueTurn is one utterance in an enriched dialogue.
// Speaker 1 is the patient, speaker 2 the other character.
type DialogueTurn struct {
	Speaker int    `json:"speaker"`
	Text    string `json:"text"`
}

const (
	SpeakerPatient = 1
	SpeakerOther   = 2
)

// Validate checks a finished document: a set topic plus a valid node
// shape. Used before persisting.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	if strings.TrimSpace(d.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	return d.ValidateShape(len(d.Nodes))
}

// ValidateShape checks the structural contract of generator output:
// the requested node count, non-empty situations, exactly two choices
// per node, and a +1/-1 score on every choice. A zero score is model
// output that never got scored and fails validation.
func (d *Document) ValidateShape(expectedNodes int) error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	if len(d.Nodes) == 0 {
		return fmt.Errorf("nodes must not be empty")
	}
	if expectedNodes > 0 && len(d.Nodes) != expectedNodes {
		return fmt.Errorf("expected %d nodes, got %d", expectedNodes, len(d.Nodes))
	}
	for i, n := range d.Nodes {
		if strings.TrimSpace(n.Situation) == "" {
			return fmt.Errorf("node %d: situation is required", i+1)
		}
		if len(n.Choices) != 2 {
			return fmt.Errorf("node %d: expected exactly 2 choices, got %d", i+1, len(n.Choices))
		}
		for j, c := range n.Choices {
			if strings.TrimSpace(c.Text) == "" {
				return fmt.Errorf("node %d choice %d: text is required", i+1, j+1)
			}
			if c.Score != 1 && c.Score != -1 {
				return fmt.Errorf("node %d choice %d: score must be +1 or -1, got %d", i+1, j+1, c.Score)
			}
		}
		for j, t := range n.Dialogue {
			if t.Speaker != SpeakerPatient && t.Speaker != SpeakerOther {
				return fmt.Errorf("node %d dialogue turn %d: speaker must be 1 or 2, got %d", i+1, j+1, t.Speaker)
			}
		}
	}
	return nil
}
