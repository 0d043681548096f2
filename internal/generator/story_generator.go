package generator

import (
	"context"
	"fmt"

	"storybranch/internal/llm"
	"storybranch/internal/story"
)

const (
	// storyTemperature keeps node generation close to the source text.
	storyTemperature = 0.3

	MinNodeCount = 1
	MaxNodeCount = 10
)

// StoryGenerator is stage two of the pipeline: it turns cleaned text
// into a schema-conformant branching narrative.
type StoryGenerator struct {
	client        llm.Client
	promptBuilder *PromptBuilder
}

func NewStoryGenerator(client llm.Client) *StoryGenerator {
	return &StoryGenerator{
		client:        client,
		promptBuilder: &PromptBuilder{},
	}
}

// Generate produces exactly nodeCount nodes. The topic field of the
// result is left for the caller to set. Any response that cannot be
// coerced into the document shape fails the whole generation.
func (g *StoryGenerator) Generate(ctx context.Context, cleanedText, topic, language string, nodeCount int) (*story.Document, error) {
	if nodeCount < MinNodeCount || nodeCount > MaxNodeCount {
		return nil, fmt.Errorf("node count must be between %d and %d, got %d", MinNodeCount, MaxNodeCount, nodeCount)
	}

	prompt := g.promptBuilder.BuildStoryPrompt(cleanedText, topic, language, nodeCount)
	raw, err := g.client.Complete(ctx, prompt, llm.Options{
		Temperature: storyTemperature,
		JSONOutput:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}

	doc, err := story.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("story generation produced unusable output: %w", err)
	}
	if err := doc.ValidateShape(nodeCount); err != nil {
		return nil, fmt.Errorf("story generation produced unusable output: %w", err)
	}
	return doc, nil
}
