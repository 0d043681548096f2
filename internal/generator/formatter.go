package generator

import (
	"context"
	"fmt"

	"storybranch/internal/llm"
)

// Formatter is stage one of the pipeline: it cleans raw extracted
// text into readable prose without adding or removing facts.
type Formatter struct {
	client        llm.Client
	promptBuilder *PromptBuilder
}

func NewFormatter(client llm.Client) *Formatter {
	return &Formatter{
		client:        client,
		promptBuilder: &PromptBuilder{},
	}
}

// Format returns the cleaned text. Model failures propagate to the
// caller; there is no retry.
func (f *Formatter) Format(ctx context.Context, rawText, topic, language string) (string, error) {
	prompt := f.promptBuilder.BuildFormatterPrompt(rawText, topic, language)
	cleaned, err := f.client.Complete(ctx, prompt, llm.Options{})
	if err != nil {
		return "", fmt.Errorf("text formatting failed: %w", err)
	}
	return cleaned, nil
}
