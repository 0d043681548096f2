package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"storybranch/internal/ingest"
	"storybranch/internal/llm"
	"storybranch/internal/report"
	"storybranch/internal/story"
)

// Pipeline sequences the two generation stages for one source
// document: format the raw text, persist the cleaned text for audit,
// generate the narrative, attach the topic.
type Pipeline struct {
	formatter  *Formatter
	generator  *StoryGenerator
	summaryDir string
	reporter   report.Reporter
}

func NewPipeline(client llm.Client, summaryDir string, reporter report.Reporter) *Pipeline {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Pipeline{
		formatter:  NewFormatter(client),
		generator:  NewStoryGenerator(client),
		summaryDir: summaryDir,
		reporter:   reporter,
	}
}

// BuildFromText runs both stages and returns the document together
// with the derived artifact name (source name without extension).
// A failure in either stage fails this document only; callers keep
// processing the rest of a batch.
func (p *Pipeline) BuildFromText(ctx context.Context, rawText, sourceName, topic, language string, nodeCount int) (*story.Document, string, error) {
	derivedName := ingest.DeriveName(sourceName)

	p.reporter.Statusf("🧹 Formatting text for %s...", derivedName)
	cleaned, err := p.formatter.Format(ctx, rawText, topic, language)
	if err != nil {
		p.reporter.Errorf("Formatting failed for %s: %v", sourceName, err)
		return nil, "", err
	}

	if p.summaryDir != "" {
		summaryPath := filepath.Join(p.summaryDir, derivedName+"_summary.txt")
		if err := ingest.SaveText(summaryPath, cleaned); err != nil {
			// The summary is an audit artifact; its absence never
			// blocks generation.
			p.reporter.Warnf("Failed to save cleaned text for %s: %v", derivedName, err)
		}
	}

	p.reporter.Statusf("📖 Generating story branch for %s...", derivedName)
	doc, err := p.generator.Generate(ctx, cleaned, topic, language, nodeCount)
	if err != nil {
		p.reporter.Errorf("Generation failed for %s: %v", sourceName, err)
		return nil, "", err
	}

	doc.Topic = topic
	return doc, derivedName, nil
}

// Input is one extracted source document entering a batch.
type Input struct {
	// Name is the original source name (file name or URL-derived).
	Name string
	// Text is the extracted raw text.
	Text string
}

// Outcome is the per-input result of a batch run. Exactly one of Doc
// and Err is meaningful.
type Outcome struct {
	Source string
	Name   string
	Doc    *story.Document
	Err    error
}

// RunBatch folds the inputs into one Outcome per input, strictly in
// order. onDocument, when non-nil, runs for each successful document
// before the next input starts, so one source is fully pipelined
// (through enrichment and export) before the next begins. One input's
// failure never aborts the rest.
func (p *Pipeline) RunBatch(ctx context.Context, inputs []Input, topic, language string, nodeCount int, onDocument func(context.Context, *Outcome)) []Outcome {
	outcomes := make([]Outcome, 0, len(inputs))
	for i, in := range inputs {
		p.reporter.Statusf("📄 Processing source %d of %d: %s", i+1, len(inputs), in.Name)

		out := Outcome{Source: in.Name}
		if in.Text == "" {
			out.Err = fmt.Errorf("no text extracted from %s", in.Name)
			p.reporter.Errorf("Skipping %s: no extracted text", in.Name)
			outcomes = append(outcomes, out)
			continue
		}

		doc, name, err := p.BuildFromText(ctx, in.Text, in.Name, topic, language, nodeCount)
		if err != nil {
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}

		out.Name = name
		out.Doc = doc
		if onDocument != nil {
			onDocument(ctx, &out)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}
