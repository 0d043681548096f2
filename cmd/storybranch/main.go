package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"storybranch/internal/config"
	"storybranch/internal/enricher"
	"storybranch/internal/export"
	"storybranch/internal/generator"
	"storybranch/internal/ingest"
	"storybranch/internal/llm"
	"storybranch/internal/report"
	"storybranch/internal/storage"
	"storybranch/internal/story"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "storybranch",
		Short: "Branching narrative generator for medical conditions",
	}

	flagTopic    string
	flagURLs     []string
	flagProvider string
	flagModel    string
	flagNodes    int
	flagLanguage string
	flagEnrich   bool
	flagCombined bool
	flagOut      string
	flagFile     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	generateCmd.Flags().StringVarP(&flagTopic, "topic", "t", "", "Disease or condition the narratives are about (required)")
	generateCmd.Flags().StringArrayVarP(&flagURLs, "url", "u", nil, "Web page to use as a source (repeatable)")
	generateCmd.Flags().StringVar(&flagProvider, "provider", "", "Model provider (openai or gemini)")
	generateCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model identifier")
	generateCmd.Flags().IntVarP(&flagNodes, "nodes", "n", 0, "Number of decision nodes per narrative (1-10)")
	generateCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "Target language of the narratives")
	generateCmd.Flags().BoolVar(&flagEnrich, "enrich", true, "Add dialogue to up to 3 nodes per narrative")
	generateCmd.Flags().BoolVar(&flagCombined, "combined", true, "Write one combined Excel workbook for the whole batch")
	generateCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output directory root")
	generateCmd.MarkFlagRequired("topic")

	runsCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output directory root")

	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output directory root")
	exportCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Destination xlsx file (default <name>_story_branch.xlsx)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadSettings merges the config file with command-line overrides.
func loadSettings(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if flagProvider != "" {
		cfg.AI.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.AI.Model = flagModel
	}
	if flagNodes != 0 {
		cfg.Generation.NodeCount = flagNodes
	}
	if flagLanguage != "" {
		cfg.Generation.Language = flagLanguage
	}
	if flagOut != "" {
		cfg.Output.Root = flagOut
	}
	// Boolean flags default to true, so only an explicitly passed flag
	// may override the config file.
	if cmd.Flags().Changed("enrich") {
		cfg.Generation.Enrich = flagEnrich
	}
	if cmd.Flags().Changed("combined") {
		cfg.Generation.CombinedExcel = flagCombined
	}

	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("AI API key not configured (set STORYBRANCH_API_KEY or OPENAI_API_KEY)")
	}
	if cfg.AI.Provider == "openai" && !slices.Contains(config.SupportedOpenAIModels, cfg.AI.Model) {
		return nil, fmt.Errorf("unsupported openai model %q (supported: %v)", cfg.AI.Model, config.SupportedOpenAIModels)
	}
	return cfg, nil
}

var generateCmd = &cobra.Command{
	Use:   "generate [pdf files...]",
	Short: "Generate story branches from PDF files and URLs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		reporter := report.Console{}

		if len(args) == 0 && len(flagURLs) == 0 {
			log.Fatal("At least one PDF file or --url is required")
		}

		cfg, err := loadSettings(cmd, "config.yaml")
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		dirs, err := ingest.SetupDirectories(cfg.Output.Root)
		if err != nil {
			log.Fatalf("Failed to set up output directories: %v", err)
		}

		store, err := storage.NewSQLiteStore(dirs.Database)
		if err != nil {
			log.Fatalf("Failed to open run history: %v", err)
		}
		defer store.Close()

		client, err := llm.NewClient(ctx, llm.ClientOptions{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create model client: %v", err)
		}

		// 1. Extract text from every source. A source that yields no
		// text is kept as an empty input so its failure shows up in
		// the batch outcomes.
		var inputs []generator.Input
		for _, pdfPath := range args {
			text, err := ingest.FromPDF(pdfPath)
			if err != nil {
				reporter.Errorf("Impossible to extract text from %s: %v", pdfPath, err)
			}
			name := filepath.Base(pdfPath)
			saveRawText(reporter, dirs.RawText, name, text)
			inputs = append(inputs, generator.Input{Name: name, Text: text})
		}
		for _, url := range flagURLs {
			text, err := ingest.FromURL(ctx, url)
			if err != nil {
				reporter.Errorf("Impossible to extract text from %s: %v", url, err)
			}
			name := ingest.NameFromURL(url)
			saveRawText(reporter, dirs.RawText, name, text)
			inputs = append(inputs, generator.Input{Name: name, Text: text})
		}

		// 2. Run the batch. Each successful document is enriched and
		// exported before the next source starts.
		pipeline := generator.NewPipeline(client, dirs.Summary, reporter)
		enrich := enricher.NewEnricher(client, reporter)
		converter := export.NewConverter(dirs.Excel)

		var combined []export.Item
		outcomes := pipeline.RunBatch(ctx, inputs, flagTopic, cfg.Generation.Language, cfg.Generation.NodeCount, func(ctx context.Context, out *generator.Outcome) {
			jsonPath := filepath.Join(dirs.JSON, out.Name+"_story_branch.json")
			if err := story.Save(jsonPath, out.Doc); err != nil {
				reporter.Errorf("Failed to save %s: %v", jsonPath, err)
			} else {
				reporter.Statusf("💾 Story branch saved in: %s", jsonPath)
			}

			if cfg.Generation.Enrich {
				enhancedPath := filepath.Join(dirs.JSON, out.Name+"_enhanced_story_branch.json")
				if _, err := enrich.Enrich(ctx, out.Doc, enhancedPath); err != nil {
					reporter.Errorf("Enrichment failed for %s: %v", out.Name, err)
				} else {
					reporter.Statusf("💾 Enhanced story branch saved in: %s", enhancedPath)
				}
			}

			if err := store.SaveDocument(ctx, out.Name, out.Doc, cfg.Generation.Enrich); err != nil {
				reporter.Warnf("Failed to store document %s: %v", out.Name, err)
			}

			if !cfg.Generation.CombinedExcel {
				if path, err := converter.DocumentToExcel(out.Doc, out.Name); err != nil {
					reporter.Errorf("Excel export failed for %s: %v", out.Name, err)
				} else {
					reporter.Statusf("📊 Excel story branch saved in: %s", path)
				}
			}
			combined = append(combined, export.Item{Doc: out.Doc, Name: out.Name})
		})

		// 3. Record the batch in the run history.
		for _, out := range outcomes {
			run := storage.Run{
				Source:    out.Source,
				Name:      out.Name,
				Topic:     flagTopic,
				Model:     cfg.AI.Model,
				Language:  cfg.Generation.Language,
				NodeCount: cfg.Generation.NodeCount,
				Status:    storage.RunStatusOK,
			}
			if out.Err != nil {
				run.Status = storage.RunStatusFailed
				run.Error = out.Err.Error()
			}
			if err := store.RecordRun(ctx, run); err != nil {
				reporter.Warnf("Failed to record run for %s: %v", out.Source, err)
			}
		}

		// 4. Combined export across the whole batch.
		if cfg.Generation.CombinedExcel && len(combined) > 0 {
			buf, err := converter.CombineToBuffer(combined)
			if err != nil {
				reporter.Errorf("Combined Excel export failed: %v", err)
			} else if path, err := converter.SaveCombined(buf); err != nil {
				reporter.Errorf("Failed to save combined Excel file: %v", err)
			} else {
				reporter.Statusf("📊 Combined Excel file saved in: %s", path)
			}
		}

		ok := 0
		for _, out := range outcomes {
			if out.Err == nil {
				ok++
			}
		}
		fmt.Printf("🎉 Processing completed: %d of %d sources succeeded.\n", ok, len(outcomes))
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig("config.yaml")
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		dbPath := filepath.Join(cfg.Output.Root, "storybranch.db")
		if flagOut != "" {
			dbPath = filepath.Join(flagOut, "storybranch.db")
		}

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to open run history: %v", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(ctx, 50)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}
		for _, r := range runs {
			status := "✅"
			if r.Status == storage.RunStatusFailed {
				status = "❌"
			}
			fmt.Printf("%s [%s] %s (topic=%s model=%s nodes=%d)", status, r.CreatedAt.Format("2006-01-02 15:04"), r.Source, r.Topic, r.Model, r.NodeCount)
			if r.Error != "" {
				fmt.Printf(" error=%s", r.Error)
			}
			fmt.Println()
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Re-export a stored story branch as an Excel workbook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig("config.yaml")
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		root := cfg.Output.Root
		if flagOut != "" {
			root = flagOut
		}

		name := args[0]
		filePath := flagFile
		if filePath == "" {
			filePath = name + "_story_branch.xlsx"
		}

		if err := exportStored(ctx, filepath.Join(root, "storybranch.db"), name, filePath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("📊 Excel story branch saved in: %s\n", filePath)
	},
}

// exportStored loads a previously generated document from the run
// history and writes it as a single workbook to filePath.
func exportStored(ctx context.Context, dbPath, name, filePath string) error {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, _, err := store.LoadDocument(ctx, name)
	if err != nil {
		return err
	}

	converter := export.NewConverter(filepath.Dir(filePath))
	buf, err := converter.DownloadBuffer(doc, name)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, buf.Bytes(), 0644)
}

func saveRawText(reporter report.Console, dir, sourceName, text string) {
	if text == "" {
		return
	}
	path := filepath.Join(dir, ingest.DeriveName(sourceName)+".txt")
	if err := ingest.SaveText(path, text); err != nil {
		reporter.Warnf("Failed to save raw text for %s: %v", sourceName, err)
	}
}
