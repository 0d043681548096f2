package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Output struct {
		Root string `yaml:"root"`
	} `yaml:"output"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"ai"`
	Generation struct {
		Language      string `yaml:"language"`
		NodeCount     int    `yaml:"node_count"`
		Enrich        bool   `yaml:"enrich"`
		CombinedExcel bool   `yaml:"combined_excel"`
	} `yaml:"generation"`
}

// Models the OpenAI provider accepts.
var SupportedOpenAIModels = []string{"gpt-4.1", "gpt-4o", "gpt-4o-mini"}

func Default() *Config {
	cfg := &Config{}
	cfg.Output.Root = "."
	cfg.AI.Provider = "openai"
	cfg.AI.Model = "gpt-4.1"
	cfg.Generation.Language = "italiano"
	cfg.Generation.NodeCount = 10
	cfg.Generation.Enrich = true
	cfg.Generation.CombinedExcel = true
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config when present
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if provider := os.Getenv("STORYBRANCH_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if apiKey := os.Getenv("STORYBRANCH_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	// Fall back to the provider's conventional variable so an existing
	// .env keeps working.
	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case "gemini":
			cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
		default:
			cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	return cfg, nil
}
