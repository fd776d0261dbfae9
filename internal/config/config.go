package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	LLM       LLMConfig
	JobMarket JobMarketConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type JobMarketConfig struct {
	AppID   string
	AppKey  string
	BaseURL string
	Country string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			DataDir: "data",
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		JobMarket: JobMarketConfig{
			BaseURL: "https://api.adzuna.com/v1/api/jobs",
			Country: "us",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the environment, with defaults for anything
// unset. A .env file in the working directory is loaded first if present.
// Upstream credentials keep their conventional names (OPENAI_API_KEY,
// ADZUNA_APP_ID, ADZUNA_APP_KEY); service settings use the LEARNPATH_
// prefix. Load fails when the LLM API key is absent; the job market
// credentials are optional because that path degrades to empty results.
func Load() (Config, error) {
	godotenv.Load()

	cfg := defaults()
	applyEnvOverrides(&cfg)

	if cfg.LLM.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: LLM API key. Set it via environment variable OPENAI_API_KEY")
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	envString(&cfg.Server.Host, "LEARNPATH_HOST")
	envInt(&cfg.Server.Port, "LEARNPATH_PORT")
	envString(&cfg.Storage.DataDir, "LEARNPATH_DATA_DIR")
	envString(&cfg.Log.Level, "LEARNPATH_LOG_LEVEL")

	envString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	envString(&cfg.LLM.BaseURL, "LEARNPATH_LLM_BASE_URL")
	envString(&cfg.LLM.Model, "LEARNPATH_LLM_MODEL")

	envString(&cfg.JobMarket.AppID, "ADZUNA_APP_ID")
	envString(&cfg.JobMarket.AppKey, "ADZUNA_APP_KEY")
	envString(&cfg.JobMarket.BaseURL, "LEARNPATH_JOBMARKET_BASE_URL")
	envString(&cfg.JobMarket.Country, "LEARNPATH_JOBMARKET_COUNTRY")
}

func envString(target *string, name string) {
	if v := os.Getenv(name); v != "" {
		*target = v
	}
}

func envInt(target *int, name string) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	if i, err := strconv.Atoi(raw); err == nil {
		*target = i
	} else {
		fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", name, raw, err)
	}
}
