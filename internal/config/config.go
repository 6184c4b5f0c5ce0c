// Package config holds operator-level configuration for an AegisAI
// deployment: the listen port, LLM provider wiring, the optional external
// NER service, pattern overrides, and request rate limits.
//
// Values merge from env vars (AEGIS_*), aegis.config.yaml, and baked-in
// defaults. The only secret here is the upstream LLM API key; everything
// processed by the engine itself stays in memory for a single request and
// is never configured, persisted, or logged.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the AEGIS_ prefix
// (e.g. "llm_provider" → AEGIS_LLM_PROVIDER) and to a YAML field
// in aegis.config.yaml.
const (
	KeyPort          = "port"
	KeyLLMProvider   = "llm_provider"
	KeyLLMModel      = "llm_model"
	KeyOpenAIAPIKey  = "openai_api_key"
	KeyOpenAIBaseURL = "openai_base_url"
	KeyOllamaBaseURL = "ollama_base_url"
	KeyNERURL        = "ner_url"
	KeyPatternFile   = "pattern_file"
	KeyCORSOrigins   = "cors_origins"
	KeyRateLimitRPM  = "rate_limit_rpm"
)

const (
	DefaultPort         = 5000
	DefaultLLMProvider  = "none"
	DefaultLLMModel     = "gpt-4o-mini"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultRateLimitRPM = 120
)

// Config holds resolved configuration for an aegis process.
type Config struct {
	Port          int      // HTTP listen port
	LLMProvider   string   // "openai", "ollama", or "none"
	LLMModel      string   // Model name passed to the provider
	OpenAIAPIKey  string   // Upstream API key; never logged
	OpenAIBaseURL string   // Override for OpenAI-compatible gateways
	OllamaBaseURL string   // Ollama API endpoint
	NERURL        string   // External NER annotator base URL; empty disables NER
	PatternFile   string   // Extra recognizer YAML merged over the built-ins
	CORSOrigins   []string // Allowed CORS origins; empty allows none
	RateLimitRPM  int      // Per-client requests per minute; 0 disables limiting
}

func init() {
	viper.SetEnvPrefix("AEGIS")
	viper.AutomaticEnv()
	viper.SetDefault(KeyPort, DefaultPort)
	viper.SetDefault(KeyLLMProvider, DefaultLLMProvider)
	viper.SetDefault(KeyLLMModel, DefaultLLMModel)
	viper.SetDefault(KeyOllamaBaseURL, DefaultOllamaURL)
	viper.SetDefault(KeyRateLimitRPM, DefaultRateLimitRPM)
}

// Load reads configuration from Viper (which merges env vars, config file,
// and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          viper.GetInt(KeyPort),
		LLMProvider:   strings.ToLower(viper.GetString(KeyLLMProvider)),
		LLMModel:      viper.GetString(KeyLLMModel),
		OpenAIAPIKey:  viper.GetString(KeyOpenAIAPIKey),
		OpenAIBaseURL: viper.GetString(KeyOpenAIBaseURL),
		OllamaBaseURL: viper.GetString(KeyOllamaBaseURL),
		NERURL:        viper.GetString(KeyNERURL),
		PatternFile:   viper.GetString(KeyPatternFile),
		CORSOrigins:   splitList(viper.GetString(KeyCORSOrigins)),
		RateLimitRPM:  viper.GetInt(KeyRateLimitRPM),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile merges aegis.config.yaml from dir (or the working directory when
// dir is empty) before resolving. A missing file is not an error.
func LoadFile(dir string) (*Config, error) {
	viper.SetConfigName("aegis.config")
	viper.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	viper.AddConfigPath(dir)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Load()
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535 (got %d)", c.Port)
	}
	switch c.LLMProvider {
	case "", "none", "openai", "ollama":
	default:
		return fmt.Errorf("llm_provider must be one of none, openai, ollama (got %q)", c.LLMProvider)
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must not be negative (got %d)", c.RateLimitRPM)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
