package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Jira connection
	JiraBaseURL string
	JiraEmail   string
	JiraToken   string

	// Azure OpenAI analysis
	AzureOpenAIKey        string
	AzureOpenAIEndpoint   string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	// Model tuning
	ModelTemperature float64
	LLMRetries       int
	LLMTimeout       time.Duration

	// Document limits
	MaxContentChars int

	// Report serving
	Port   string
	APIKey string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		JiraBaseURL: envOr("JIRA_DOMAIN", "https://softwareone.atlassian.net"),
		JiraEmail:   os.Getenv("JIRA_EMAIL"),
		JiraToken:   os.Getenv("JIRA_TOKEN"),

		AzureOpenAIKey:        os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureOpenAIEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
		AzureOpenAIAPIVersion: envOr("AZURE_OPENAI_API_VERSION", "2024-02-01"),

		ModelTemperature: envFloat("MODEL_TEMPERATURE", 0.7),
		LLMRetries:       envInt("LLM_RETRY_TIMES", 3),
		LLMTimeout:       envDuration("LLM_TIMEOUT", 60*time.Second),

		MaxContentChars: envInt("MAX_CONTENT_CHARS", 100000),

		Port:   envOr("PORT", "8090"),
		APIKey: os.Getenv("BUGREPORT_API_KEY"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.ModelTemperature < 0 {
		cfg.ModelTemperature = 0.7
	}
	if cfg.LLMRetries <= 0 {
		cfg.LLMRetries = 3
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = 100000
	}

	return cfg
}

// ValidateJira checks the settings the fetch command needs.
func (c Config) ValidateJira() error {
	if c.JiraEmail == "" {
		return fmt.Errorf("JIRA_EMAIL is required")
	}
	if c.JiraToken == "" {
		return fmt.Errorf("JIRA_TOKEN is required")
	}
	if c.JiraBaseURL == "" {
		return fmt.Errorf("JIRA_DOMAIN is required")
	}
	return nil
}

// ValidateLLM checks the settings the analyze command needs.
func (c Config) ValidateLLM() error {
	if c.AzureOpenAIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_API_KEY is required")
	}
	if c.AzureOpenAIEndpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.AzureOpenAIDeployment == "" {
		return fmt.Errorf("AZURE_OPENAI_DEPLOYMENT_NAME is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
