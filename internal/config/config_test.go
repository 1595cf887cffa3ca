package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		OpenAI: OpenAIConfig{APIKey: "test-key"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingOpenAIKey(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing openai api key")
	}
}

func TestValidate_InvalidSearchDepth(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Depth = "deep"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid search depth")
	}
	expected := `search.depth must be "basic" or "advanced", got "deep"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_CallTimeoutAboveDeadline(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.CallTimeoutSec = 60
	cfg.Pipeline.DeadlineSec = 45

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for call timeout above pipeline deadline")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Search.Depth != "advanced" {
		t.Errorf("expected depth=advanced, got %q", cfg.Search.Depth)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("expected max_results=5, got %d", cfg.Search.MaxResults)
	}
	if cfg.Images.ResolveConcurrency != 5 {
		t.Errorf("expected resolve_concurrency=5, got %d", cfg.Images.ResolveConcurrency)
	}
	if cfg.Pipeline.MaxActivities != 10 {
		t.Errorf("expected max_activities=10, got %d", cfg.Pipeline.MaxActivities)
	}
	if cfg.Pipeline.CallTimeoutSec != 12 || cfg.Pipeline.DeadlineSec != 45 {
		t.Errorf("unexpected pipeline timeouts: %+v", cfg.Pipeline)
	}
	if cfg.Images.DefaultImage == "" {
		t.Error("expected a default image")
	}
}

func TestExpandEnvVars(t *testing.T) {
	raw := []byte(`
openai:
  api_key: ${TEST_OPENAI_KEY}
search:
  api_key: ${TEST_TAVILY_KEY:-fallback-key}
`)
	t.Setenv("TEST_OPENAI_KEY", "sk-env")

	expanded := string(expandEnvVars(raw))
	if want := "api_key: sk-env"; !strings.Contains(expanded, want) {
		t.Errorf("expected %q in expanded config:\n%s", want, expanded)
	}
	if want := "api_key: fallback-key"; !strings.Contains(expanded, want) {
		t.Errorf("expected default substitution %q in expanded config:\n%s", want, expanded)
	}
}
