package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SPEECH_MODE", "script")
	t.Setenv("SPEECH_SCRIPT_PATH", "utterances.txt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != 8000 {
		t.Fatalf("unexpected port: %d", cfg.HTTPPort)
	}
	if cfg.SpeechLanguage != "hi-IN" {
		t.Fatalf("unexpected language: %s", cfg.SpeechLanguage)
	}
	if cfg.AnalysisEndpointURL != "http://localhost:8000/process" {
		t.Fatalf("unexpected endpoint: %s", cfg.AnalysisEndpointURL)
	}
	if cfg.AnalyzerMode != "mock" {
		t.Fatalf("unexpected analyzer mode: %s", cfg.AnalyzerMode)
	}
	if !cfg.TelemetryEnabled {
		t.Fatal("expected telemetry to be enabled by default")
	}
}

func TestLoad_InvalidInteger(t *testing.T) {
	t.Setenv("SPEECH_MODE", "none")
	t.Setenv("HTTP_PORT", "eighty")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("SPEECH_MODE", "cloud")
	t.Setenv("GOOGLE_CLOUD_PROJECT_ID", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for cloud mode without credentials")
	}
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SPEECH_LANGUAGE=en-US\nLUCIDIA_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("SPEECH_LANGUAGE", "hi-IN")
	t.Setenv("LUCIDIA_DOTENV_PROBE", "")
	os.Unsetenv("LUCIDIA_DOTENV_PROBE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := os.Getenv("SPEECH_LANGUAGE"); got != "hi-IN" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("LUCIDIA_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("expected value from file, got %q", got)
	}
}

func TestLoadServer_IgnoresSpeechSettings(t *testing.T) {
	t.Setenv("SPEECH_MODE", "cloud")
	t.Setenv("GOOGLE_CLOUD_PROJECT_ID", "")
	t.Setenv("ANALYZER_MODE", "mock")
	if _, err := LoadServer(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestLoadServer_ValidatesAnalyzer(t *testing.T) {
	t.Setenv("ANALYZER_MODE", "openai")
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := LoadServer(); err == nil {
		t.Fatal("expected error for openai mode without key")
	}
}
