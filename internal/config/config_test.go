package config

import "testing"

func validConfig() *Config {
	return &Config{
		Env:                   "development",
		HTTPPort:              8000,
		AnalysisEndpointURL:   "http://localhost:8000/process",
		SpeechMode:            SpeechModeScript,
		SpeechLanguage:        "hi-IN",
		SpeechMaxAlternatives: 1,
		SpeechScriptPath:      "testdata/utterances.txt",
		AudioFormat:           AudioFormatPCM,
		AnalyzerMode:          AnalyzerModeMock,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPPort = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.AnalysisEndpointURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid analysis endpoint")
	}
}

func TestValidate_CloudSpeechRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.SpeechMode = SpeechModeCloud
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when cloud credentials are missing")
	}

	cfg.GoogleCloudProjectID = "project-id"
	cfg.GoogleCloudCredentialsJSON = `{"type":"service_account"}`
	cfg.GoogleCloudSpeechLocation = "asia-south1"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when the audio source is missing")
	}

	cfg.AudioSourcePath = "/tmp/mic.fifo"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.AudioFormat = "mp3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported audio format")
	}
}

func TestValidate_ScriptModeRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.SpeechScriptPath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when script path is missing")
	}
}

func TestValidate_UnknownModes(t *testing.T) {
	cfg := validConfig()
	cfg.SpeechMode = "browser"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown speech mode")
	}

	cfg = validConfig()
	cfg.AnalyzerMode = "gemini"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown analyzer mode")
	}
}

func TestValidate_AnalyzerRequirements(t *testing.T) {
	cases := map[string]func(*Config){
		AnalyzerModeOpenAI: func(c *Config) { c.OpenAIAPIKey = "sk-test" },
		AnalyzerModeOllama: func(c *Config) { c.OllamaEndpoint = "http://localhost:11434" },
		AnalyzerModeExec:   func(c *Config) { c.AnalyzerCommand = "./score.sh" },
	}
	for mode, fill := range cases {
		cfg := validConfig()
		cfg.AnalyzerMode = mode
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for %s without its settings", mode)
		}
		fill(cfg)
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected no error for %s, got %v", mode, err)
		}
	}
}

func TestValidate_DiscordRequiresChannel(t *testing.T) {
	cfg := validConfig()
	cfg.DiscordToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when discord channel is missing")
	}
	cfg.DiscordChannelID = "channel"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected non-development mode")
	}
}

func TestOptionalFeatures(t *testing.T) {
	cfg := validConfig()
	if cfg.HistoryEnabled() || cfg.DiscordEnabled() {
		t.Fatal("expected optional features to be off by default")
	}
	cfg.DatabaseURL = "postgres://localhost/lucidia"
	cfg.DiscordToken = "token"
	if !cfg.HistoryEnabled() || !cfg.DiscordEnabled() {
		t.Fatal("expected optional features to be on")
	}
}

func TestValidateServer_IgnoresSpeech(t *testing.T) {
	cfg := validConfig()
	cfg.SpeechMode = SpeechModeCloud
	cfg.AnalysisEndpointURL = ""
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cfg.AnalyzerMode = AnalyzerModeExec
	if err := cfg.ValidateServer(); err == nil {
		t.Fatal("expected error for exec mode without command")
	}
}
