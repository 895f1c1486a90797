package config

import (
	"fmt"
	"net/url"
)

const (
	SpeechModeCloud  = "cloud"
	SpeechModeScript = "script"
	SpeechModeNone   = "none"

	AudioFormatPCM     = "pcm"
	AudioFormatWAV     = "wav"
	AudioFormatOggOpus = "ogg-opus"

	AnalyzerModeMock   = "mock"
	AnalyzerModeOpenAI = "openai"
	AnalyzerModeOllama = "ollama"
	AnalyzerModeExec   = "exec"
)

type Config struct {
	Env      string
	HTTPPort int

	AnalysisEndpointURL string

	SpeechMode                 string
	SpeechLanguage             string
	SpeechMaxAlternatives      int
	SpeechScriptPath           string
	AudioSourcePath            string
	AudioFormat                string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string

	AnalyzerMode    string
	AnalyzerCommand string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	OllamaEndpoint  string
	OllamaModel     string

	DatabaseURL      string
	DiscordToken     string
	DiscordChannelID string
	TelemetryEnabled bool
}

// Validate checks everything the capture client needs.
func (c *Config) Validate() error {
	if err := c.ValidateServer(); err != nil {
		return err
	}
	if c.AnalysisEndpointURL == "" {
		return fmt.Errorf("ANALYSIS_ENDPOINT_URL is required")
	}
	if _, err := url.ParseRequestURI(c.AnalysisEndpointURL); err != nil {
		return fmt.Errorf("ANALYSIS_ENDPOINT_URL is invalid: %w", err)
	}
	if c.SpeechLanguage == "" {
		return fmt.Errorf("SPEECH_LANGUAGE is required")
	}
	if c.SpeechMaxAlternatives <= 0 {
		return fmt.Errorf("SPEECH_MAX_ALTERNATIVES must be positive, got %d", c.SpeechMaxAlternatives)
	}
	return c.validateSpeech()
}

// ValidateServer checks only the settings the analysis service reads.
func (c *Config) ValidateServer() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}
	if err := c.validateAnalyzer(); err != nil {
		return err
	}
	if c.DiscordToken != "" && c.DiscordChannelID == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	switch c.SpeechMode {
	case SpeechModeCloud:
		for _, req := range c.cloudSpeechFieldChecks() {
			if req.value == "" {
				return fmt.Errorf("%s is required when SPEECH_MODE=cloud", req.name)
			}
		}
		switch c.AudioFormat {
		case AudioFormatPCM, AudioFormatWAV, AudioFormatOggOpus:
		default:
			return fmt.Errorf("AUDIO_FORMAT must be one of pcm|wav|ogg-opus, got %q", c.AudioFormat)
		}
	case SpeechModeScript:
		if c.SpeechScriptPath == "" {
			return fmt.Errorf("SPEECH_SCRIPT_PATH is required when SPEECH_MODE=script")
		}
	case SpeechModeNone:
	default:
		return fmt.Errorf("SPEECH_MODE must be one of cloud|script|none, got %q", c.SpeechMode)
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	switch c.AnalyzerMode {
	case AnalyzerModeMock:
	case AnalyzerModeOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when ANALYZER_MODE=openai")
		}
	case AnalyzerModeOllama:
		if c.OllamaEndpoint == "" {
			return fmt.Errorf("OLLAMA_ENDPOINT is required when ANALYZER_MODE=ollama")
		}
	case AnalyzerModeExec:
		if c.AnalyzerCommand == "" {
			return fmt.Errorf("ANALYZER_COMMAND is required when ANALYZER_MODE=exec")
		}
	default:
		return fmt.Errorf("ANALYZER_MODE must be one of mock|openai|ollama|exec, got %q", c.AnalyzerMode)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) cloudSpeechFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "GOOGLE_CLOUD_PROJECT_ID", value: c.GoogleCloudProjectID},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "GOOGLE_CLOUD_SPEECH_LOCATION", value: c.GoogleCloudSpeechLocation},
		{name: "AUDIO_SOURCE_PATH", value: c.AudioSourcePath},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}
