package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/lucidia/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	HTTPPort                   int    `env:"HTTP_PORT" envDefault:"8000"`
	AnalysisEndpointURL        string `env:"ANALYSIS_ENDPOINT_URL" envDefault:"http://localhost:8000/process"`
	SpeechMode                 string `env:"SPEECH_MODE" envDefault:"cloud"`
	SpeechLanguage             string `env:"SPEECH_LANGUAGE" envDefault:"hi-IN"`
	SpeechMaxAlternatives      int    `env:"SPEECH_MAX_ALTERNATIVES" envDefault:"1"`
	SpeechScriptPath           string `env:"SPEECH_SCRIPT_PATH"`
	AudioSourcePath            string `env:"AUDIO_SOURCE_PATH"`
	AudioFormat                string `env:"AUDIO_FORMAT" envDefault:"pcm"`
	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"asia-south1"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	AnalyzerMode               string `env:"ANALYZER_MODE" envDefault:"mock"`
	AnalyzerCommand            string `env:"ANALYZER_COMMAND"`
	OpenAIAPIKey               string `env:"OPENAI_API_KEY"`
	OpenAIModel                string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL              string `env:"OPENAI_BASE_URL"`
	OllamaEndpoint             string `env:"OLLAMA_ENDPOINT" envDefault:"http://localhost:11434"`
	OllamaModel                string `env:"OLLAMA_MODEL" envDefault:"llama3.2:latest"`
	DatabaseURL                string `env:"DATABASE_URL"`
	DiscordToken               string `env:"DISCORD_TOKEN"`
	DiscordChannelID           string `env:"DISCORD_CHANNEL_ID"`
	TelemetryEnabled           bool   `env:"TELEMETRY_ENABLED" envDefault:"true"`
}

// LoadDotEnv reads .env files into the process environment without overriding
// variables that are already set. Missing files are not an error.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads and validates the configuration of the capture client.
func Load() (*internalconfig.Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadServer reads the configuration of the analysis service; speech settings
// are not validated.
func LoadServer() (*internalconfig.Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		HTTPPort:                   raw.HTTPPort,
		AnalysisEndpointURL:        raw.AnalysisEndpointURL,
		SpeechMode:                 raw.SpeechMode,
		SpeechLanguage:             raw.SpeechLanguage,
		SpeechMaxAlternatives:      raw.SpeechMaxAlternatives,
		SpeechScriptPath:           raw.SpeechScriptPath,
		AudioSourcePath:            raw.AudioSourcePath,
		AudioFormat:                raw.AudioFormat,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		AnalyzerMode:               raw.AnalyzerMode,
		AnalyzerCommand:            raw.AnalyzerCommand,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIModel:                raw.OpenAIModel,
		OpenAIBaseURL:              raw.OpenAIBaseURL,
		OllamaEndpoint:             raw.OllamaEndpoint,
		OllamaModel:                raw.OllamaModel,
		DatabaseURL:                raw.DatabaseURL,
		DiscordToken:               raw.DiscordToken,
		DiscordChannelID:           raw.DiscordChannelID,
		TelemetryEnabled:           raw.TelemetryEnabled,
	}
	return cfg, nil
}
