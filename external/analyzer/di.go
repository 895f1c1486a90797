package analyzer

import (
	"fmt"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (analysis.Analyzer, error) {
		c := do.MustInvoke[*config.Config](i)
		return New(c)
	})
}

func New(c *config.Config) (analysis.Analyzer, error) {
	switch c.AnalyzerMode {
	case config.AnalyzerModeMock:
		return NewMockAnalyzer(), nil
	case config.AnalyzerModeOpenAI:
		return NewOpenAIAnalyzer(OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			Model:   c.OpenAIModel,
			BaseURL: c.OpenAIBaseURL,
		}), nil
	case config.AnalyzerModeOllama:
		return NewOllamaAnalyzer(c.OllamaEndpoint, c.OllamaModel), nil
	case config.AnalyzerModeExec:
		return NewExecAnalyzer(c.AnalyzerCommand)
	default:
		return nil, fmt.Errorf("unsupported analyzer mode %q", c.AnalyzerMode)
	}
}
