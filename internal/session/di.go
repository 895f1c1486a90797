package session

import (
	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/foxseedlab/lucidia/internal/speech"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Controller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		capability := do.MustInvoke[speech.Capability](i)
		client := do.MustInvoke[analysis.Client](i)
		recognizer := speech.DefaultRecognitionConfig(cfg.SpeechLanguage)
		recognizer.MaxAlternatives = cfg.SpeechMaxAlternatives
		return NewController(capability, client, recognizer), nil
	})
}
