package analysis

import (
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/foxseedlab/lucidia/internal/repository"
	"github.com/foxseedlab/lucidia/internal/telemetry"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		c := do.MustInvoke[*config.Config](i)
		analyzer := do.MustInvoke[Analyzer](i)
		repo := do.MustInvoke[repository.Repository](i)
		notifier := do.MustInvoke[Notifier](i)
		t := do.MustInvoke[*telemetry.Telemetry](i)
		return NewService(analyzer, c.AnalyzerMode, repo, notifier, t.Recorder), nil
	})
}
