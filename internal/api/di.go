package api

import (
	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/scores"
	"github.com/foxseedlab/lucidia/internal/telemetry"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		svc := do.MustInvoke[*analysis.Service](i)
		t := do.MustInvoke[*telemetry.Telemetry](i)
		return NewServer(svc, scores.NewGenerator(), t.Handler), nil
	})
}
