package analysis

import (
	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (analysis.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPClient(c.AnalysisEndpointURL), nil
	})
}
