package audio

import (
	"github.com/foxseedlab/lucidia/internal/audio"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.SourceFactory, error) {
		c := do.MustInvoke[*config.Config](i)
		// stdin carries capture commands, so audio must come from a path.
		return NewSourceFactory(c.AudioFormat, c.AudioSourcePath, nil), nil
	})
}
