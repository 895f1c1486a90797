package speech

import (
	"fmt"
	"time"

	"github.com/foxseedlab/lucidia/internal/audio"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/foxseedlab/lucidia/internal/speech"
	"github.com/samber/do/v2"
)

const scriptUtteranceInterval = 750 * time.Millisecond

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (speech.Capability, error) {
		c := do.MustInvoke[*config.Config](i)
		switch c.SpeechMode {
		case config.SpeechModeCloud:
			return NewCloudSpeechCapability(CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Language:        c.SpeechLanguage,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			}, do.MustInvoke[audio.SourceFactory](i)), nil
		case config.SpeechModeScript:
			return NewScriptCapability(c.SpeechScriptPath, scriptUtteranceInterval), nil
		case config.SpeechModeNone:
			return Unavailable{}, nil
		default:
			return nil, fmt.Errorf("unsupported speech mode %q", c.SpeechMode)
		}
	})
}
