package discord

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/lucidia/internal/analysis"
	"github.com/foxseedlab/lucidia/internal/config"
	"github.com/samber/do/v2"
)

type noopNotifier struct{}

func (noopNotifier) NotifyAnalysis(_ context.Context, _ analysis.Notice) error {
	return nil
}

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (analysis.Notifier, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.DiscordEnabled() {
			slog.Info("DISCORD_TOKEN is empty; analysis notices disabled")
			return noopNotifier{}, nil
		}
		return NewNotifier(c.DiscordToken, c.DiscordChannelID)
	})
}
