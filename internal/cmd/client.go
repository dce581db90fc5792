package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/nextgenai/nextgen/internal/composer"
	"github.com/nextgenai/nextgen/internal/config"
	"github.com/nextgenai/nextgen/internal/core/store"
	"github.com/nextgenai/nextgen/internal/observability"
	"github.com/nextgenai/nextgen/internal/prefs"
)

// newGenerator returns the proxy client, or an in-process service when
// local is set.
func newGenerator(cfg *config.Config, local bool) (composer.Generator, error) {
	if local {
		svc, err := newStudioService(cfg, observability.CLILogger)
		if err != nil {
			return nil, err
		}
		return composer.LocalGenerator{Service: svc}, nil
	}
	client := composer.NewClient(cfg.Client.BaseURL, cfg.Client.Key)
	client.Timeout = cfg.Client.Timeout
	return client, nil
}

// openPrefs opens and migrates the local store. The returned close func
// must be called when done.
func openPrefs(ctx context.Context, cfg *config.Config) (prefs.Store, func(), error) {
	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return prefs.NewSQLStore(db, cfg.Prefs.HistoryLimit), func() { _ = db.Close() }, nil
}

func saveExchange(ctx context.Context, s prefs.Store, ex composer.Exchange) (prefs.Idea, error) {
	return s.SaveIdea(ctx, prefs.Idea{
		Theme:    ex.Request.Theme,
		Tone:     ex.Request.Tone,
		Platform: ex.Request.Platform,
		Result:   ex.Result,
	})
}

// writerNotifier prints notifications on their own line.
type writerNotifier struct{ w io.Writer }

func (n writerNotifier) Notify(level composer.Level, message string) {
	prefix := "✓"
	if level == composer.LevelError {
		prefix = "✗"
	}
	fmt.Fprintf(n.w, "%s %s\n", prefix, message)
}
