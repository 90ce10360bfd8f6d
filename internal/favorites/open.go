package favorites

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/panuhen/spotify-mcp/internal/config"
)

// Open creates the repository selected by cfg.Backend. A nil logger means
// log.Default.
func Open(ctx context.Context, cfg config.FavoritesConfig, logger *log.Logger) (Repository, error) {
	if logger == nil {
		logger = log.Default()
	}

	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileRepository(cfg.Path, WithLogger(logger)), nil
	case config.BackendSQLite:
		return NewSQLiteRepository(ctx, cfg.Path)
	case config.BackendPostgres:
		return NewPostgresRepository(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
