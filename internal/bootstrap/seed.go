package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/validation"
)

// LayoutSeeder upserts a session's node layout
type LayoutSeeder interface {
	SeedSession(ctx context.Context, nodes []domain.ResourceNode) error
}

// SeedLayouts validates every session layout file in dir against the layout
// schema and upserts its nodes. Nothing is written unless every file is valid.
// It returns the number of sessions seeded.
func SeedLayouts(ctx context.Context, dir string, seeder LayoutSeeder) (int, error) {
	if dir == "" {
		slog.Info(LogMsgNoLayoutDir)
		return 0, nil
	}

	slog.Info(LogMsgSeedingLayouts, "dir", dir)
	loader, err := validation.NewLayoutLoader()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedLayoutLoader, err)
	}

	layouts, err := loader.LoadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedLoadLayouts, err)
	}

	for _, layout := range layouts {
		nodes := layout.ResourceNodes()
		if err := seeder.SeedSession(ctx, nodes); err != nil {
			return 0, fmt.Errorf("%s %s: %w", ErrMsgFailedSeedLayout, layout.SessionID, err)
		}
		slog.Info(LogMsgLayoutSeeded, "session_id", layout.SessionID, "nodes", len(nodes))
	}
	return len(layouts), nil
}
