package main

import (
	"context"
	"fmt"

	"github.com/Cleo-11/OceanX/internal/database"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply or inspect the embedded schema migrations (up, status)"
}

func (c *MigrateCommand) Run(args []string) error {
	subcmd := "up"
	if len(args) > 0 {
		subcmd = args[0]
	}

	ctx := context.Background()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch subcmd {
	case "up":
		PrintHeader("Applying migrations...")
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		PrintSuccess("Schema is up to date")
		return nil

	case "status":
		PrintHeader("Migration status")
		statuses, err := database.MigrationStatus(ctx, pool)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "pending"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  %05d  %-8s  %s  %s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q: use up or status", subcmd)
	}
}
