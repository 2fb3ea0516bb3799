package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/Cleo-11/OceanX/internal/bootstrap"
	"github.com/Cleo-11/OceanX/internal/database/postgres"
	"github.com/Cleo-11/OceanX/internal/ledger"
	"github.com/Cleo-11/OceanX/internal/validation"
)

type SeedLayoutsCommand struct{}

func (c *SeedLayoutsCommand) Name() string {
	return "seed-layouts"
}

func (c *SeedLayoutsCommand) Description() string {
	return "Validate session layout files and upsert their nodes (--check to only validate)"
}

func (c *SeedLayoutsCommand) Run(args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	checkOnly := fs.Bool("check", false, "validate layouts without touching the database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := getEnv("NODE_LAYOUT_DIR", "")
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	if dir == "" {
		return fmt.Errorf("layout directory required (argument or NODE_LAYOUT_DIR)")
	}

	if *checkOnly {
		PrintHeader("Validating layouts in " + dir)
		loader, err := validation.NewLayoutLoader()
		if err != nil {
			return err
		}
		layouts, err := loader.LoadDir(dir)
		if err != nil {
			return err
		}
		for _, l := range layouts {
			PrintSuccess("%s: %d nodes", l.SessionID, len(l.Nodes))
		}
		return nil
	}

	PrintHeader("Seeding layouts from " + dir)
	ctx := context.Background()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := ledger.NewService(postgres.NewNodeRepository(pool), nil)
	n, err := bootstrap.SeedLayouts(ctx, dir, svc)
	if err != nil {
		return err
	}
	PrintSuccess("Seeded %d session layouts", n)
	return nil
}
