package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

const (
	migrateAttempts   = 3
	migrateRetryDelay = 5 * time.Second
)

// EntrypointCommand prepares the database and then replaces itself with the
// game server process
type EntrypointCommand struct{}

func (c *EntrypointCommand) Name() string {
	return "entrypoint"
}

func (c *EntrypointCommand) Description() string {
	return "Container entrypoint (wait for db, check layouts, backup, migrate, exec server)"
}

type entrypointStage struct {
	name string
	run  func() error
}

func (c *EntrypointCommand) Run(args []string) error {
	if os.Getenv("DB_HOST") == "" && os.Getenv("DB_URL") == "" {
		_ = os.Setenv("DB_HOST", "db")
	}

	stages := []entrypointStage{
		{"wait-for-db", func() error { return (&WaitForDBCommand{}).Run(nil) }},
		{"check-layouts", c.checkLayouts},
		{"backup", c.backup},
		{"migrate", c.migrate},
	}
	for _, s := range stages {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	return c.exec(args)
}

// checkLayouts rejects a bad NODE_LAYOUT_DIR before the schema is touched.
// The server seeds the same files on startup.
func (c *EntrypointCommand) checkLayouts() error {
	dir := os.Getenv("NODE_LAYOUT_DIR")
	if dir == "" {
		PrintInfo("NODE_LAYOUT_DIR not set, no layouts to check")
		return nil
	}
	return (&SeedLayoutsCommand{}).Run([]string{"--check", dir})
}

// backup dumps the database before migrating in production or when
// CREATE_BACKUP=true. A failed backup is reported but does not block startup.
func (c *EntrypointCommand) backup() error {
	if os.Getenv("ENVIRONMENT") != envProduction && os.Getenv("CREATE_BACKUP") != "true" {
		return nil
	}

	PrintHeader("Creating pre-migration backup...")
	if _, err := exec.LookPath("pg_dump"); err != nil {
		PrintWarning("pg_dump not found, skipping backup")
		return nil
	}

	dir := getEnv("BACKUP_DIR", os.TempDir())
	path := filepath.Join(dir, fmt.Sprintf("oceanx_%s.sql", time.Now().UTC().Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		PrintWarning("Could not create backup file: %v", err)
		return nil
	}
	defer f.Close()

	cmd := exec.Command("pg_dump", "--no-owner", databaseURL())
	cmd.Stdout = f
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintWarning("Backup failed: %v", err)
		return nil
	}

	PrintSuccess("Backup written to %s", path)
	return nil
}

func (c *EntrypointCommand) migrate() error {
	var err error
	for attempt := 1; attempt <= migrateAttempts; attempt++ {
		if err = (&MigrateCommand{}).Run([]string{"up"}); err == nil {
			return nil
		}
		PrintWarning("Migration attempt %d/%d failed: %v", attempt, migrateAttempts, err)
		if attempt < migrateAttempts {
			time.Sleep(migrateRetryDelay)
		}
	}
	return err
}

func (c *EntrypointCommand) exec(args []string) error {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("no server command given")
	}

	bin, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("executable not found: %w", err)
	}

	PrintHeader("Starting " + filepath.Base(bin))
	return syscall.Exec(bin, args, os.Environ())
}
