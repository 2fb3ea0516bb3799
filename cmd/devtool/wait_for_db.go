package main

import (
	"context"
	"fmt"
	"time"
)

const (
	waitForDBRetries  = 30
	waitForDBInterval = 2 * time.Second
)

type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for database to be ready (with retries)"
}

func (c *WaitForDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database...")

	var lastErr error
	for i := 0; i < waitForDBRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), waitForDBInterval)
		pool, err := openPool(ctx)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
		}
		cancel()

		if err == nil {
			PrintSuccess("Database is ready")
			return nil
		}
		lastErr = err

		fmt.Printf("Database not ready (%d/%d): %v\n", i+1, waitForDBRetries, err)
		time.Sleep(waitForDBInterval)
	}

	return fmt.Errorf("database failed to become ready after %d attempts: %w", waitForDBRetries, lastErr)
}
