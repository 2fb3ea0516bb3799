// Package migrations embeds the goose SQL migrations so binaries and tests
// can bring a database up to date without a migrations directory on disk.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
