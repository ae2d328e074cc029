// Package migrations embeds the SQL migration files for the local lookup
// cache schema.
package migrations

import "embed"

// Files exposes the compiled-in migration SQL files.
//
//go:embed *.sql
var Files embed.FS
