// Package migrations embeds the SQL files that build Sappie's post log.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
