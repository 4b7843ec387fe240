// Package migrations embeds the goose SQL migrations so deployments need no
// on-disk migration directory.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
