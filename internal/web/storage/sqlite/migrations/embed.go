// Package migrations embeds SQLite migrations for web cache storage.
package migrations

import "embed"

// FS contains embedded SQLite migrations for web cache storage.
//
//go:embed *.sql
var FS embed.FS
