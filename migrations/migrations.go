// Package migrations embeds the Postgres schema for the interview session log.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
