// Package postgres embeds the SQL migrations for the Postgres engine.
package postgres

import "embed"

//go:embed *.sql
var FS embed.FS
