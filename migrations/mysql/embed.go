// Package mysql embeds the SQL migrations for the MySQL engine.
package mysql

import "embed"

//go:embed *.sql
var FS embed.FS
