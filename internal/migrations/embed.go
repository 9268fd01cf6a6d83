// Package migrations embeds the SQL schema migration files.
package migrations

import "embed"

// FS contains the forward-only migration files, named
// <YYYYMMDDHHMMSS>_<slug>.sql. Ordering and bookkeeping are the
// migration runner's job, not the files'.
//
//go:embed *.sql
var FS embed.FS
