package migrations

import "embed"

// Files contains SQL migrations embedded into the binary, named with a flat
// numeric prefix (e.g., 001_init.sql) so the runner can apply them in order.
//
//go:embed *.sql
var Files embed.FS
