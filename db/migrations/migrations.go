// Package migrations embeds the versioned schema so binaries and tests can
// migrate a database without a checkout of db/migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
