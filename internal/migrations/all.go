// Package migrations holds the schema scripts applied by pkg/database/migrate.
package migrations

import "embed"

//go:embed *.sql
var All embed.FS
