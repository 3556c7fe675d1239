// Package migrations holds the SQL files applied by db.RunMigrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
