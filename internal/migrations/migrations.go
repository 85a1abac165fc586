// Package migrations embeds the forward-only schema changes for each
// supported dialect. File names are part of the deployment contract: an
// applied file is never renamed or renumbered.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// ForDialect returns the migration set for "sqlite" or "postgres".
func ForDialect(dialect string) (fs.FS, error) {
	switch dialect {
	case "sqlite", "postgres":
		return fs.Sub(Migrations, dialect)
	}
	return nil, fmt.Errorf("no migrations for dialect %q", dialect)
}
