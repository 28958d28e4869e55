// Package migrations embeds the goose SQL migrations for every supported
// database dialect. The repository manager selects the subdirectory that
// matches its driver.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
