// Package migrations embeds the schema migrations of every supported dialect.
// Each dialect lives in its own directory named after Dialect.String().
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
