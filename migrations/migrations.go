// Package migrations bundles the SQL schema for each storage driver.
package migrations

import "embed"

// Postgres holds the ordered Postgres migrations under postgres/.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the ordered SQLite migrations under sqlite/.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
