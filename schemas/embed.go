// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the SQL migration files of every dialect, one directory per
// dialect (mysql, postgres, sqlite).
//
//go:embed migrations/*/*.sql
var Migrations embed.FS
