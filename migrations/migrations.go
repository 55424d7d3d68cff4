// Package migrations embeds the SQL schema migrations for every supported database driver.
package migrations

import "embed"

// FS holds the postgresql/ and mysql/ migration directories.
//
//go:embed postgresql/*.sql mysql/*.sql
var FS embed.FS

// Dir returns the embedded directory holding migrations for the given database driver.
func Dir(driver string) string {
	if driver == "mysql" {
		return "mysql"
	}
	return "postgresql"
}
