package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Dialect is the SQL flavor of the backing store.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(driver)); d {
	case DialectMySQL, DialectPostgres, DialectSQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DialectOf infers the dialect from the driver a pool was opened with.
// Unknown drivers are treated as MySQL.
func DialectOf(db *sqlx.DB) Dialect {
	switch db.DriverName() {
	case "pgx", "pgx/v5", "postgres":
		return DialectPostgres
	case "sqlite", "sqlite3":
		return DialectSQLite
	default:
		return DialectMySQL
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectSQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

// ForUpdate returns the clause appended to a SELECT to lock the selected rows until the
// transaction ends. SQLite has no row locks; its transactions take the write lock at
// BEGIN instead (see sqliteDSN), so the clause is empty.
func (d Dialect) ForUpdate() string {
	if d == DialectSQLite {
		return ""
	}
	return " FOR UPDATE"
}

// InsertIgnore builds an INSERT of one row that does nothing when a row with the same
// key already exists. keyColumns must be a unique key of table.
func (d Dialect) InsertIgnore(table string, columns []string, keyColumns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)

	switch d {
	case DialectMySQL:
		// Assigning a key column to itself leaves an existing row untouched.
		return fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s = %s", insert, keyColumns[0], keyColumns[0])
	default:
		return fmt.Sprintf("%s ON CONFLICT (%s) DO NOTHING", insert, strings.Join(keyColumns, ", "))
	}
}
