// Package dialects provides per-database catalog queries and connection
// settings behind a common interface.
package dialects

import (
	"errors"
	"fmt"
)

var ErrUnsupportedDialect = errors.New("unsupported database dialect")

// RowCountQuery is one tier of the row-count extraction fallback chain.
// ZeroFilled marks the last-resort listing that enumerates tables with a
// count of zero when no statistics source is readable.
type RowCountQuery struct {
	Tier       string
	SQL        string
	ZeroFilled bool
}

// Dialect supplies everything the engine needs to talk to one database
// flavor: the driver to open, the DSN shape, and the fixed catalog queries.
// All catalog queries alias their result columns to the shared names the
// extractor's row structs scan into.
type Dialect interface {
	Name() string
	DriverName() string
	DSN(host string, port int, user, password, dbname, sslMode string) string

	// ProbeQuery is a trivial statement used to verify connectivity
	// before any extraction starts.
	ProbeQuery() string

	TablesQuery() string
	ColumnsQuery() string
	IndexesQuery() string
	ConstraintsQuery() string
	TriggersQuery() string

	// RowCountQueries returns the ordered fallback tiers, most accurate
	// first. The final tier must be the zero-filled listing.
	RowCountQueries() []RowCountQuery
}

// Get returns the dialect registered under the given name.
func Get(name string) (Dialect, error) {
	switch name {
	case "mssql":
		return &MSSQL{}, nil
	case "postgres":
		return &Postgres{}, nil
	case "mysql":
		return &MySQL{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, name)
	}
}
