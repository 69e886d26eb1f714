package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/schemadrift/schemadrift/cmd/dialects"
)

// ErrRowCountExhausted is returned when every row-count query tier failed.
var ErrRowCountExhausted = errors.New("all row count queries failed")

// TableRow is one base table from the catalog.
type TableRow struct {
	SchemaName string `db:"schema_name"`
	TableName  string `db:"table_name"`
}

// ColumnRow is one column from the catalog.
type ColumnRow struct {
	SchemaName        string         `db:"schema_name"`
	TableName         string         `db:"table_name"`
	ColumnName        string         `db:"column_name"`
	DataType          string         `db:"data_type"`
	MaxLength         sql.NullInt64  `db:"max_length"`
	Precision         sql.NullInt64  `db:"num_precision"`
	Scale             sql.NullInt64  `db:"num_scale"`
	IsNullable        string         `db:"is_nullable"`
	DefaultValue      sql.NullString `db:"default_value"`
	IsIdentity        int            `db:"is_identity"`
	IdentitySeed      sql.NullInt64  `db:"identity_seed"`
	IdentityIncrement sql.NullInt64  `db:"identity_increment"`
	Collation         sql.NullString `db:"collation_name"`
}

// IndexRow is one index from the catalog, key columns pre-aggregated into a
// delimited list.
type IndexRow struct {
	SchemaName       string         `db:"schema_name"`
	TableName        string         `db:"table_name"`
	IndexName        string         `db:"index_name"`
	IndexType        string         `db:"index_type"`
	IsUnique         int            `db:"is_unique"`
	IsPrimaryKey     int            `db:"is_primary_key"`
	KeyColumns       sql.NullString `db:"key_columns"`
	IncludedColumns  sql.NullString `db:"included_columns"`
	FilterDefinition sql.NullString `db:"filter_definition"`
}

// ConstraintRow is one check constraint or foreign key from the catalog.
type ConstraintRow struct {
	SchemaName        string         `db:"schema_name"`
	TableName         string         `db:"table_name"`
	ConstraintName    string         `db:"constraint_name"`
	ConstraintType    string         `db:"constraint_type"`
	Definition        sql.NullString `db:"definition"`
	ColumnNames       sql.NullString `db:"column_names"`
	ReferencedTable   sql.NullString `db:"referenced_table"`
	ReferencedColumns sql.NullString `db:"referenced_columns"`
}

// TriggerRow is one trigger from the catalog.
type TriggerRow struct {
	SchemaName  string         `db:"schema_name"`
	TableName   string         `db:"table_name"`
	TriggerName string         `db:"trigger_name"`
	TriggerType string         `db:"trigger_type"`
	Definition  sql.NullString `db:"definition"`
	IsEnabled   int            `db:"is_enabled"`
}

// RowCountRow is one table's row count from a statistics query.
type RowCountRow struct {
	SchemaName string `db:"schema_name"`
	TableName  string `db:"table_name"`
	RowCount   int64  `db:"row_count"`
}

// Catalog bundles the raw catalog streams of one database.
type Catalog struct {
	Tables      []TableRow
	Columns     []ColumnRow
	Indexes     []IndexRow
	Constraints []ConstraintRow
	Triggers    []TriggerRow
}

// RowCountSnapshot is the result of the tiered row-count extraction,
// recording which tier produced it.
type RowCountSnapshot struct {
	Counts     []TableRowCount
	Tier       string
	Degraded   bool
	ZeroFilled bool
}

// Extractor runs the read-only catalog queries of one database.
type Extractor struct {
	db      *sqlx.DB
	dialect dialects.Dialect
	logger  *slog.Logger
}

func NewExtractor(db *sqlx.DB, dialect dialects.Dialect, logger *slog.Logger) *Extractor {
	return &Extractor{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

// ExtractCatalog runs the five catalog queries in order. Query errors
// propagate unmodified beyond the wrapping here.
func (e *Extractor) ExtractCatalog(ctx context.Context) (*Catalog, error) {
	cat := &Catalog{}

	if err := e.db.SelectContext(ctx, &cat.Tables, e.dialect.TablesQuery()); err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	e.logger.Debug(fmt.Sprintf("📋 Found %d tables", len(cat.Tables)))

	if err := e.db.SelectContext(ctx, &cat.Columns, e.dialect.ColumnsQuery()); err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	if err := e.db.SelectContext(ctx, &cat.Indexes, e.dialect.IndexesQuery()); err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	if err := e.db.SelectContext(ctx, &cat.Constraints, e.dialect.ConstraintsQuery()); err != nil {
		return nil, fmt.Errorf("failed to query constraints: %w", err)
	}
	if err := e.db.SelectContext(ctx, &cat.Triggers, e.dialect.TriggersQuery()); err != nil {
		return nil, fmt.Errorf("failed to query triggers: %w", err)
	}

	return cat, nil
}

// ExtractRowCounts walks the dialect's row-count tiers in order and returns
// the first one that succeeds. Failed tiers are logged and kept for the
// final error; if every tier fails, no partial data is returned.
func (e *Extractor) ExtractRowCounts(ctx context.Context) (*RowCountSnapshot, error) {
	var errs []error

	for i, q := range e.dialect.RowCountQueries() {
		var rows []RowCountRow
		if err := e.db.SelectContext(ctx, &rows, q.SQL); err != nil {
			e.logger.Warn(fmt.Sprintf("⚠️ Row count query tier %q failed: %v", q.Tier, err))
			errs = append(errs, fmt.Errorf("tier %s: %w", q.Tier, err))
			continue
		}

		counts := make([]TableRowCount, 0, len(rows))
		for _, r := range rows {
			counts = append(counts, TableRowCount{
				SchemaName: r.SchemaName,
				TableName:  r.TableName,
				RowCount:   r.RowCount,
			})
		}

		return &RowCountSnapshot{
			Counts:     counts,
			Tier:       q.Tier,
			Degraded:   i > 0,
			ZeroFilled: q.ZeroFilled,
		}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrRowCountExhausted, errors.Join(errs...))
}
