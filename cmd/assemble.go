package cmd

import (
	"database/sql"
	"fmt"
	"strings"
)

// assembleTables groups the raw catalog streams into one TableSchema per
// base table. Pure function: no I/O, deterministic for a given catalog.
func assembleTables(cat *Catalog) []TableSchema {
	columns := make(map[string][]ColumnSchema)
	for _, r := range cat.Columns {
		key := qualify(r.SchemaName, r.TableName)
		columns[key] = append(columns[key], mapColumn(r))
	}

	indexes := make(map[string][]IndexSchema)
	for _, r := range cat.Indexes {
		key := qualify(r.SchemaName, r.TableName)
		indexes[key] = append(indexes[key], IndexSchema{
			Name:             r.IndexName,
			IndexType:        r.IndexType,
			IsUnique:         r.IsUnique == 1,
			IsPrimaryKey:     r.IsPrimaryKey == 1,
			KeyColumns:       splitColumnList(r.KeyColumns),
			IncludedColumns:  splitColumnList(r.IncludedColumns),
			FilterDefinition: r.FilterDefinition.String,
		})
	}

	constraints := make(map[string][]ConstraintSchema)
	for _, r := range cat.Constraints {
		key := qualify(r.SchemaName, r.TableName)
		constraints[key] = append(constraints[key], ConstraintSchema{
			Name:              r.ConstraintName,
			ConstraintType:    r.ConstraintType,
			Definition:        r.Definition.String,
			Columns:           splitColumnList(r.ColumnNames),
			ReferencedTable:   r.ReferencedTable.String,
			ReferencedColumns: splitColumnList(r.ReferencedColumns),
		})
	}

	triggers := make(map[string][]TriggerSchema)
	for _, r := range cat.Triggers {
		key := qualify(r.SchemaName, r.TableName)
		triggers[key] = append(triggers[key], TriggerSchema{
			Name:        r.TriggerName,
			TriggerType: r.TriggerType,
			Definition:  r.Definition.String,
			IsEnabled:   r.IsEnabled == 1,
		})
	}

	tables := make([]TableSchema, 0, len(cat.Tables))
	for _, t := range cat.Tables {
		key := qualify(t.SchemaName, t.TableName)
		tables = append(tables, TableSchema{
			SchemaName:  t.SchemaName,
			TableName:   t.TableName,
			Columns:     columns[key],
			Indexes:     indexes[key],
			Constraints: constraints[key],
			Triggers:    triggers[key],
		})
	}

	return tables
}

func mapColumn(r ColumnRow) ColumnSchema {
	col := ColumnSchema{
		Name:         r.ColumnName,
		DataType:     r.DataType,
		IsNullable:   r.IsNullable == "YES",
		DefaultValue: r.DefaultValue.String,
		IsIdentity:   r.IsIdentity == 1,
		Collation:    r.Collation.String,
	}
	if r.MaxLength.Valid {
		v := r.MaxLength.Int64
		col.MaxLength = &v
	}
	if r.Precision.Valid {
		v := r.Precision.Int64
		col.Precision = &v
	}
	if r.Scale.Valid {
		v := r.Scale.Int64
		col.Scale = &v
	}
	if col.IsIdentity {
		col.IdentitySeed = r.IdentitySeed.Int64
		col.IdentityIncrement = r.IdentityIncrement.Int64
	}
	return col
}

// splitColumnList splits a comma-delimited column aggregate into an ordered
// list. An absent or empty aggregate yields an empty list, never nil.
func splitColumnList(agg sql.NullString) []string {
	if !agg.Valid || strings.TrimSpace(agg.String) == "" {
		return []string{}
	}
	parts := strings.Split(agg.String, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func qualify(schemaName, tableName string) string {
	return fmt.Sprintf("%s.%s", schemaName, tableName)
}
