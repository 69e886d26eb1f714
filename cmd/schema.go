package cmd

import "fmt"

// Severity levels attached to every reported difference.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// severityRank orders severities for report sorting (higher sorts first).
func severityRank(severity string) int {
	switch severity {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Schema difference types, in the order the differ emits them.
const (
	DiffTableMissing      = "TableMissing"
	DiffTableExtra        = "TableExtra"
	DiffColumnMissing     = "ColumnMissing"
	DiffColumnExtra       = "ColumnExtra"
	DiffColumnType        = "ColumnType"
	DiffIndexMissing      = "IndexMissing"
	DiffConstraintMissing = "ConstraintMissing"
	DiffTriggerMissing    = "TriggerMissing"
)

// Data difference types.
const (
	DataRowCountMismatch     = "RowCountMismatch"
	DataTableMissingInSource = "TableMissingInSource"
	DataTableMissingInTarget = "TableMissingInTarget"
	DataEmptyTable           = "EmptyTable"
	DataLargeDifference      = "LargeDifference"
)

// ColumnSchema describes one column of a table.
type ColumnSchema struct {
	Name              string `json:"name"`
	DataType          string `json:"dataType"`
	MaxLength         *int64 `json:"maxLength,omitempty"`
	Precision         *int64 `json:"precision,omitempty"`
	Scale             *int64 `json:"scale,omitempty"`
	IsNullable        bool   `json:"isNullable"`
	DefaultValue      string `json:"defaultValue,omitempty"`
	IsIdentity        bool   `json:"isIdentity"`
	IdentitySeed      int64  `json:"identitySeed,omitempty"`
	IdentityIncrement int64  `json:"identityIncrement,omitempty"`
	Collation         string `json:"collation,omitempty"`
}

// IndexSchema describes one index of a table. Heaps are never represented.
type IndexSchema struct {
	Name             string   `json:"name"`
	IndexType        string   `json:"indexType"`
	IsUnique         bool     `json:"isUnique"`
	IsPrimaryKey     bool     `json:"isPrimaryKey"`
	KeyColumns       []string `json:"keyColumns"`
	IncludedColumns  []string `json:"includedColumns"`
	FilterDefinition string   `json:"filterDefinition,omitempty"`
}

// ConstraintSchema describes one check constraint or foreign key.
type ConstraintSchema struct {
	Name              string   `json:"name"`
	ConstraintType    string   `json:"constraintType"`
	Definition        string   `json:"definition,omitempty"`
	Columns           []string `json:"columns"`
	ReferencedTable   string   `json:"referencedTable,omitempty"`
	ReferencedColumns []string `json:"referencedColumns,omitempty"`
}

// TriggerSchema describes one trigger attached to a table.
type TriggerSchema struct {
	Name        string `json:"name"`
	TriggerType string `json:"triggerType"`
	Definition  string `json:"definition,omitempty"`
	IsEnabled   bool   `json:"isEnabled"`
}

// TableSchema is the assembled shape of one base table.
type TableSchema struct {
	SchemaName  string             `json:"schemaName"`
	TableName   string             `json:"tableName"`
	Columns     []ColumnSchema     `json:"columns"`
	Indexes     []IndexSchema      `json:"indexes"`
	Constraints []ConstraintSchema `json:"constraints"`
	Triggers    []TriggerSchema    `json:"triggers"`
}

// QualifiedName returns the schema-qualified table name used as the match key.
func (t TableSchema) QualifiedName() string {
	return fmt.Sprintf("%s.%s", t.SchemaName, t.TableName)
}

// TableRowCount is one table's row count in a snapshot.
type TableRowCount struct {
	SchemaName string `json:"schemaName"`
	TableName  string `json:"tableName"`
	RowCount   int64  `json:"rowCount"`
}

// QualifiedName returns the schema-qualified table name used as the match key.
func (t TableRowCount) QualifiedName() string {
	return fmt.Sprintf("%s.%s", t.SchemaName, t.TableName)
}

// SchemaDifference is one structural divergence between source and target.
type SchemaDifference struct {
	Type        string `json:"type"`
	ObjectName  string `json:"objectName"`
	Difference  string `json:"difference"`
	SourceValue string `json:"sourceValue,omitempty"`
	TargetValue string `json:"targetValue,omitempty"`
	Severity    string `json:"severity"`
}

// DataDifference is one row-count divergence between source and target.
type DataDifference struct {
	SchemaName           string  `json:"schemaName"`
	TableName            string  `json:"tableName"`
	DifferenceType       string  `json:"differenceType"`
	SourceRowCount       int64   `json:"sourceRowCount"`
	TargetRowCount       int64   `json:"targetRowCount"`
	Difference           int64   `json:"difference"`
	PercentageDifference float64 `json:"percentageDifference"`
	Description          string  `json:"description"`
	Severity             string  `json:"severity"`
}

// SchemaComparisonResult summarizes one schema comparison.
type SchemaComparisonResult struct {
	SourceTableCount  int                `json:"sourceTableCount"`
	TargetTableCount  int                `json:"targetTableCount"`
	SchemaDifferences int                `json:"schemaDifferences"`
	TotalDifferences  int                `json:"totalDifferences"`
	Differences       []SchemaDifference `json:"differences"`
}

// DataComparisonResult summarizes one row-count comparison.
type DataComparisonResult struct {
	SourceTotalRows  int64            `json:"sourceTotalRows"`
	TargetTotalRows  int64            `json:"targetTotalRows"`
	TablesCompared   int              `json:"tablesCompared"`
	TotalDifferences int              `json:"totalDifferences"`
	Differences      []DataDifference `json:"differences"`
}

// ComparisonResult is the top-level report. Schema and Data are nil when the
// corresponding mode was not requested or that domain failed.
type ComparisonResult struct {
	Schema           *SchemaComparisonResult `json:"schema,omitempty"`
	Data             *DataComparisonResult   `json:"data,omitempty"`
	TotalDifferences int                     `json:"totalDifferences"`
}
