package cmd

import (
	"reflect"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCompareSchemasColumnTypeDifference(t *testing.T) {
	source := []TableSchema{{
		SchemaName: "dbo",
		TableName:  "Orders",
		Columns: []ColumnSchema{
			{Name: "Id", DataType: "int", Precision: int64Ptr(10), Scale: int64Ptr(0), IsIdentity: true},
			{Name: "Total", DataType: "decimal", Precision: int64Ptr(10), Scale: int64Ptr(2), IsNullable: true},
		},
	}}
	target := []TableSchema{{
		SchemaName: "dbo",
		TableName:  "Orders",
		Columns: []ColumnSchema{
			{Name: "Id", DataType: "int", Precision: int64Ptr(10), Scale: int64Ptr(0), IsIdentity: true},
			{Name: "Total", DataType: "decimal", Precision: int64Ptr(8), Scale: int64Ptr(2), IsNullable: true},
		},
	}}

	result := CompareSchemas(source, target)

	if result.TotalDifferences != 1 {
		t.Fatalf("expected 1 difference, got %d: %+v", result.TotalDifferences, result.Differences)
	}
	diff := result.Differences[0]
	if diff.Type != DiffColumnType {
		t.Errorf("expected type %s, got %s", DiffColumnType, diff.Type)
	}
	if diff.ObjectName != "dbo.Orders.Total" {
		t.Errorf("expected objectName dbo.Orders.Total, got %s", diff.ObjectName)
	}
	if diff.SourceValue != "decimal(10,2)" {
		t.Errorf("expected sourceValue decimal(10,2), got %s", diff.SourceValue)
	}
	if diff.TargetValue != "decimal(8,2)" {
		t.Errorf("expected targetValue decimal(8,2), got %s", diff.TargetValue)
	}
	if diff.Severity != SeverityHigh {
		t.Errorf("expected severity %s, got %s", SeverityHigh, diff.Severity)
	}
}

func TestCompareSchemasExtraTable(t *testing.T) {
	source := []TableSchema{
		{SchemaName: "dbo", TableName: "Users"},
		{SchemaName: "dbo", TableName: "Orders"},
		{SchemaName: "dbo", TableName: "Products"},
	}
	target := []TableSchema{
		{SchemaName: "dbo", TableName: "Users"},
		{SchemaName: "dbo", TableName: "Orders"},
		{SchemaName: "dbo", TableName: "Products"},
		{SchemaName: "dbo", TableName: "Audit"},
	}

	result := CompareSchemas(source, target)

	if result.SchemaDifferences != 1 {
		t.Fatalf("expected schemaDifferences == 1, got %d", result.SchemaDifferences)
	}
	diff := result.Differences[0]
	if diff.Type != DiffTableExtra {
		t.Errorf("expected type %s, got %s", DiffTableExtra, diff.Type)
	}
	if diff.ObjectName != "dbo.Audit" {
		t.Errorf("expected objectName dbo.Audit, got %s", diff.ObjectName)
	}
	if diff.Severity != SeverityMedium {
		t.Errorf("expected severity %s, got %s", SeverityMedium, diff.Severity)
	}
}

func TestCompareSchemasUnmatchedTableSkipsDetailPasses(t *testing.T) {
	// A table missing from the target must yield exactly one TableMissing
	// difference; its columns, indexes, constraints and triggers must not
	// be reported individually.
	source := []TableSchema{{
		SchemaName: "dbo",
		TableName:  "Legacy",
		Columns: []ColumnSchema{
			{Name: "Id", DataType: "int"},
			{Name: "Name", DataType: "nvarchar", MaxLength: int64Ptr(50)},
		},
		Indexes:     []IndexSchema{{Name: "PK_Legacy", IndexType: "CLUSTERED", IsPrimaryKey: true, KeyColumns: []string{"Id"}, IncludedColumns: []string{}}},
		Constraints: []ConstraintSchema{{Name: "CK_Legacy", ConstraintType: "CHECK", Definition: "([Id]>(0))", Columns: []string{}}},
		Triggers:    []TriggerSchema{{Name: "TR_Legacy", TriggerType: "AFTER", IsEnabled: true}},
	}}

	result := CompareSchemas(source, nil)

	if result.TotalDifferences != 1 {
		t.Fatalf("expected exactly 1 difference, got %d: %+v", result.TotalDifferences, result.Differences)
	}
	if result.Differences[0].Type != DiffTableMissing {
		t.Errorf("expected type %s, got %s", DiffTableMissing, result.Differences[0].Type)
	}
	if result.Differences[0].Severity != SeverityHigh {
		t.Errorf("expected severity %s, got %s", SeverityHigh, result.Differences[0].Severity)
	}
}

func TestCompareSchemasNullabilityIsSeparateDifference(t *testing.T) {
	source := []TableSchema{{
		SchemaName: "dbo",
		TableName:  "Users",
		Columns:    []ColumnSchema{{Name: "Email", DataType: "nvarchar", MaxLength: int64Ptr(255), IsNullable: false}},
	}}
	target := []TableSchema{{
		SchemaName: "dbo",
		TableName:  "Users",
		Columns:    []ColumnSchema{{Name: "Email", DataType: "nvarchar", MaxLength: int64Ptr(255), IsNullable: true}},
	}}

	result := CompareSchemas(source, target)

	if result.TotalDifferences != 1 {
		t.Fatalf("expected 1 difference, got %d: %+v", result.TotalDifferences, result.Differences)
	}
	diff := result.Differences[0]
	if diff.Type != DiffColumnType {
		t.Errorf("expected type %s, got %s", DiffColumnType, diff.Type)
	}
	if diff.SourceValue != "NOT NULL" || diff.TargetValue != "NULL" {
		t.Errorf("expected NOT NULL/NULL, got %s/%s", diff.SourceValue, diff.TargetValue)
	}
	if diff.Severity != SeverityMedium {
		t.Errorf("expected severity %s, got %s", SeverityMedium, diff.Severity)
	}
}

func TestCompareSchemasPassOrder(t *testing.T) {
	// One difference of every kind; the output list must follow the pass
	// order: tables, columns, indexes, constraints, triggers.
	source := []TableSchema{
		{SchemaName: "dbo", TableName: "OnlyInSource"},
		{
			SchemaName:  "dbo",
			TableName:   "Shared",
			Columns:     []ColumnSchema{{Name: "Gone", DataType: "int"}},
			Indexes:     []IndexSchema{{Name: "IX_Gone", IndexType: "NONCLUSTERED", KeyColumns: []string{"Gone"}, IncludedColumns: []string{}}},
			Constraints: []ConstraintSchema{{Name: "CK_Gone", ConstraintType: "CHECK", Definition: "([Gone]>(0))", Columns: []string{}}},
			Triggers:    []TriggerSchema{{Name: "TR_Gone", TriggerType: "AFTER", IsEnabled: true}},
		},
	}
	target := []TableSchema{
		{SchemaName: "dbo", TableName: "Shared"},
		{SchemaName: "dbo", TableName: "OnlyInTarget"},
	}

	result := CompareSchemas(source, target)

	wantOrder := []string{
		DiffTableMissing,
		DiffTableExtra,
		DiffColumnMissing,
		DiffIndexMissing,
		DiffConstraintMissing,
		DiffTriggerMissing,
	}
	if len(result.Differences) != len(wantOrder) {
		t.Fatalf("expected %d differences, got %d: %+v", len(wantOrder), len(result.Differences), result.Differences)
	}
	for i, want := range wantOrder {
		if result.Differences[i].Type != want {
			t.Errorf("position %d: expected %s, got %s", i, want, result.Differences[i].Type)
		}
	}
}

func TestCompareSchemasIdempotence(t *testing.T) {
	source := []TableSchema{
		{SchemaName: "dbo", TableName: "A", Columns: []ColumnSchema{{Name: "X", DataType: "int"}, {Name: "Y", DataType: "bigint"}}},
		{SchemaName: "dbo", TableName: "B"},
	}
	target := []TableSchema{
		{SchemaName: "dbo", TableName: "A", Columns: []ColumnSchema{{Name: "X", DataType: "bigint"}}},
	}

	first := CompareSchemas(source, target)
	second := CompareSchemas(source, target)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("comparison is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCompareSchemasCountInvariant(t *testing.T) {
	source := []TableSchema{
		{SchemaName: "dbo", TableName: "A", Columns: []ColumnSchema{{Name: "X", DataType: "int"}}},
		{SchemaName: "dbo", TableName: "B"},
	}
	target := []TableSchema{
		{SchemaName: "dbo", TableName: "A"},
		{SchemaName: "dbo", TableName: "C"},
	}

	result := CompareSchemas(source, target)

	if result.TotalDifferences != len(result.Differences) {
		t.Errorf("totalDifferences %d != len(differences) %d", result.TotalDifferences, len(result.Differences))
	}
	if result.SchemaDifferences != len(result.Differences) {
		t.Errorf("schemaDifferences %d != len(differences) %d", result.SchemaDifferences, len(result.Differences))
	}
}

func TestCompareSchemasIndexSeverity(t *testing.T) {
	source := []TableSchema{{
		SchemaName: "dbo",
		TableName:  "Orders",
		Indexes: []IndexSchema{
			{Name: "PK_Orders", IndexType: "CLUSTERED", IsPrimaryKey: true, IsUnique: true, KeyColumns: []string{"Id"}, IncludedColumns: []string{}},
			{Name: "IX_Orders_Date", IndexType: "NONCLUSTERED", KeyColumns: []string{"OrderDate"}, IncludedColumns: []string{"Total"}},
		},
	}}
	target := []TableSchema{{SchemaName: "dbo", TableName: "Orders"}}

	result := CompareSchemas(source, target)

	if len(result.Differences) != 2 {
		t.Fatalf("expected 2 differences, got %d", len(result.Differences))
	}
	if result.Differences[0].Severity != SeverityHigh {
		t.Errorf("primary key index: expected severity %s, got %s", SeverityHigh, result.Differences[0].Severity)
	}
	if result.Differences[1].Severity != SeverityMedium {
		t.Errorf("secondary index: expected severity %s, got %s", SeverityMedium, result.Differences[1].Severity)
	}
	if want := "NONCLUSTERED on (OrderDate) include (Total)"; result.Differences[1].SourceValue != want {
		t.Errorf("expected sourceValue %q, got %q", want, result.Differences[1].SourceValue)
	}
}

func TestCompareSchemasConstraintAndTriggerSeverity(t *testing.T) {
	source := []TableSchema{{
		SchemaName:  "dbo",
		TableName:   "Orders",
		Constraints: []ConstraintSchema{{Name: "FK_Orders_Users", ConstraintType: "FOREIGN KEY", Columns: []string{"UserId"}, ReferencedTable: "dbo.Users"}},
		Triggers:    []TriggerSchema{{Name: "TR_Orders_Audit", TriggerType: "AFTER", IsEnabled: true}},
	}}
	target := []TableSchema{{SchemaName: "dbo", TableName: "Orders"}}

	result := CompareSchemas(source, target)

	if len(result.Differences) != 2 {
		t.Fatalf("expected 2 differences, got %d", len(result.Differences))
	}
	constraint := result.Differences[0]
	if constraint.Type != DiffConstraintMissing || constraint.Severity != SeverityHigh {
		t.Errorf("expected %s/%s, got %s/%s", DiffConstraintMissing, SeverityHigh, constraint.Type, constraint.Severity)
	}
	if constraint.SourceValue != "UserId" {
		t.Errorf("expected constraint sourceValue UserId, got %q", constraint.SourceValue)
	}
	trigger := result.Differences[1]
	if trigger.Type != DiffTriggerMissing || trigger.Severity != SeverityLow {
		t.Errorf("expected %s/%s, got %s/%s", DiffTriggerMissing, SeverityLow, trigger.Type, trigger.Severity)
	}
	if trigger.SourceValue != "AFTER, enabled" {
		t.Errorf("expected trigger sourceValue %q, got %q", "AFTER, enabled", trigger.SourceValue)
	}
}

func TestFormatColumnType(t *testing.T) {
	tests := []struct {
		name string
		col  ColumnSchema
		want string
	}{
		{
			name: "length-bearing type",
			col:  ColumnSchema{DataType: "nvarchar", MaxLength: int64Ptr(255)},
			want: "nvarchar(255)",
		},
		{
			name: "unbounded length",
			col:  ColumnSchema{DataType: "nvarchar", MaxLength: int64Ptr(-1)},
			want: "nvarchar(MAX)",
		},
		{
			name: "precision and scale",
			col:  ColumnSchema{DataType: "decimal", Precision: int64Ptr(10), Scale: int64Ptr(2)},
			want: "decimal(10,2)",
		},
		{
			name: "precision only",
			col:  ColumnSchema{DataType: "float", Precision: int64Ptr(53)},
			want: "float(53)",
		},
		{
			name: "bare type",
			col:  ColumnSchema{DataType: "datetime"},
			want: "datetime",
		},
		{
			name: "zero max length falls through to precision",
			col:  ColumnSchema{DataType: "int", MaxLength: int64Ptr(0), Precision: int64Ptr(10), Scale: int64Ptr(0)},
			want: "int(10,0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatColumnType(tt.col); got != tt.want {
				t.Errorf("formatColumnType() = %q, want %q", got, tt.want)
			}
		})
	}
}
