package cmd

import (
	"fmt"
	"strings"
)

type tablePair struct {
	source TableSchema
	target TableSchema
}

// CompareSchemas runs the five comparison passes (tables, columns, indexes,
// constraints, triggers) and returns every structural difference found.
// Differences appear in pass order; within a pass, in source catalog order.
func CompareSchemas(sourceTables, targetTables []TableSchema) *SchemaComparisonResult {
	result := &SchemaComparisonResult{
		SourceTableCount: len(sourceTables),
		TargetTableCount: len(targetTables),
		Differences:      []SchemaDifference{},
	}

	targetByName := make(map[string]TableSchema, len(targetTables))
	for _, t := range targetTables {
		targetByName[t.QualifiedName()] = t
	}
	sourceByName := make(map[string]TableSchema, len(sourceTables))
	for _, t := range sourceTables {
		sourceByName[t.QualifiedName()] = t
	}

	// Pass 1: table presence. Only tables present on both sides are
	// compared further.
	var matched []tablePair
	for _, src := range sourceTables {
		tgt, ok := targetByName[src.QualifiedName()]
		if !ok {
			result.Differences = append(result.Differences, SchemaDifference{
				Type:        DiffTableMissing,
				ObjectName:  src.QualifiedName(),
				Difference:  "Table exists in source but not in target",
				SourceValue: "exists",
				TargetValue: "missing",
				Severity:    SeverityHigh,
			})
			continue
		}
		matched = append(matched, tablePair{source: src, target: tgt})
	}
	for _, tgt := range targetTables {
		if _, ok := sourceByName[tgt.QualifiedName()]; !ok {
			result.Differences = append(result.Differences, SchemaDifference{
				Type:        DiffTableExtra,
				ObjectName:  tgt.QualifiedName(),
				Difference:  "Table exists in target but not in source",
				SourceValue: "missing",
				TargetValue: "exists",
				Severity:    SeverityMedium,
			})
		}
	}

	// Passes 2-5 walk the matched pairs only.
	for _, pair := range matched {
		result.Differences = append(result.Differences, compareColumns(pair)...)
	}
	for _, pair := range matched {
		result.Differences = append(result.Differences, compareIndexes(pair)...)
	}
	for _, pair := range matched {
		result.Differences = append(result.Differences, compareConstraints(pair)...)
	}
	for _, pair := range matched {
		result.Differences = append(result.Differences, compareTriggers(pair)...)
	}

	result.SchemaDifferences = len(result.Differences)
	result.TotalDifferences = len(result.Differences)
	return result
}

func compareColumns(pair tablePair) []SchemaDifference {
	var diffs []SchemaDifference
	table := pair.source.QualifiedName()

	targetCols := make(map[string]ColumnSchema, len(pair.target.Columns))
	for _, c := range pair.target.Columns {
		targetCols[c.Name] = c
	}
	sourceCols := make(map[string]ColumnSchema, len(pair.source.Columns))
	for _, c := range pair.source.Columns {
		sourceCols[c.Name] = c
	}

	for _, src := range pair.source.Columns {
		objectName := fmt.Sprintf("%s.%s", table, src.Name)

		tgt, ok := targetCols[src.Name]
		if !ok {
			diffs = append(diffs, SchemaDifference{
				Type:        DiffColumnMissing,
				ObjectName:  objectName,
				Difference:  "Column exists in source but not in target",
				SourceValue: formatColumnType(src),
				TargetValue: "missing",
				Severity:    SeverityHigh,
			})
			continue
		}

		srcType := formatColumnType(src)
		tgtType := formatColumnType(tgt)
		if srcType != tgtType {
			diffs = append(diffs, SchemaDifference{
				Type:        DiffColumnType,
				ObjectName:  objectName,
				Difference:  "Column data type differs",
				SourceValue: srcType,
				TargetValue: tgtType,
				Severity:    SeverityHigh,
			})
		}

		// Nullability divergence is reported separately from the type
		// string so a pure NULL/NOT NULL change is visible on its own.
		if src.IsNullable != tgt.IsNullable {
			diffs = append(diffs, SchemaDifference{
				Type:        DiffColumnType,
				ObjectName:  objectName,
				Difference:  "Column nullability differs",
				SourceValue: formatNullability(src.IsNullable),
				TargetValue: formatNullability(tgt.IsNullable),
				Severity:    SeverityMedium,
			})
		}
	}

	for _, tgt := range pair.target.Columns {
		if _, ok := sourceCols[tgt.Name]; !ok {
			diffs = append(diffs, SchemaDifference{
				Type:        DiffColumnExtra,
				ObjectName:  fmt.Sprintf("%s.%s", table, tgt.Name),
				Difference:  "Column exists in target but not in source",
				SourceValue: "missing",
				TargetValue: formatColumnType(tgt),
				Severity:    SeverityMedium,
			})
		}
	}

	return diffs
}

// compareIndexes reports source indexes absent from the target. Extra
// target indexes are not reported.
func compareIndexes(pair tablePair) []SchemaDifference {
	var diffs []SchemaDifference
	table := pair.source.QualifiedName()

	targetIdx := make(map[string]IndexSchema, len(pair.target.Indexes))
	for _, ix := range pair.target.Indexes {
		targetIdx[ix.Name] = ix
	}

	for _, src := range pair.source.Indexes {
		if _, ok := targetIdx[src.Name]; ok {
			continue
		}
		severity := SeverityMedium
		if src.IsPrimaryKey {
			severity = SeverityHigh
		}
		diffs = append(diffs, SchemaDifference{
			Type:        DiffIndexMissing,
			ObjectName:  fmt.Sprintf("%s.%s", table, src.Name),
			Difference:  "Index exists in source but not in target",
			SourceValue: formatIndex(src),
			TargetValue: "missing",
			Severity:    severity,
		})
	}

	return diffs
}

// compareConstraints reports source constraints absent from the target.
func compareConstraints(pair tablePair) []SchemaDifference {
	var diffs []SchemaDifference
	table := pair.source.QualifiedName()

	targetCons := make(map[string]ConstraintSchema, len(pair.target.Constraints))
	for _, c := range pair.target.Constraints {
		targetCons[c.Name] = c
	}

	for _, src := range pair.source.Constraints {
		if _, ok := targetCons[src.Name]; ok {
			continue
		}
		sourceValue := src.Definition
		if sourceValue == "" {
			sourceValue = strings.Join(src.Columns, ",")
		}
		diffs = append(diffs, SchemaDifference{
			Type:        DiffConstraintMissing,
			ObjectName:  fmt.Sprintf("%s.%s", table, src.Name),
			Difference:  fmt.Sprintf("%s constraint exists in source but not in target", src.ConstraintType),
			SourceValue: sourceValue,
			TargetValue: "missing",
			Severity:    SeverityHigh,
		})
	}

	return diffs
}

// compareTriggers reports source triggers absent from the target.
func compareTriggers(pair tablePair) []SchemaDifference {
	var diffs []SchemaDifference
	table := pair.source.QualifiedName()

	targetTrg := make(map[string]TriggerSchema, len(pair.target.Triggers))
	for _, t := range pair.target.Triggers {
		targetTrg[t.Name] = t
	}

	for _, src := range pair.source.Triggers {
		if _, ok := targetTrg[src.Name]; ok {
			continue
		}
		state := "disabled"
		if src.IsEnabled {
			state = "enabled"
		}
		diffs = append(diffs, SchemaDifference{
			Type:        DiffTriggerMissing,
			ObjectName:  fmt.Sprintf("%s.%s", table, src.Name),
			Difference:  "Trigger exists in source but not in target",
			SourceValue: fmt.Sprintf("%s, %s", src.TriggerType, state),
			TargetValue: "missing",
			Severity:    SeverityLow,
		})
	}

	return diffs
}

// formatColumnType renders a column's type for display and comparison:
// length-bearing types as type(n) with MAX for the unbounded marker,
// numeric types as type(precision[,scale]), everything else bare.
func formatColumnType(c ColumnSchema) string {
	if c.MaxLength != nil {
		if *c.MaxLength == -1 {
			return fmt.Sprintf("%s(MAX)", c.DataType)
		}
		if *c.MaxLength > 0 {
			return fmt.Sprintf("%s(%d)", c.DataType, *c.MaxLength)
		}
	}
	if c.Precision != nil && *c.Precision > 0 {
		if c.Scale != nil {
			return fmt.Sprintf("%s(%d,%d)", c.DataType, *c.Precision, *c.Scale)
		}
		return fmt.Sprintf("%s(%d)", c.DataType, *c.Precision)
	}
	return c.DataType
}

func formatNullability(isNullable bool) string {
	if isNullable {
		return "NULL"
	}
	return "NOT NULL"
}

func formatIndex(ix IndexSchema) string {
	desc := fmt.Sprintf("%s on (%s)", ix.IndexType, strings.Join(ix.KeyColumns, ","))
	if len(ix.IncludedColumns) > 0 {
		desc += fmt.Sprintf(" include (%s)", strings.Join(ix.IncludedColumns, ","))
	}
	return desc
}
