package cmd

import (
	"fmt"
	"sort"
)

// CompareData compares per-table row counts between two snapshots and
// returns the differences sorted by severity, then by absolute row delta.
func CompareData(sourceCounts, targetCounts []TableRowCount) *DataComparisonResult {
	result := &DataComparisonResult{
		Differences: []DataDifference{},
	}

	targetByName := make(map[string]TableRowCount, len(targetCounts))
	for _, t := range targetCounts {
		targetByName[t.QualifiedName()] = t
		result.TargetTotalRows += t.RowCount
	}
	sourceByName := make(map[string]TableRowCount, len(sourceCounts))
	for _, s := range sourceCounts {
		sourceByName[s.QualifiedName()] = s
		result.SourceTotalRows += s.RowCount
	}

	for _, src := range sourceCounts {
		tgt, ok := targetByName[src.QualifiedName()]
		if !ok {
			severity := SeverityMedium
			if src.RowCount > 0 {
				severity = SeverityHigh
			}
			result.Differences = append(result.Differences, DataDifference{
				SchemaName:           src.SchemaName,
				TableName:            src.TableName,
				DifferenceType:       DataTableMissingInTarget,
				SourceRowCount:       src.RowCount,
				TargetRowCount:       0,
				Difference:           src.RowCount,
				PercentageDifference: 100,
				Description:          fmt.Sprintf("Table %s exists in source (%d rows) but not in target", src.QualifiedName(), src.RowCount),
				Severity:             severity,
			})
			continue
		}

		if diff, ok := compareRowCounts(src, tgt); ok {
			result.Differences = append(result.Differences, diff)
		}
	}

	for _, tgt := range targetCounts {
		if _, ok := sourceByName[tgt.QualifiedName()]; !ok {
			severity := SeverityMedium
			if tgt.RowCount > 0 {
				severity = SeverityHigh
			}
			result.Differences = append(result.Differences, DataDifference{
				SchemaName:           tgt.SchemaName,
				TableName:            tgt.TableName,
				DifferenceType:       DataTableMissingInSource,
				SourceRowCount:       0,
				TargetRowCount:       tgt.RowCount,
				Difference:           tgt.RowCount,
				PercentageDifference: 100,
				Description:          fmt.Sprintf("Table %s exists in target (%d rows) but not in source", tgt.QualifiedName(), tgt.RowCount),
				Severity:             severity,
			})
		}
	}

	sort.SliceStable(result.Differences, func(i, j int) bool {
		a, b := result.Differences[i], result.Differences[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		return a.Difference > b.Difference
	})

	result.TablesCompared = len(sourceCounts)
	if len(targetCounts) > result.TablesCompared {
		result.TablesCompared = len(targetCounts)
	}
	result.TotalDifferences = len(result.Differences)
	return result
}

// compareRowCounts classifies the divergence between two matched tables.
// Equal counts on both non-empty sides produce no difference.
func compareRowCounts(src, tgt TableRowCount) (DataDifference, bool) {
	if src.RowCount == tgt.RowCount && src.RowCount != 0 {
		return DataDifference{}, false
	}
	if src.RowCount == 0 && tgt.RowCount == 0 {
		return DataDifference{}, false
	}

	delta := src.RowCount - tgt.RowCount
	if delta < 0 {
		delta = -delta
	}
	pct := percentageDifference(src.RowCount, tgt.RowCount)

	diff := DataDifference{
		SchemaName:           src.SchemaName,
		TableName:            src.TableName,
		SourceRowCount:       src.RowCount,
		TargetRowCount:       tgt.RowCount,
		Difference:           delta,
		PercentageDifference: pct,
	}

	switch {
	case src.RowCount == 0 || tgt.RowCount == 0:
		diff.DifferenceType = DataEmptyTable
		diff.Severity = SeverityMedium
		diff.Description = fmt.Sprintf("Table %s is empty on one side (source: %d, target: %d)", src.QualifiedName(), src.RowCount, tgt.RowCount)
	case pct > 50:
		diff.DifferenceType = DataLargeDifference
		diff.Severity = SeverityHigh
		diff.Description = fmt.Sprintf("Table %s row counts differ by %.2f%% (source: %d, target: %d)", src.QualifiedName(), pct, src.RowCount, tgt.RowCount)
	case pct > 10:
		diff.DifferenceType = DataRowCountMismatch
		diff.Severity = SeverityMedium
		diff.Description = fmt.Sprintf("Table %s row counts differ by %.2f%% (source: %d, target: %d)", src.QualifiedName(), pct, src.RowCount, tgt.RowCount)
	default:
		diff.DifferenceType = DataRowCountMismatch
		diff.Severity = SeverityLow
		diff.Description = fmt.Sprintf("Table %s row counts differ by %.2f%% (source: %d, target: %d)", src.QualifiedName(), pct, src.RowCount, tgt.RowCount)
	}

	return diff, true
}

// percentageDifference is the absolute delta relative to the larger side.
func percentageDifference(src, tgt int64) float64 {
	if src == 0 && tgt == 0 {
		return 0
	}
	max := src
	if tgt > max {
		max = tgt
	}
	delta := src - tgt
	if delta < 0 {
		delta = -delta
	}
	return float64(delta) / float64(max) * 100
}
