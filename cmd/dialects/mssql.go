package dialects

import (
	"fmt"
	"net/url"
)

// MSSQL reads the SQL Server catalog through the sys.* views.
type MSSQL struct{}

func (m *MSSQL) Name() string       { return "mssql" }
func (m *MSSQL) DriverName() string { return "sqlserver" }

func (m *MSSQL) DSN(host string, port int, user, password, dbname, sslMode string) string {
	query := url.Values{}
	query.Set("database", dbname)
	if sslMode == "disable" {
		query.Set("encrypt", "disable")
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (m *MSSQL) ProbeQuery() string { return "SELECT 1" }

func (m *MSSQL) TablesQuery() string {
	return `SELECT
    s.name AS schema_name,
    t.name AS table_name
FROM sys.tables t
JOIN sys.schemas s ON s.schema_id = t.schema_id
WHERE t.is_ms_shipped = 0
ORDER BY s.name, t.name`
}

func (m *MSSQL) ColumnsQuery() string {
	return `SELECT
    s.name AS schema_name,
    t.name AS table_name,
    c.name AS column_name,
    ty.name AS data_type,
    CASE
        WHEN ty.name IN ('nvarchar', 'nchar') AND c.max_length > 0 THEN CAST(c.max_length / 2 AS int)
        ELSE CAST(c.max_length AS int)
    END AS max_length,
    CAST(c.precision AS int) AS num_precision,
    CAST(c.scale AS int) AS num_scale,
    CASE WHEN c.is_nullable = 1 THEN 'YES' ELSE 'NO' END AS is_nullable,
    dc.definition AS default_value,
    CAST(c.is_identity AS int) AS is_identity,
    CAST(ISNULL(ic.seed_value, 0) AS bigint) AS identity_seed,
    CAST(ISNULL(ic.increment_value, 0) AS bigint) AS identity_increment,
    c.collation_name
FROM sys.columns c
JOIN sys.tables t ON t.object_id = c.object_id
JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.types ty ON ty.user_type_id = c.user_type_id
LEFT JOIN sys.default_constraints dc ON dc.object_id = c.default_object_id
LEFT JOIN sys.identity_columns ic ON ic.object_id = c.object_id AND ic.column_id = c.column_id
WHERE t.is_ms_shipped = 0
ORDER BY s.name, t.name, c.column_id`
}

func (m *MSSQL) IndexesQuery() string {
	// type > 0 excludes heaps.
	return `SELECT
    s.name AS schema_name,
    t.name AS table_name,
    i.name AS index_name,
    i.type_desc AS index_type,
    CAST(i.is_unique AS int) AS is_unique,
    CAST(i.is_primary_key AS int) AS is_primary_key,
    STRING_AGG(CASE WHEN ic.is_included_column = 0 THEN c.name END, ',')
        WITHIN GROUP (ORDER BY ic.key_ordinal) AS key_columns,
    STRING_AGG(CASE WHEN ic.is_included_column = 1 THEN c.name END, ',')
        WITHIN GROUP (ORDER BY ic.index_column_id) AS included_columns,
    i.filter_definition
FROM sys.indexes i
JOIN sys.tables t ON t.object_id = i.object_id
JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
WHERE t.is_ms_shipped = 0 AND i.type > 0
GROUP BY s.name, t.name, i.name, i.type_desc, i.is_unique, i.is_primary_key, i.filter_definition
ORDER BY s.name, t.name, i.name`
}

func (m *MSSQL) ConstraintsQuery() string {
	return `SELECT
    s.name AS schema_name,
    t.name AS table_name,
    cc.name AS constraint_name,
    'CHECK' AS constraint_type,
    cc.definition AS definition,
    CAST(NULL AS nvarchar(max)) AS column_names,
    CAST(NULL AS nvarchar(256)) AS referenced_table,
    CAST(NULL AS nvarchar(max)) AS referenced_columns
FROM sys.check_constraints cc
JOIN sys.tables t ON t.object_id = cc.parent_object_id
JOIN sys.schemas s ON s.schema_id = t.schema_id
WHERE t.is_ms_shipped = 0
UNION ALL
SELECT
    s.name AS schema_name,
    t.name AS table_name,
    fk.name AS constraint_name,
    'FOREIGN KEY' AS constraint_type,
    CAST(NULL AS nvarchar(max)) AS definition,
    (SELECT STRING_AGG(pc.name, ',') WITHIN GROUP (ORDER BY fkc.constraint_column_id)
        FROM sys.foreign_key_columns fkc
        JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
        WHERE fkc.constraint_object_id = fk.object_id) AS column_names,
    rs.name + '.' + rt.name AS referenced_table,
    (SELECT STRING_AGG(rc.name, ',') WITHIN GROUP (ORDER BY fkc.constraint_column_id)
        FROM sys.foreign_key_columns fkc
        JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
        WHERE fkc.constraint_object_id = fk.object_id) AS referenced_columns
FROM sys.foreign_keys fk
JOIN sys.tables t ON t.object_id = fk.parent_object_id
JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.tables rt ON rt.object_id = fk.referenced_object_id
JOIN sys.schemas rs ON rs.schema_id = rt.schema_id
WHERE t.is_ms_shipped = 0
ORDER BY schema_name, table_name, constraint_name`
}

func (m *MSSQL) TriggersQuery() string {
	return `SELECT
    s.name AS schema_name,
    t.name AS table_name,
    tr.name AS trigger_name,
    CASE WHEN tr.is_instead_of_trigger = 1 THEN 'INSTEAD OF' ELSE 'AFTER' END AS trigger_type,
    sm.definition AS definition,
    CASE WHEN tr.is_disabled = 1 THEN 0 ELSE 1 END AS is_enabled
FROM sys.triggers tr
JOIN sys.tables t ON t.object_id = tr.parent_id
JOIN sys.schemas s ON s.schema_id = t.schema_id
LEFT JOIN sys.sql_modules sm ON sm.object_id = tr.object_id
WHERE t.is_ms_shipped = 0 AND tr.is_ms_shipped = 0
ORDER BY s.name, t.name, tr.name`
}

func (m *MSSQL) RowCountQueries() []RowCountQuery {
	return []RowCountQuery{
		{
			Tier: "partition-stats",
			SQL: `SELECT
    s.name AS schema_name,
    t.name AS table_name,
    SUM(p.rows) AS row_count
FROM sys.tables t
JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.partitions p ON p.object_id = t.object_id
WHERE t.is_ms_shipped = 0 AND p.index_id IN (0, 1)
GROUP BY s.name, t.name
ORDER BY s.name, t.name`,
		},
		{
			Tier: "index-join",
			SQL: `SELECT
    s.name AS schema_name,
    t.name AS table_name,
    SUM(p.rows) AS row_count
FROM sys.tables t
JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.indexes i ON i.object_id = t.object_id AND i.index_id < 2
JOIN sys.partitions p ON p.object_id = i.object_id AND p.index_id = i.index_id
WHERE t.is_ms_shipped = 0
GROUP BY s.name, t.name
ORDER BY s.name, t.name`,
		},
		{
			Tier: "zero-filled",
			SQL: `SELECT
    TABLE_SCHEMA AS schema_name,
    TABLE_NAME AS table_name,
    CAST(0 AS bigint) AS row_count
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_SCHEMA, TABLE_NAME`,
			ZeroFilled: true,
		},
	}
}
