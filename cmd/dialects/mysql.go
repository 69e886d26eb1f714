package dialects

import "fmt"

// MySQL reads the MySQL/MariaDB catalog through information_schema. MySQL
// schemas are databases, so the catalog is filtered to the connected one.
type MySQL struct{}

func (m *MySQL) Name() string       { return "mysql" }
func (m *MySQL) DriverName() string { return "mysql" }

func (m *MySQL) DSN(host string, port int, user, password, dbname, sslMode string) string {
	tls := "preferred"
	if sslMode == "disable" {
		tls = "false"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=%s",
		user, password, host, port, dbname, tls)
}

func (m *MySQL) ProbeQuery() string { return "SELECT 1" }

func (m *MySQL) TablesQuery() string {
	return `SELECT
    table_schema AS schema_name,
    table_name AS table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE' AND table_schema = DATABASE()
ORDER BY table_schema, table_name`
}

func (m *MySQL) ColumnsQuery() string {
	return `SELECT
    c.table_schema AS schema_name,
    c.table_name AS table_name,
    c.column_name AS column_name,
    c.data_type AS data_type,
    c.character_maximum_length AS max_length,
    c.numeric_precision AS num_precision,
    c.numeric_scale AS num_scale,
    c.is_nullable AS is_nullable,
    c.column_default AS default_value,
    CASE WHEN c.extra LIKE '%auto_increment%' THEN 1 ELSE 0 END AS is_identity,
    CAST(0 AS signed) AS identity_seed,
    CASE WHEN c.extra LIKE '%auto_increment%' THEN 1 ELSE 0 END AS identity_increment,
    c.collation_name AS collation_name
FROM information_schema.columns c
JOIN information_schema.tables t
    ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE t.table_type = 'BASE TABLE' AND c.table_schema = DATABASE()
ORDER BY c.table_schema, c.table_name, c.ordinal_position`
}

func (m *MySQL) IndexesQuery() string {
	return `SELECT
    s.table_schema AS schema_name,
    s.table_name AS table_name,
    s.index_name AS index_name,
    s.index_type AS index_type,
    CASE WHEN MAX(s.non_unique) = 0 THEN 1 ELSE 0 END AS is_unique,
    CASE WHEN s.index_name = 'PRIMARY' THEN 1 ELSE 0 END AS is_primary_key,
    GROUP_CONCAT(s.column_name ORDER BY s.seq_in_index SEPARATOR ',') AS key_columns,
    CAST(NULL AS char) AS included_columns,
    CAST(NULL AS char) AS filter_definition
FROM information_schema.statistics s
JOIN information_schema.tables t
    ON t.table_schema = s.table_schema AND t.table_name = s.table_name
WHERE t.table_type = 'BASE TABLE' AND s.table_schema = DATABASE()
GROUP BY s.table_schema, s.table_name, s.index_name, s.index_type
ORDER BY s.table_schema, s.table_name, s.index_name`
}

func (m *MySQL) ConstraintsQuery() string {
	return `SELECT
    tc.table_schema AS schema_name,
    tc.table_name AS table_name,
    tc.constraint_name AS constraint_name,
    'CHECK' AS constraint_type,
    cc.check_clause AS definition,
    CAST(NULL AS char) AS column_names,
    CAST(NULL AS char) AS referenced_table,
    CAST(NULL AS char) AS referenced_columns
FROM information_schema.table_constraints tc
JOIN information_schema.check_constraints cc
    ON cc.constraint_schema = tc.constraint_schema
    AND cc.constraint_name = tc.constraint_name
WHERE tc.constraint_type = 'CHECK' AND tc.table_schema = DATABASE()
UNION ALL
SELECT
    kcu.table_schema AS schema_name,
    kcu.table_name AS table_name,
    kcu.constraint_name AS constraint_name,
    'FOREIGN KEY' AS constraint_type,
    CAST(NULL AS char) AS definition,
    GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position SEPARATOR ',') AS column_names,
    CONCAT(kcu.referenced_table_schema, '.', kcu.referenced_table_name) AS referenced_table,
    GROUP_CONCAT(kcu.referenced_column_name ORDER BY kcu.ordinal_position SEPARATOR ',') AS referenced_columns
FROM information_schema.key_column_usage kcu
WHERE kcu.referenced_table_name IS NOT NULL AND kcu.table_schema = DATABASE()
GROUP BY kcu.table_schema, kcu.table_name, kcu.constraint_name,
    kcu.referenced_table_schema, kcu.referenced_table_name
ORDER BY schema_name, table_name, constraint_name`
}

func (m *MySQL) TriggersQuery() string {
	return `SELECT
    trigger_schema AS schema_name,
    event_object_table AS table_name,
    trigger_name AS trigger_name,
    CONCAT(action_timing, ' ', event_manipulation) AS trigger_type,
    action_statement AS definition,
    1 AS is_enabled
FROM information_schema.triggers
WHERE trigger_schema = DATABASE()
ORDER BY trigger_schema, event_object_table, trigger_name`
}

func (m *MySQL) RowCountQueries() []RowCountQuery {
	return []RowCountQuery{
		{
			Tier: "partition-stats",
			SQL: `SELECT
    p.table_schema AS schema_name,
    p.table_name AS table_name,
    CAST(SUM(p.table_rows) AS signed) AS row_count
FROM information_schema.partitions p
JOIN information_schema.tables t
    ON t.table_schema = p.table_schema AND t.table_name = p.table_name
WHERE t.table_type = 'BASE TABLE' AND p.table_schema = DATABASE()
GROUP BY p.table_schema, p.table_name
ORDER BY p.table_schema, p.table_name`,
		},
		{
			Tier: "index-join",
			SQL: `SELECT
    table_schema AS schema_name,
    table_name AS table_name,
    CAST(COALESCE(table_rows, 0) AS signed) AS row_count
FROM information_schema.tables
WHERE table_type = 'BASE TABLE' AND table_schema = DATABASE()
ORDER BY table_schema, table_name`,
		},
		{
			Tier: "zero-filled",
			SQL: `SELECT
    table_schema AS schema_name,
    table_name AS table_name,
    CAST(0 AS signed) AS row_count
FROM information_schema.tables
WHERE table_type = 'BASE TABLE' AND table_schema = DATABASE()
ORDER BY table_schema, table_name`,
			ZeroFilled: true,
		},
	}
}
