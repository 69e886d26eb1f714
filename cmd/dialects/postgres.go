package dialects

import "fmt"

// Postgres reads the PostgreSQL catalog through information_schema and
// pg_catalog.
type Postgres struct{}

func (p *Postgres) Name() string       { return "postgres" }
func (p *Postgres) DriverName() string { return "postgres" }

func (p *Postgres) DSN(host string, port int, user, password, dbname, sslMode string) string {
	if sslMode == "" {
		sslMode = "prefer"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslMode)
}

func (p *Postgres) ProbeQuery() string { return "SELECT 1" }

func (p *Postgres) TablesQuery() string {
	return `SELECT
    table_schema AS schema_name,
    table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name`
}

func (p *Postgres) ColumnsQuery() string {
	return `SELECT
    c.table_schema AS schema_name,
    c.table_name,
    c.column_name,
    c.udt_name AS data_type,
    c.character_maximum_length AS max_length,
    c.numeric_precision AS num_precision,
    c.numeric_scale AS num_scale,
    c.is_nullable,
    c.column_default AS default_value,
    CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval(%' THEN 1 ELSE 0 END AS is_identity,
    COALESCE(c.identity_start::bigint, 0) AS identity_seed,
    COALESCE(c.identity_increment::bigint, 0) AS identity_increment,
    c.collation_name
FROM information_schema.columns c
JOIN information_schema.tables t
    ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE t.table_type = 'BASE TABLE'
  AND c.table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY c.table_schema, c.table_name, c.ordinal_position`
}

func (p *Postgres) IndexesQuery() string {
	return `SELECT
    ns.nspname AS schema_name,
    tc.relname AS table_name,
    ic.relname AS index_name,
    upper(am.amname) AS index_type,
    CASE WHEN ix.indisunique THEN 1 ELSE 0 END AS is_unique,
    CASE WHEN ix.indisprimary THEN 1 ELSE 0 END AS is_primary_key,
    (SELECT string_agg(a.attname, ',' ORDER BY k.ord)
        FROM unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
        JOIN pg_attribute a ON a.attrelid = tc.oid AND a.attnum = k.attnum
        WHERE k.ord <= ix.indnkeyatts) AS key_columns,
    (SELECT string_agg(a.attname, ',' ORDER BY k.ord)
        FROM unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
        JOIN pg_attribute a ON a.attrelid = tc.oid AND a.attnum = k.attnum
        WHERE k.ord > ix.indnkeyatts) AS included_columns,
    pg_get_expr(ix.indpred, ix.indrelid) AS filter_definition
FROM pg_index ix
JOIN pg_class ic ON ic.oid = ix.indexrelid
JOIN pg_class tc ON tc.oid = ix.indrelid
JOIN pg_namespace ns ON ns.oid = tc.relnamespace
JOIN pg_am am ON am.oid = ic.relam
WHERE tc.relkind = 'r'
  AND ns.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY ns.nspname, tc.relname, ic.relname`
}

func (p *Postgres) ConstraintsQuery() string {
	return `SELECT
    ns.nspname AS schema_name,
    tc.relname AS table_name,
    con.conname AS constraint_name,
    CASE con.contype WHEN 'c' THEN 'CHECK' ELSE 'FOREIGN KEY' END AS constraint_type,
    pg_get_constraintdef(con.oid) AS definition,
    (SELECT string_agg(a.attname, ',' ORDER BY k.ord)
        FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
        JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum) AS column_names,
    CASE WHEN con.contype = 'f'
        THEN (SELECT rns.nspname || '.' || rtc.relname
            FROM pg_class rtc
            JOIN pg_namespace rns ON rns.oid = rtc.relnamespace
            WHERE rtc.oid = con.confrelid)
    END AS referenced_table,
    (SELECT string_agg(a.attname, ',' ORDER BY k.ord)
        FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
        JOIN pg_attribute a ON a.attrelid = con.confrelid AND a.attnum = k.attnum) AS referenced_columns
FROM pg_constraint con
JOIN pg_class tc ON tc.oid = con.conrelid
JOIN pg_namespace ns ON ns.oid = tc.relnamespace
WHERE con.contype IN ('c', 'f')
  AND ns.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY ns.nspname, tc.relname, con.conname`
}

func (p *Postgres) TriggersQuery() string {
	return `SELECT
    ns.nspname AS schema_name,
    tc.relname AS table_name,
    tg.tgname AS trigger_name,
    CASE
        WHEN (tg.tgtype::int & 64) <> 0 THEN 'INSTEAD OF'
        WHEN (tg.tgtype::int & 2) <> 0 THEN 'BEFORE'
        ELSE 'AFTER'
    END AS trigger_type,
    pg_get_triggerdef(tg.oid) AS definition,
    CASE WHEN tg.tgenabled = 'D' THEN 0 ELSE 1 END AS is_enabled
FROM pg_trigger tg
JOIN pg_class tc ON tc.oid = tg.tgrelid
JOIN pg_namespace ns ON ns.oid = tc.relnamespace
WHERE NOT tg.tgisinternal
  AND ns.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY ns.nspname, tc.relname, tg.tgname`
}

func (p *Postgres) RowCountQueries() []RowCountQuery {
	return []RowCountQuery{
		{
			Tier: "partition-stats",
			SQL: `SELECT
    schemaname AS schema_name,
    relname AS table_name,
    n_live_tup AS row_count
FROM pg_stat_user_tables
ORDER BY schemaname, relname`,
		},
		{
			Tier: "index-join",
			SQL: `SELECT
    ns.nspname AS schema_name,
    c.relname AS table_name,
    GREATEST(c.reltuples::bigint, 0) AS row_count
FROM pg_class c
JOIN pg_namespace ns ON ns.oid = c.relnamespace
WHERE c.relkind = 'r'
  AND ns.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY ns.nspname, c.relname`,
		},
		{
			Tier: "zero-filled",
			SQL: `SELECT
    table_schema AS schema_name,
    table_name,
    0::bigint AS row_count
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name`,
			ZeroFilled: true,
		},
	}
}
