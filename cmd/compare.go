package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/schemadrift/schemadrift/cmd/dialects"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "🔍 Compare two databases and report schema and row-count drift",
	Long: `Connects to a source and a target database, extracts their catalogs
(tables, columns, indexes, constraints, triggers) and per-table row counts,
and reports every divergence with a severity (High, Medium, Low).

Both databases are read-only to this tool: only catalog and statistics
queries are issued, never DML or DDL.

Exit codes: 0 when the databases match, 2 when differences were found,
1 on a fatal error.`,
	Run: func(cmd *cobra.Command, _ []string) {
		initLogger(viper.GetBool("debug"), viper.GetString("log_format"))

		config, err := buildCompareConfig(cmd)
		if err != nil {
			logger.Error(fmt.Sprintf("❌ Invalid configuration: %v", err))
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		comparer := NewComparer(config, logger)
		result, err := comparer.Run(ctx)
		if err != nil {
			logger.Error(fmt.Sprintf("❌ Comparison failed: %v", err))
			os.Exit(1)
		}

		if result.TotalDifferences > 0 {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("source-dialect", "", "source database dialect (mssql, postgres, mysql)")
	compareCmd.Flags().String("source-db-host", "localhost", "source database host")
	compareCmd.Flags().Int("source-db-port", 0, "source database port (default: dialect standard port)")
	compareCmd.Flags().String("source-db-user", "", "source database user")
	compareCmd.Flags().String("source-db-password", "", "source database password")
	compareCmd.Flags().String("source-db-name", "", "source database name")
	compareCmd.Flags().String("source-sslmode", "", "source connection TLS mode")

	compareCmd.Flags().String("target-dialect", "", "target database dialect (mssql, postgres, mysql)")
	compareCmd.Flags().String("target-db-host", "localhost", "target database host")
	compareCmd.Flags().Int("target-db-port", 0, "target database port (default: dialect standard port)")
	compareCmd.Flags().String("target-db-user", "", "target database user")
	compareCmd.Flags().String("target-db-password", "", "target database password")
	compareCmd.Flags().String("target-db-name", "", "target database name")
	compareCmd.Flags().String("target-sslmode", "", "target connection TLS mode")

	compareCmd.Flags().String("compare-mode", "schema-and-data", "what to compare (schema-only, data-only, schema-and-data)")
	compareCmd.Flags().String("tables", "", "comma-separated list of schema-qualified tables to compare (default: all)")
	compareCmd.Flags().String("output-format", "text", "report format (text, json)")
	compareCmd.Flags().String("output-file", "", "write the report to a file or s3:// URL instead of stdout (.gz/.zst compressed by extension)")

	compareCmd.Flags().String("s3-region", "us-east-1", "AWS region for s3:// report destinations")
	compareCmd.Flags().String("s3-endpoint", "", "custom S3 endpoint (for S3-compatible stores)")

	compareCmd.Flags().String("kafka-brokers", "", "comma-separated Kafka brokers for result notification")
	compareCmd.Flags().String("kafka-topic", "", "Kafka topic for result notification")

	_ = viper.BindPFlags(compareCmd.Flags())
}

// getStringConfig returns the flag value when explicitly set, otherwise the
// viper value (config file or environment), otherwise the flag default.
func getStringConfig(cmd *cobra.Command, key string) string {
	if cmd.Flags().Changed(key) {
		value, _ := cmd.Flags().GetString(key)
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	value, _ := cmd.Flags().GetString(key)
	return value
}

func getIntConfig(cmd *cobra.Command, key string) int {
	if cmd.Flags().Changed(key) {
		value, _ := cmd.Flags().GetInt(key)
		return value
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	value, _ := cmd.Flags().GetInt(key)
	return value
}

func defaultPort(dialect string) int {
	switch dialect {
	case "mssql":
		return 1433
	case "mysql":
		return 3306
	default:
		return 5432
	}
}

func buildCompareConfig(cmd *cobra.Command) (*CompareConfig, error) {
	config := &CompareConfig{
		Source: DatabaseConfig{
			Dialect:  getStringConfig(cmd, "source-dialect"),
			Host:     getStringConfig(cmd, "source-db-host"),
			Port:     getIntConfig(cmd, "source-db-port"),
			User:     getStringConfig(cmd, "source-db-user"),
			Password: getStringConfig(cmd, "source-db-password"),
			Name:     getStringConfig(cmd, "source-db-name"),
			SSLMode:  getStringConfig(cmd, "source-sslmode"),
		},
		Target: DatabaseConfig{
			Dialect:  getStringConfig(cmd, "target-dialect"),
			Host:     getStringConfig(cmd, "target-db-host"),
			Port:     getIntConfig(cmd, "target-db-port"),
			User:     getStringConfig(cmd, "target-db-user"),
			Password: getStringConfig(cmd, "target-db-password"),
			Name:     getStringConfig(cmd, "target-db-name"),
			SSLMode:  getStringConfig(cmd, "target-sslmode"),
		},
		CompareMode:  getStringConfig(cmd, "compare-mode"),
		OutputFormat: getStringConfig(cmd, "output-format"),
		OutputFile:   getStringConfig(cmd, "output-file"),
		S3: S3Config{
			Region:   getStringConfig(cmd, "s3-region"),
			Endpoint: getStringConfig(cmd, "s3-endpoint"),
		},
	}

	if tables := getStringConfig(cmd, "tables"); tables != "" {
		for _, t := range strings.Split(tables, ",") {
			if t = strings.TrimSpace(t); t != "" {
				config.Tables = append(config.Tables, t)
			}
		}
	}
	if brokers := getStringConfig(cmd, "kafka-brokers"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				config.Kafka.Brokers = append(config.Kafka.Brokers, b)
			}
		}
	}
	config.Kafka.Topic = getStringConfig(cmd, "kafka-topic")

	if config.Source.Port == 0 {
		config.Source.Port = defaultPort(config.Source.Dialect)
	}
	if config.Target.Port == 0 {
		config.Target.Port = defaultPort(config.Target.Dialect)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Comparer orchestrates one comparison run. It owns both connections for
// the duration of the run and closes them on every path.
type Comparer struct {
	config *CompareConfig
	logger *slog.Logger

	sourceDB      *sqlx.DB
	targetDB      *sqlx.DB
	sourceDialect dialects.Dialect
	targetDialect dialects.Dialect
}

func NewComparer(config *CompareConfig, logger *slog.Logger) *Comparer {
	return &Comparer{
		config: config,
		logger: logger,
	}
}

// Run connects, probes, compares and writes the report. Schema and data are
// independent failure domains: a failure in one still emits the other's
// result before the joined error is returned.
func (c *Comparer) Run(ctx context.Context) (*ComparisonResult, error) {
	c.printConfig()

	if err := c.connect(); err != nil {
		return nil, err
	}
	defer c.cleanup()

	if err := c.probe(ctx); err != nil {
		return nil, err
	}

	result := &ComparisonResult{}
	var errs []error

	if c.config.CompareMode == "schema-only" || c.config.CompareMode == "schema-and-data" {
		schemaResult, err := c.compareSchemas(ctx)
		if err != nil {
			c.logger.Error(fmt.Sprintf("❌ Schema comparison failed: %v", err))
			errs = append(errs, fmt.Errorf("schema comparison: %w", err))
		} else {
			result.Schema = schemaResult
			result.TotalDifferences += schemaResult.TotalDifferences
		}
	}

	if c.config.CompareMode == "data-only" || c.config.CompareMode == "schema-and-data" {
		dataResult, err := c.compareData(ctx)
		if err != nil {
			c.logger.Error(fmt.Sprintf("❌ Data comparison failed: %v", err))
			errs = append(errs, fmt.Errorf("data comparison: %w", err))
		} else {
			result.Data = dataResult
			result.TotalDifferences += dataResult.TotalDifferences
		}
	}

	if result.Schema != nil || result.Data != nil {
		if err := c.outputResults(result); err != nil {
			errs = append(errs, fmt.Errorf("output: %w", err))
		}
		c.publishSummary(ctx, result)
	}

	if len(errs) > 0 {
		return result, errors.Join(errs...)
	}
	return result, nil
}

func (c *Comparer) printConfig() {
	c.logger.Info(infoStyle.Render("🔍 Comparison configuration:"))
	c.logger.Info(fmt.Sprintf("  Source: %s://%s@%s:%d/%s",
		c.config.Source.Dialect, maskString(c.config.Source.User),
		c.config.Source.Host, c.config.Source.Port, c.config.Source.Name))
	c.logger.Info(fmt.Sprintf("  Target: %s://%s@%s:%d/%s",
		c.config.Target.Dialect, maskString(c.config.Target.User),
		c.config.Target.Host, c.config.Target.Port, c.config.Target.Name))
	c.logger.Info(fmt.Sprintf("  Mode: %s, format: %s", c.config.CompareMode, c.config.OutputFormat))
	if len(c.config.Tables) > 0 {
		c.logger.Info(fmt.Sprintf("  Tables: %s", strings.Join(c.config.Tables, ", ")))
	}
}

func (c *Comparer) connect() error {
	var err error

	c.sourceDialect, err = dialects.Get(c.config.Source.Dialect)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	c.targetDialect, err = dialects.Get(c.config.Target.Dialect)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	c.sourceDB, err = c.open(c.sourceDialect, c.config.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	c.targetDB, err = c.open(c.targetDialect, c.config.Target)
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}

	return nil
}

func (c *Comparer) open(dialect dialects.Dialect, cfg DatabaseConfig) (*sqlx.DB, error) {
	dsn := dialect.DSN(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	db, err := sqlx.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	return db, nil
}

// probe verifies both connections with the dialect's trivial query before
// any extraction starts, naming the failing side.
func (c *Comparer) probe(ctx context.Context) error {
	var one int
	if err := c.sourceDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: source: %v", ErrConnectivity, err)
	}
	if err := c.sourceDB.GetContext(ctx, &one, c.sourceDialect.ProbeQuery()); err != nil {
		return fmt.Errorf("%w: source: %v", ErrConnectivity, err)
	}
	if err := c.targetDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: target: %v", ErrConnectivity, err)
	}
	if err := c.targetDB.GetContext(ctx, &one, c.targetDialect.ProbeQuery()); err != nil {
		return fmt.Errorf("%w: target: %v", ErrConnectivity, err)
	}
	c.logger.Debug("✅ Both databases reachable")
	return nil
}

func (c *Comparer) compareSchemas(ctx context.Context) (*SchemaComparisonResult, error) {
	c.logger.Info("📋 Extracting source schema...")
	sourceCat, err := NewExtractor(c.sourceDB, c.sourceDialect, c.logger).ExtractCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	c.logger.Info("📋 Extracting target schema...")
	targetCat, err := NewExtractor(c.targetDB, c.targetDialect, c.logger).ExtractCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	sourceTables := filterTables(assembleTables(sourceCat), c.config.Tables)
	targetTables := filterTables(assembleTables(targetCat), c.config.Tables)

	c.logger.Info(fmt.Sprintf("🔍 Comparing schemas (%d source tables, %d target tables)", len(sourceTables), len(targetTables)))
	return CompareSchemas(sourceTables, targetTables), nil
}

func (c *Comparer) compareData(ctx context.Context) (*DataComparisonResult, error) {
	c.logger.Info("📊 Extracting source row counts...")
	sourceSnap, err := NewExtractor(c.sourceDB, c.sourceDialect, c.logger).ExtractRowCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	c.warnDegraded("source", sourceSnap)

	c.logger.Info("📊 Extracting target row counts...")
	targetSnap, err := NewExtractor(c.targetDB, c.targetDialect, c.logger).ExtractRowCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	c.warnDegraded("target", targetSnap)

	sourceCounts := filterCounts(sourceSnap.Counts, c.config.Tables)
	targetCounts := filterCounts(targetSnap.Counts, c.config.Tables)

	c.logger.Info(fmt.Sprintf("🔍 Comparing row counts (%d source tables, %d target tables)", len(sourceCounts), len(targetCounts)))
	return CompareData(sourceCounts, targetCounts), nil
}

func (c *Comparer) warnDegraded(side string, snap *RowCountSnapshot) {
	if snap.ZeroFilled {
		c.logger.Warn(fmt.Sprintf("⚠️ %s row counts are zero-filled (tier %q): no statistics source was readable, counts are placeholders", side, snap.Tier))
		return
	}
	if snap.Degraded {
		c.logger.Warn(fmt.Sprintf("⚠️ %s row counts came from fallback tier %q; figures may be approximate", side, snap.Tier))
	}
}

// filterTables keeps only the requested schema-qualified tables; an empty
// filter keeps everything.
func filterTables(tables []TableSchema, filter []string) []TableSchema {
	if len(filter) == 0 {
		return tables
	}
	wanted := make(map[string]bool, len(filter))
	for _, f := range filter {
		wanted[f] = true
	}
	out := make([]TableSchema, 0, len(tables))
	for _, t := range tables {
		if wanted[t.QualifiedName()] {
			out = append(out, t)
		}
	}
	return out
}

func filterCounts(counts []TableRowCount, filter []string) []TableRowCount {
	if len(filter) == 0 {
		return counts
	}
	wanted := make(map[string]bool, len(filter))
	for _, f := range filter {
		wanted[f] = true
	}
	out := make([]TableRowCount, 0, len(counts))
	for _, t := range counts {
		if wanted[t.QualifiedName()] {
			out = append(out, t)
		}
	}
	return out
}

func (c *Comparer) cleanup() {
	if c.sourceDB != nil {
		if err := c.sourceDB.Close(); err != nil {
			c.logger.Warn(fmt.Sprintf("⚠️ Failed to close source connection: %v", err))
		}
	}
	if c.targetDB != nil {
		if err := c.targetDB.Close(); err != nil {
			c.logger.Warn(fmt.Sprintf("⚠️ Failed to close target connection: %v", err))
		}
	}
}
