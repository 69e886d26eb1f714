package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schemadrift/schemadrift/cmd/dialects"
)

// Static errors for better error handling
var (
	ErrSourceDialectRequired = errors.New("source database dialect is required")
	ErrTargetDialectRequired = errors.New("target database dialect is required")
	ErrSourceUserRequired    = errors.New("source database user is required")
	ErrTargetUserRequired    = errors.New("target database user is required")
	ErrSourceNameRequired    = errors.New("source database name is required")
	ErrTargetNameRequired    = errors.New("target database name is required")
	ErrInvalidPort           = errors.New("database port must be between 1 and 65535")
	ErrInvalidCompareMode    = errors.New("compare mode must be one of: schema-only, data-only, schema-and-data")
	ErrInvalidOutputFormat   = errors.New("output format must be one of: text, json")
	ErrKafkaTopicRequired    = errors.New("kafka topic is required when kafka brokers are configured")
	ErrKafkaBrokersRequired  = errors.New("kafka brokers are required when a kafka topic is configured")
	ErrConnectivity          = errors.New("database connectivity check failed")
)

// DatabaseConfig holds connection settings for one side of the comparison.
type DatabaseConfig struct {
	Dialect  string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// S3Config holds the settings used when the report is written to an s3:// URL.
type S3Config struct {
	Region   string
	Endpoint string
}

// KafkaConfig holds the optional result notification settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CompareConfig is the validated configuration for a single compare run.
type CompareConfig struct {
	Source       DatabaseConfig
	Target       DatabaseConfig
	CompareMode  string
	Tables       []string
	OutputFormat string
	OutputFile   string
	S3           S3Config
	Kafka        KafkaConfig
}

// Validate checks the configuration and returns the first problem found.
func (c *CompareConfig) Validate() error {
	if c.Source.Dialect == "" {
		return ErrSourceDialectRequired
	}
	if _, err := dialects.Get(c.Source.Dialect); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if c.Target.Dialect == "" {
		return ErrTargetDialectRequired
	}
	if _, err := dialects.Get(c.Target.Dialect); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if c.Source.User == "" {
		return ErrSourceUserRequired
	}
	if c.Target.User == "" {
		return ErrTargetUserRequired
	}
	if c.Source.Name == "" {
		return ErrSourceNameRequired
	}
	if c.Target.Name == "" {
		return ErrTargetNameRequired
	}
	if c.Source.Port < 1 || c.Source.Port > 65535 {
		return fmt.Errorf("source: %w", ErrInvalidPort)
	}
	if c.Target.Port < 1 || c.Target.Port > 65535 {
		return fmt.Errorf("target: %w", ErrInvalidPort)
	}

	switch c.CompareMode {
	case "schema-only", "data-only", "schema-and-data":
	default:
		return ErrInvalidCompareMode
	}

	switch c.OutputFormat {
	case "text", "json":
	default:
		return ErrInvalidOutputFormat
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return ErrKafkaTopicRequired
	}
	if c.Kafka.Topic != "" && len(c.Kafka.Brokers) == 0 {
		return ErrKafkaBrokersRequired
	}

	return nil
}

// maskString obscures sensitive values for display, keeping only a hint of
// the original so operators can recognize which credential was picked up.
func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 2 {
		return strings.Repeat("*", len(s))
	}
	return s[:1] + "***" + s[len(s)-1:]
}
