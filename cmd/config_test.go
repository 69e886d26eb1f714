package cmd

import (
	"errors"
	"testing"
)

func validCompareConfig() *CompareConfig {
	return &CompareConfig{
		Source: DatabaseConfig{
			Dialect: "mssql",
			Host:    "src.example.com",
			Port:    1433,
			User:    "reader",
			Name:    "production",
		},
		Target: DatabaseConfig{
			Dialect: "postgres",
			Host:    "tgt.example.com",
			Port:    5432,
			User:    "reader",
			Name:    "replica",
		},
		CompareMode:  "schema-and-data",
		OutputFormat: "text",
	}
}

func TestCompareConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CompareConfig)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(_ *CompareConfig) {},
		},
		{
			name:    "missing source dialect",
			mutate:  func(c *CompareConfig) { c.Source.Dialect = "" },
			wantErr: ErrSourceDialectRequired,
		},
		{
			name:    "missing target dialect",
			mutate:  func(c *CompareConfig) { c.Target.Dialect = "" },
			wantErr: ErrTargetDialectRequired,
		},
		{
			name:    "missing source user",
			mutate:  func(c *CompareConfig) { c.Source.User = "" },
			wantErr: ErrSourceUserRequired,
		},
		{
			name:    "missing target name",
			mutate:  func(c *CompareConfig) { c.Target.Name = "" },
			wantErr: ErrTargetNameRequired,
		},
		{
			name:    "source port too small",
			mutate:  func(c *CompareConfig) { c.Source.Port = 0 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "target port too large",
			mutate:  func(c *CompareConfig) { c.Target.Port = 70000 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "invalid compare mode",
			mutate:  func(c *CompareConfig) { c.CompareMode = "everything" },
			wantErr: ErrInvalidCompareMode,
		},
		{
			name:    "invalid output format",
			mutate:  func(c *CompareConfig) { c.OutputFormat = "yaml" },
			wantErr: ErrInvalidOutputFormat,
		},
		{
			name:    "kafka brokers without topic",
			mutate:  func(c *CompareConfig) { c.Kafka.Brokers = []string{"localhost:9092"} },
			wantErr: ErrKafkaTopicRequired,
		},
		{
			name:    "kafka topic without brokers",
			mutate:  func(c *CompareConfig) { c.Kafka.Topic = "drift" },
			wantErr: ErrKafkaBrokersRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validCompareConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCompareConfigValidateUnknownDialect(t *testing.T) {
	config := validCompareConfig()
	config.Source.Dialect = "oracle"

	err := config.Validate()
	if err == nil {
		t.Fatal("expected error for unknown dialect, got nil")
	}
}

func TestMaskString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"a", "*"},
		{"ab", "**"},
		{"abc", "a***c"},
		{"supersecret", "s***t"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := maskString(tt.input); got != tt.want {
				t.Errorf("maskString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
