package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// comparisonSummary is the notification payload published after a run.
type comparisonSummary struct {
	SourceDatabase    string    `json:"sourceDatabase"`
	TargetDatabase    string    `json:"targetDatabase"`
	CompareMode       string    `json:"compareMode"`
	SchemaDifferences int       `json:"schemaDifferences"`
	DataDifferences   int       `json:"dataDifferences"`
	TotalDifferences  int       `json:"totalDifferences"`
	CompletedAt       time.Time `json:"completedAt"`
}

// publishSummary sends a one-message comparison summary to Kafka when
// brokers are configured. Best effort: failures are logged, never fatal.
func (c *Comparer) publishSummary(ctx context.Context, result *ComparisonResult) {
	if len(c.config.Kafka.Brokers) == 0 {
		return
	}

	summary := comparisonSummary{
		SourceDatabase:   c.config.Source.Name,
		TargetDatabase:   c.config.Target.Name,
		CompareMode:      c.config.CompareMode,
		TotalDifferences: result.TotalDifferences,
		CompletedAt:      time.Now().UTC(),
	}
	if result.Schema != nil {
		summary.SchemaDifferences = result.Schema.TotalDifferences
	}
	if result.Data != nil {
		summary.DataDifferences = result.Data.TotalDifferences
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("⚠️ Failed to marshal kafka summary: %v", err))
		return
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(c.config.Kafka.Brokers...),
		Topic:    c.config.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(c.config.Source.Name),
		Value: payload,
	})
	if err != nil {
		c.logger.Warn(fmt.Sprintf("⚠️ Failed to publish comparison summary to kafka: %v", err))
		return
	}

	c.logger.Info(fmt.Sprintf("📨 Comparison summary published to kafka topic %q", c.config.Kafka.Topic))
}
