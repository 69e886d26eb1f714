package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/charmbracelet/lipgloss"

	"github.com/schemadrift/schemadrift/cmd/compressors"
)

var (
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	lowStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
)

// outputResults renders the report and writes it to the configured sink:
// stdout by default, a local file, or an s3:// URL. File and S3 payloads
// are compressed when the path ends in .gz or .zst.
func (c *Comparer) outputResults(result *ComparisonResult) error {
	var payload []byte

	switch c.config.OutputFormat {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		payload = append(data, '\n')
	default:
		payload = []byte(renderText(result))
	}

	dest := c.config.OutputFile
	if dest == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}

	compressor := compressors.ForPath(dest)
	compressed, err := compressor.Compress(payload, 0)
	if err != nil {
		return fmt.Errorf("failed to compress report: %w", err)
	}

	if strings.HasPrefix(dest, "s3://") {
		return c.uploadToS3(dest, compressed)
	}

	if err := os.WriteFile(dest, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	c.logger.Info(fmt.Sprintf("📝 Report written to %s", dest))
	return nil
}

// uploadToS3 writes the report payload to an s3://bucket/key destination.
func (c *Comparer) uploadToS3(dest string, payload []byte) error {
	trimmed := strings.TrimPrefix(dest, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid s3 destination: %s (expected s3://bucket/key)", dest)
	}
	bucket, key := parts[0], parts[1]

	awsConfig := &aws.Config{
		Region: aws.String(c.config.S3.Region),
	}
	if c.config.S3.Endpoint != "" {
		awsConfig.Endpoint = aws.String(c.config.S3.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	uploader := s3manager.NewUploader(sess)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report to s3: %w", err)
	}

	c.logger.Info(fmt.Sprintf("☁️ Report uploaded to s3://%s/%s", bucket, key))
	return nil
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case SeverityHigh:
		return highStyle
	case SeverityMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}

// renderText renders the human-readable styled report.
func renderText(result *ComparisonResult) string {
	var b strings.Builder
	rule := strings.Repeat("━", 60)

	b.WriteString(headerStyle.Render("Database Comparison Report"))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")

	if result.Schema != nil {
		b.WriteString(headerStyle.Render("Schema"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Source tables: %d\n", result.Schema.SourceTableCount)
		fmt.Fprintf(&b, "  Target tables: %d\n", result.Schema.TargetTableCount)
		fmt.Fprintf(&b, "  Differences:   %d\n", result.Schema.TotalDifferences)
		for _, d := range result.Schema.Differences {
			fmt.Fprintf(&b, "  %s %s %s: %s",
				severityStyle(d.Severity).Render(fmt.Sprintf("[%s]", d.Severity)),
				d.Type, d.ObjectName, d.Difference)
			if d.SourceValue != "" || d.TargetValue != "" {
				fmt.Fprintf(&b, " (source: %s, target: %s)", d.SourceValue, d.TargetValue)
			}
			b.WriteString("\n")
		}
		b.WriteString(rule)
		b.WriteString("\n")
	}

	if result.Data != nil {
		b.WriteString(headerStyle.Render("Data"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Source rows:     %d\n", result.Data.SourceTotalRows)
		fmt.Fprintf(&b, "  Target rows:     %d\n", result.Data.TargetTotalRows)
		fmt.Fprintf(&b, "  Tables compared: %d\n", result.Data.TablesCompared)
		fmt.Fprintf(&b, "  Differences:     %d\n", result.Data.TotalDifferences)
		for _, d := range result.Data.Differences {
			fmt.Fprintf(&b, "  %s %s %s.%s: %s\n",
				severityStyle(d.Severity).Render(fmt.Sprintf("[%s]", d.Severity)),
				d.DifferenceType, d.SchemaName, d.TableName, d.Description)
		}
		b.WriteString(rule)
		b.WriteString("\n")
	}

	if result.TotalDifferences == 0 {
		b.WriteString(infoStyle.Render("✅ No differences found"))
	} else {
		b.WriteString(highStyle.Render(fmt.Sprintf("Found %d difference(s)", result.TotalDifferences)))
	}
	b.WriteString("\n")

	return b.String()
}
