package datasync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/langner-srs/internal/srs"
)

type exportScheduleRecord struct {
	UserID         string  `yaml:"user_id"`
	ItemID         string  `yaml:"item_id"`
	ItemType       string  `yaml:"item_type"`
	LastReviewedAt string  `yaml:"last_reviewed_at,omitempty"`
	NextReviewAt   string  `yaml:"next_review_at"`
	IntervalDays   float64 `yaml:"interval_days"`
	EaseFactor     float64 `yaml:"ease_factor"`
}

// YAMLScheduleSink writes schedule records to a YAML file.
type YAMLScheduleSink struct {
	outputDir string
}

// NewYAMLScheduleSink creates a new YAMLScheduleSink.
func NewYAMLScheduleSink(outputDir string) *YAMLScheduleSink {
	return &YAMLScheduleSink{outputDir: outputDir}
}

// WriteAll writes records to srs_items.yml.
func (s *YAMLScheduleSink) WriteAll(records []srs.ScheduleRecord) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportScheduleRecord, len(records))
	for i, r := range records {
		out[i] = exportScheduleRecord{
			UserID:       r.UserID,
			ItemID:       r.ItemID,
			ItemType:     r.ItemType,
			NextReviewAt: r.NextReviewAt.UTC().Format(time.RFC3339),
			IntervalDays: r.IntervalDays(),
			EaseFactor:   r.EaseFactor,
		}
		if r.LastReviewedAt != nil {
			out[i].LastReviewedAt = r.LastReviewedAt.UTC().Format(time.RFC3339)
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "srs_items.yml"), out); err != nil {
		return fmt.Errorf("write srs_items.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
