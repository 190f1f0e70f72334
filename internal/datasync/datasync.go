// Package datasync provides import/export orchestration between YAML files and the schedule store.
package datasync

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/langner-srs/internal/review"
	"github.com/at-ishikawa/langner-srs/internal/srs"
)

// Catalog lists the items of one type a learner has encountered.
type Catalog struct {
	UserID   string   `yaml:"user_id"`
	ItemType string   `yaml:"item_type"`
	ItemIDs  []string `yaml:"item_ids"`
}

// ReadCatalogs reads a YAML list of catalogs.
func ReadCatalogs(path string) ([]Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var catalogs []Catalog
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&catalogs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("yaml.Decode(%s) > %w", path, err)
	}
	return catalogs, nil
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	ItemsNew     int
	ItemsSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer registers catalog items through a review.Reviewer.
type Importer struct {
	reviewer review.Reviewer
	writer   io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(reviewer review.Reviewer, writer io.Writer) *Importer {
	return &Importer{
		reviewer: reviewer,
		writer:   writer,
	}
}

// ImportCatalogs registers every item of catalogs that is not registered yet.
// Existing schedule records are never modified.
func (imp *Importer) ImportCatalogs(ctx context.Context, catalogs []Catalog, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	for _, catalog := range catalogs {
		for _, itemID := range catalog.ItemIDs {
			if err := imp.importItem(ctx, catalog.UserID, itemID, catalog.ItemType, opts, &result); err != nil {
				return nil, fmt.Errorf("importItem() > %w", err)
			}
		}
	}
	return &result, nil
}

func (imp *Importer) importItem(ctx context.Context, userID, itemID, itemType string, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.reviewer.GetItem(ctx, review.GetItemInput{
		UserID:   userID,
		ItemID:   itemID,
		ItemType: itemType,
	})
	if err != nil {
		return fmt.Errorf("GetItem(%s, %s, %s) > %w", userID, itemType, itemID, err)
	}
	if existing != nil {
		fmt.Fprintf(imp.writer, "  [SKIP]  %s %s/%s\n", userID, itemType, itemID)
		result.ItemsSkipped++
		return nil
	}

	if !opts.DryRun {
		if err := imp.reviewer.RegisterItem(ctx, review.RegisterItemInput{
			UserID:   userID,
			ItemID:   itemID,
			ItemType: itemType,
		}); err != nil {
			return fmt.Errorf("RegisterItem(%s, %s, %s) > %w", userID, itemType, itemID, err)
		}
	}
	fmt.Fprintf(imp.writer, "  [NEW]  %s %s/%s\n", userID, itemType, itemID)
	result.ItemsNew++
	return nil
}

// Exporter reads schedule records from the store.
type Exporter struct {
	repo srs.ScheduleRepository
}

// NewExporter creates a new Exporter.
func NewExporter(repo srs.ScheduleRepository) *Exporter {
	return &Exporter{repo: repo}
}

// Export reads the records of a user. An empty itemType exports every type.
func (e *Exporter) Export(ctx context.Context, userID, itemType string) ([]srs.ScheduleRecord, error) {
	records, err := e.repo.FindByUser(ctx, userID, itemType)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByUser(%s) > %w", userID, err)
	}
	return records, nil
}
