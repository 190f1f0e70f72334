package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langner-srs/internal/database"
	"github.com/at-ishikawa/langner-srs/internal/datasync"
	"github.com/at-ishikawa/langner-srs/internal/srs"
)

func newExportCommand() *cobra.Command {
	var itemType string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export <user>",
		Short: "Export schedule records of a learner to YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL != "" {
				return errors.New("export reads the database directly and cannot be used with --server")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			exporter := datasync.NewExporter(srs.NewDBScheduleRepository(db))
			records, err := exporter.Export(cmd.Context(), args[0], itemType)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := datasync.NewYAMLScheduleSink(outputDir).WriteAll(records); err != nil {
				return fmt.Errorf("write schedule records: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d schedule records to %s\n", len(records), outputDir)
			return err
		},
	}
	cmd.Flags().StringVar(&itemType, "type", "", "item type; every type when empty")
	cmd.Flags().StringVar(&outputDir, "output", "./export", "output directory")
	return cmd
}

func newImportCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Register the items of catalog YAML files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogs, err := datasync.ReadCatalogs(args[0])
			if err != nil {
				return fmt.Errorf("read catalogs: %w", err)
			}

			reviewer, closeFn, err := newReviewer()
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(reviewer, out)
			opts := datasync.ImportOptions{DryRun: dryRun}
			result, err := importer.ImportCatalogs(cmd.Context(), catalogs, opts)
			if err != nil {
				return fmt.Errorf("import catalogs: %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, err = fmt.Fprintf(out, "  Items:  %d new, %d skipped\n", result.ItemsNew, result.ItemsSkipped)
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	return cmd
}
