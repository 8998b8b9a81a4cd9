package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shelfkeeper/shelfkeeper/internal/backup"
	"github.com/shelfkeeper/shelfkeeper/internal/config"
	"github.com/shelfkeeper/shelfkeeper/internal/database"
)

// ExportSnapshotCommand writes a full catalog snapshot to a JSON file.
type ExportSnapshotCommand struct {
	DatabasePath string
	OutputPath   string
}

// NewExportSnapshotCommand creates a new ExportSnapshotCommand
func NewExportSnapshotCommand() *ExportSnapshotCommand {
	return &ExportSnapshotCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportSnapshotCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-snapshot", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output file path (defaults to a timestamped file in the current directory)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-snapshot [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the whole catalog to a JSON snapshot file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export-snapshot -output backup.json\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the export
func (cmd *ExportSnapshotCommand) Run() error {
	db, err := database.New(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repo := backup.NewRepository(db)
	snap, err := repo.Export(context.Background())
	if err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}

	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	path := cmd.OutputPath
	if path == "" {
		path = backup.SnapshotFilename(".")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	fmt.Printf("Exported %d books to %s\n", len(snap.Books), path)
	return nil
}
