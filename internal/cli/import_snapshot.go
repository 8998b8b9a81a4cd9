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

// ImportSnapshotCommand restores the catalog from a JSON snapshot file.
type ImportSnapshotCommand struct {
	DatabasePath string
	InputPath    string
	Replace      bool
}

// NewImportSnapshotCommand creates a new ImportSnapshotCommand
func NewImportSnapshotCommand() *ImportSnapshotCommand {
	return &ImportSnapshotCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportSnapshotCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-snapshot", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.InputPath, "input", "", "Snapshot file to restore from (required)")
	fs.BoolVar(&cmd.Replace, "replace", false, "Wipe the catalog before restoring instead of merging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-snapshot [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Restore the catalog from a JSON snapshot file.\n\n")
		fmt.Fprintf(os.Stderr, "Without -replace, snapshot entries are merged into the existing\n")
		fmt.Fprintf(os.Stderr, "catalog: books get fresh ids, authors, genres and tags are matched\n")
		fmt.Fprintf(os.Stderr, "by name. With -replace the catalog is wiped first and ids are kept.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-snapshot -input backup.json -replace\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.InputPath == "" {
		return fmt.Errorf("-input is required")
	}
	return nil
}

// Run executes the import
func (cmd *ImportSnapshotCommand) Run() error {
	data, err := os.ReadFile(cmd.InputPath)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	snap, err := backup.Decode(data)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	db, err := database.New(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	repo := backup.NewRepository(db)
	if err := repo.Import(context.Background(), snap, cmd.Replace); err != nil {
		return fmt.Errorf("restore catalog: %w", err)
	}

	fmt.Printf("Imported %d books from %s\n", len(snap.Books), cmd.InputPath)
	return nil
}
