package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// Database owns the storage handle and the change notifier shared by all
// repositories. Construct one at startup and pass it down explicitly.
type Database struct {
	DB       *gorm.DB
	Notifier *Notifier
}

// New opens (or creates) the catalog database at dbPath and migrates the
// schema. Association tables are wired to explicit join models so the rest
// of the system can address association rows directly.
func New(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := setupJoinTables(db); err != nil {
		return nil, fmt.Errorf("failed to set up join tables: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Author{},
		&entities.Genre{},
		&entities.Tag{},
		&entities.BookLink{},
		&entities.AuthorLink{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db, Notifier: NewNotifier()}, nil
}

func setupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&entities.Book{}, "Authors", &entities.BookAuthor{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&entities.Book{}, "Genres", &entities.BookGenre{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&entities.Book{}, "Tags", &entities.BookTag{})
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
