package backup

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/database/authors"
	"github.com/shelfkeeper/shelfkeeper/internal/database/genres"
	"github.com/shelfkeeper/shelfkeeper/internal/database/tags"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// Repository serializes the catalog into snapshots and restores catalogs
// from them.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB, notifier: db.Notifier}
}

// Export reads the complete catalog into a snapshot. Entity rows are read
// bare; associations appear only as flat pairs under relationships.
func (r *Repository) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
	}

	db := r.db.WithContext(ctx)
	collect := func(dest any) error {
		return db.Find(dest).Error
	}

	for _, step := range []func() error{
		func() error { return collect(&snap.Books) },
		func() error { return collect(&snap.Authors) },
		func() error { return collect(&snap.Genres) },
		func() error { return collect(&snap.Tags) },
		func() error { return collect(&snap.BookLinks) },
		func() error { return collect(&snap.AuthorLinks) },
		func() error { return collect(&snap.Relationships.BookAuthors) },
		func() error { return collect(&snap.Relationships.BookGenres) },
		func() error { return collect(&snap.Relationships.BookTags) },
	} {
		if err := step(); err != nil {
			return nil, database.Translate("backup.Export", err)
		}
	}

	return snap, nil
}

// Import restores a catalog from a snapshot in one transaction. With
// replace=true the existing contents are cleared in dependency order and
// snapshot rows are reinserted verbatim, original ids included. With
// replace=false rows are added alongside existing data: every snapshot id
// is remapped to a fresh id (authors/genres/tags merge onto existing rows by
// name), so pre-existing rows are never touched. Any failure rolls the whole
// restore back and surfaces as ImportError.
func (r *Repository) Import(ctx context.Context, snap *Snapshot, replace bool) error {
	if err := snap.validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace {
			if err := clearAll(tx); err != nil {
				return err
			}
			return restoreVerbatim(tx, snap)
		}
		return restoreRemapped(tx, snap)
	})
	if err != nil {
		return &ImportError{Reason: "restore transaction failed", Err: err}
	}

	r.notifier.Broadcast()
	return nil
}

// clearAll empties every table, children before parents, so the restore
// works even though the engine is not trusted to cascade.
func clearAll(tx *gorm.DB) error {
	for _, table := range []string{
		"book_authors",
		"book_genres",
		"book_tags",
		"book_links",
		"author_links",
		"books",
		"authors",
		"genres",
		"tags",
	} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func restoreVerbatim(tx *gorm.DB, snap *Snapshot) error {
	if err := upsert(tx, &snap.Books, len(snap.Books)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.Authors, len(snap.Authors)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.Genres, len(snap.Genres)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.Tags, len(snap.Tags)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.BookLinks, len(snap.BookLinks)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.AuthorLinks, len(snap.AuthorLinks)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.Relationships.BookAuthors, len(snap.Relationships.BookAuthors)); err != nil {
		return err
	}
	if err := upsert(tx, &snap.Relationships.BookGenres, len(snap.Relationships.BookGenres)); err != nil {
		return err
	}
	return upsert(tx, &snap.Relationships.BookTags, len(snap.Relationships.BookTags))
}

// upsert batch-inserts rows keeping their original ids, overwriting on id
// collision rather than duplicating.
func upsert(tx *gorm.DB, rows any, count int) error {
	if count == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit(clause.Associations).Create(rows).Error
}

// restoreRemapped inserts snapshot rows additively. Books and links always
// get fresh ids; authors, genres, and tags resolve by name so the unique
// name constraint holds. Relationship rows are rewritten through the id
// maps.
func restoreRemapped(tx *gorm.DB, snap *Snapshot) error {
	bookIDs := make(map[int64]int64, len(snap.Books))
	for _, b := range snap.Books {
		oldID := b.ID
		row := b
		row.ID = 0
		row.Authors, row.Genres, row.Tags, row.Links = nil, nil, nil, nil
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		bookIDs[oldID] = row.ID
	}

	authorIDs := make(map[int64]int64, len(snap.Authors))
	for _, a := range snap.Authors {
		id, err := authors.Resolve(tx, entities.Author{Name: a.Name})
		if err != nil {
			return err
		}
		authorIDs[a.ID] = id
	}

	genreIDs := make(map[int64]int64, len(snap.Genres))
	for _, g := range snap.Genres {
		id, err := genres.Resolve(tx, entities.Genre{Name: g.Name})
		if err != nil {
			return err
		}
		genreIDs[g.ID] = id
	}

	tagIDs := make(map[int64]int64, len(snap.Tags))
	for _, t := range snap.Tags {
		id, err := tags.Resolve(tx, entities.Tag{Name: t.Name})
		if err != nil {
			return err
		}
		tagIDs[t.ID] = id
	}

	for _, link := range snap.BookLinks {
		row := entities.BookLink{BookID: bookIDs[link.BookID], LinkText: link.LinkText, URL: link.URL}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, link := range snap.AuthorLinks {
		row := entities.AuthorLink{AuthorID: authorIDs[link.AuthorID], LinkText: link.LinkText, URL: link.URL}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, ref := range snap.Relationships.BookAuthors {
		row := entities.BookAuthor{BookID: bookIDs[ref.BookID], AuthorID: authorIDs[ref.AuthorID]}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	for _, ref := range snap.Relationships.BookGenres {
		row := entities.BookGenre{BookID: bookIDs[ref.BookID], GenreID: genreIDs[ref.GenreID]}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	for _, ref := range snap.Relationships.BookTags {
		row := entities.BookTag{BookID: bookIDs[ref.BookID], TagID: tagIDs[ref.TagID]}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}
