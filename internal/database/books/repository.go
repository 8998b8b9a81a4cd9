// Package books provides database operations for book management: CRUD with
// association rewriting, the filter/sort query engine, and live queries.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	err := repo.Create(&entities.Book{
//		Title:   "Dune",
//		Authors: []entities.Author{{Name: "Frank Herbert"}},
//	})
package books

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/database/authors"
	"github.com/shelfkeeper/shelfkeeper/internal/database/genres"
	"github.com/shelfkeeper/shelfkeeper/internal/database/tags"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

var validate = validator.New()

// Repository handles all book database operations.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

// NewRepository creates a new books repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB, notifier: db.Notifier}
}

func validateBook(book *entities.Book) error {
	if err := validate.Struct(book); err != nil {
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) && len(ferrs) > 0 {
			return &database.ValidationError{
				Field:  ferrs[0].Field(),
				Reason: "failed " + ferrs[0].Tag() + " check",
			}
		}
		return &database.ValidationError{Field: "book", Reason: err.Error()}
	}
	return nil
}

// Create inserts a book with its associations. Author/genre/tag values are
// resolved to durable ids in the order supplied: non-zero ids are trusted,
// named values are matched by exact name or inserted. The book row, the
// resolution, and the association rows commit as one transaction.
func (r *Repository) Create(book *entities.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if book.ReadingStatus == "" {
		book.ReadingStatus = entities.StatusWant
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(book).Error; err != nil {
			return err
		}
		return writeAssociations(tx, book)
	})
	if err != nil {
		return translateWrite("books.Create", err)
	}
	r.notifier.Broadcast()
	return nil
}

// Update rewrites a book and its complete association set: existing
// cross-refs and owned links are cleared, then the supplied values are
// re-resolved and re-inserted. UpdatedAt on the book row is refreshed;
// CreatedAt is preserved from the stored row when the caller omits it.
func (r *Repository) Update(book *entities.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Book
		if err := tx.First(&existing, book.ID).Error; err != nil {
			return err
		}
		if book.CreatedAt == 0 {
			book.CreatedAt = existing.CreatedAt
		}
		if book.ReadingStatus == "" {
			book.ReadingStatus = existing.ReadingStatus
		}

		if err := tx.Omit(clause.Associations).Save(book).Error; err != nil {
			return err
		}
		if err := clearAssociations(tx, book.ID); err != nil {
			return err
		}
		return writeAssociations(tx, book)
	})
	if err != nil {
		return translateWrite("books.Update", err)
	}
	r.notifier.Broadcast()
	return nil
}

// Delete removes a book together with its links and association rows.
// Shared authors, genres, and tags are left alone.
func (r *Repository) Delete(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if err := clearAssociations(tx, id); err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
	if err != nil {
		return translateWrite("books.Delete", err)
	}
	r.notifier.Broadcast()
	return nil
}

// GetByID retrieves a book with authors, genres, tags, and links.
func (r *Repository) GetByID(id int64) (*entities.Book, error) {
	var book entities.Book
	err := preloadInfo(r.db).First(&book, id).Error
	if err != nil {
		return nil, database.Translate("books.GetByID", err)
	}
	return &book, nil
}

// GetByTitle retrieves the first book with an exact title match. Used by the
// share-intent path to detect an already-catalogued work.
func (r *Repository) GetByTitle(title string) (*entities.Book, error) {
	var book entities.Book
	err := preloadInfo(r.db).Where("title = ?", title).First(&book).Error
	if err != nil {
		return nil, database.Translate("books.GetByTitle", err)
	}
	return &book, nil
}

// List runs the filter once and returns the matching books
// with their associations.
func (r *Repository) List(filter BookFilter) ([]entities.Book, error) {
	var books []entities.Book
	err := preloadInfo(filter.apply(r.db)).Find(&books).Error
	return books, database.Translate("books.List", err)
}

// Count returns the total number of books.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, database.Translate("books.Count", err)
}

// AddLink attaches a labelled URL to a book.
func (r *Repository) AddLink(bookID int64, linkText, url string) (*entities.BookLink, error) {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		return nil, database.Translate("books.AddLink", err)
	}
	link := &entities.BookLink{BookID: bookID, LinkText: linkText, URL: url}
	if err := r.db.Create(link).Error; err != nil {
		return nil, database.Translate("books.AddLink", err)
	}
	r.notifier.Broadcast()
	return link, nil
}

// DeleteLink removes a single book link.
func (r *Repository) DeleteLink(linkID int64) error {
	result := r.db.Delete(&entities.BookLink{}, linkID)
	if result.Error != nil {
		return database.Translate("books.DeleteLink", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	r.notifier.Broadcast()
	return nil
}

func preloadInfo(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("authors.name ASC")
		}).
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Links")
}

// writeAssociations resolves the book's author/genre/tag values and inserts
// cross-ref rows plus owned links. Resolved ids are written back into the
// caller's slices. Duplicate cross-refs within one request are ignored on
// conflict, matching the original insert-or-ignore semantics.
func writeAssociations(tx *gorm.DB, book *entities.Book) error {
	for i := range book.Authors {
		id, err := authors.Resolve(tx, book.Authors[i])
		if err != nil {
			return err
		}
		book.Authors[i].ID = id
		ref := entities.BookAuthor{BookID: book.ID, AuthorID: id}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error; err != nil {
			return err
		}
	}

	for i := range book.Genres {
		id, err := genres.Resolve(tx, book.Genres[i])
		if err != nil {
			return err
		}
		book.Genres[i].ID = id
		ref := entities.BookGenre{BookID: book.ID, GenreID: id}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error; err != nil {
			return err
		}
	}

	for i := range book.Tags {
		id, err := tags.Resolve(tx, book.Tags[i])
		if err != nil {
			return err
		}
		book.Tags[i].ID = id
		ref := entities.BookTag{BookID: book.ID, TagID: id}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error; err != nil {
			return err
		}
	}

	for i := range book.Links {
		link := entities.BookLink{
			BookID:   book.ID,
			LinkText: book.Links[i].LinkText,
			URL:      book.Links[i].URL,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		book.Links[i] = link
	}

	return nil
}

func clearAssociations(tx *gorm.DB, bookID int64) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookAuthor{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookGenre{}).Error; err != nil {
		return err
	}
	if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookTag{}).Error; err != nil {
		return err
	}
	return tx.Where("book_id = ?", bookID).Delete(&entities.BookLink{}).Error
}

// translateWrite keeps ValidationError values intact while mapping storage
// failures through the shared taxonomy.
func translateWrite(op string, err error) error {
	var verr *database.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return database.Translate(op, err)
}
