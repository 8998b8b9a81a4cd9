// Package authors provides database operations for author management.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.GetOrCreate("Frank Herbert")
package authors

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// Resolve returns a durable id for the supplied author value. A non-zero id
// is trusted as-is; otherwise the value is matched by exact name, and
// inserted if no row matches. Runs on the caller's transaction so a book
// write and its resolution commit or roll back together.
func Resolve(tx *gorm.DB, author entities.Author) (int64, error) {
	if author.ID != 0 {
		return author.ID, nil
	}
	if author.Name == "" {
		return 0, &database.ValidationError{Field: "author.name", Reason: "must not be empty"}
	}

	var existing entities.Author
	err := tx.Where("name = ?", author.Name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	created := entities.Author{Name: author.Name}
	if err := tx.Create(&created).Error; err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Repository handles all author database operations.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

// NewRepository creates a new authors repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB, notifier: db.Notifier}
}

// GetOrCreate retrieves an author by exact name or creates it.
func (r *Repository) GetOrCreate(name string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Transaction(func(tx *gorm.DB) error {
		id, err := Resolve(tx, entities.Author{Name: name})
		if err != nil {
			return err
		}
		return tx.First(&author, id).Error
	})
	if err != nil {
		var verr *database.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, database.Translate("authors.GetOrCreate", err)
	}
	r.notifier.Broadcast()
	return &author, nil
}

// GetByID retrieves an author with its links.
func (r *Repository) GetByID(id int64) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Preload("Links").First(&author, id).Error
	if err != nil {
		return nil, database.Translate("authors.GetByID", err)
	}
	return &author, nil
}

// GetAll retrieves every author ordered by name.
func (r *Repository) GetAll() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, database.Translate("authors.GetAll", err)
}

// Search retrieves authors whose name contains the query substring.
func (r *Repository) Search(query string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + query + "%"
	err := r.db.Where("name LIKE ?", pattern).Order("name ASC").Find(&authors).Error
	return authors, database.Translate("authors.Search", err)
}

// Update renames an author.
func (r *Repository) Update(author *entities.Author) error {
	if author.Name == "" {
		return &database.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var existing entities.Author
	if err := r.db.First(&existing, author.ID).Error; err != nil {
		return database.Translate("authors.Update", err)
	}
	if err := r.db.Model(&existing).Update("name", author.Name).Error; err != nil {
		return database.Translate("authors.Update", err)
	}
	r.notifier.Broadcast()
	return nil
}

// Delete removes an author, its links, and every book association referencing
// it. Books keep existing; only their association rows go away.
func (r *Repository) Delete(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var author entities.Author
		if err := tx.First(&author, id).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&entities.BookAuthor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&entities.AuthorLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Author{}, id).Error
	})
	if err != nil {
		return database.Translate("authors.Delete", err)
	}
	r.notifier.Broadcast()
	return nil
}

// AddLink attaches a labelled URL to an author.
func (r *Repository) AddLink(authorID int64, linkText, url string) (*entities.AuthorLink, error) {
	var author entities.Author
	if err := r.db.First(&author, authorID).Error; err != nil {
		return nil, database.Translate("authors.AddLink", err)
	}
	link := &entities.AuthorLink{AuthorID: authorID, LinkText: linkText, URL: url}
	if err := r.db.Create(link).Error; err != nil {
		return nil, database.Translate("authors.AddLink", err)
	}
	r.notifier.Broadcast()
	return link, nil
}

// DeleteLink removes a single author link.
func (r *Repository) DeleteLink(linkID int64) error {
	result := r.db.Delete(&entities.AuthorLink{}, linkID)
	if result.Error != nil {
		return database.Translate("authors.DeleteLink", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	r.notifier.Broadcast()
	return nil
}
