// Package genres provides database operations for genre management.
package genres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// Resolve returns a durable id for the supplied genre value: trust a
// non-zero id, otherwise match by exact name, otherwise insert.
func Resolve(tx *gorm.DB, genre entities.Genre) (int64, error) {
	if genre.ID != 0 {
		return genre.ID, nil
	}
	if genre.Name == "" {
		return 0, &database.ValidationError{Field: "genre.name", Reason: "must not be empty"}
	}

	var existing entities.Genre
	err := tx.Where("name = ?", genre.Name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	created := entities.Genre{Name: genre.Name}
	if err := tx.Create(&created).Error; err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Repository handles all genre database operations.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB, notifier: db.Notifier}
}

// GetOrCreate retrieves a genre by exact name or creates it.
func (r *Repository) GetOrCreate(name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.Transaction(func(tx *gorm.DB) error {
		id, err := Resolve(tx, entities.Genre{Name: name})
		if err != nil {
			return err
		}
		return tx.First(&genre, id).Error
	})
	if err != nil {
		var verr *database.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, database.Translate("genres.GetOrCreate", err)
	}
	r.notifier.Broadcast()
	return &genre, nil
}

// GetAll retrieves every genre ordered by name.
func (r *Repository) GetAll() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, database.Translate("genres.GetAll", err)
}

// Update renames a genre.
func (r *Repository) Update(genre *entities.Genre) error {
	if genre.Name == "" {
		return &database.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var existing entities.Genre
	if err := r.db.First(&existing, genre.ID).Error; err != nil {
		return database.Translate("genres.Update", err)
	}
	if err := r.db.Model(&existing).Update("name", genre.Name).Error; err != nil {
		return database.Translate("genres.Update", err)
	}
	r.notifier.Broadcast()
	return nil
}

// Delete removes a genre and every book association referencing it.
func (r *Repository) Delete(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var genre entities.Genre
		if err := tx.First(&genre, id).Error; err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Genre{}, id).Error
	})
	if err != nil {
		return database.Translate("genres.Delete", err)
	}
	r.notifier.Broadcast()
	return nil
}
