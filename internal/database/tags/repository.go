// Package tags provides database operations for tag management.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.GetOrCreate("space-opera")
package tags

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// Resolve returns a durable id for the supplied tag value: trust a non-zero
// id, otherwise match by exact name, otherwise insert.
func Resolve(tx *gorm.DB, tag entities.Tag) (int64, error) {
	if tag.ID != 0 {
		return tag.ID, nil
	}
	if tag.Name == "" {
		return 0, &database.ValidationError{Field: "tag.name", Reason: "must not be empty"}
	}

	var existing entities.Tag
	err := tx.Where("name = ?", tag.Name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	created := entities.Tag{Name: tag.Name}
	if err := tx.Create(&created).Error; err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Repository handles all tag database operations.
type Repository struct {
	db       *gorm.DB
	notifier *database.Notifier
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db.DB, notifier: db.Notifier}
}

// GetOrCreate retrieves a tag by exact name or creates it.
func (r *Repository) GetOrCreate(name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Transaction(func(tx *gorm.DB) error {
		id, err := Resolve(tx, entities.Tag{Name: name})
		if err != nil {
			return err
		}
		return tx.First(&tag, id).Error
	})
	if err != nil {
		var verr *database.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, database.Translate("tags.GetOrCreate", err)
	}
	r.notifier.Broadcast()
	return &tag, nil
}

// GetAll retrieves every tag ordered by name.
func (r *Repository) GetAll() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, database.Translate("tags.GetAll", err)
}

// Update renames a tag.
func (r *Repository) Update(tag *entities.Tag) error {
	if tag.Name == "" {
		return &database.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	var existing entities.Tag
	if err := r.db.First(&existing, tag.ID).Error; err != nil {
		return database.Translate("tags.Update", err)
	}
	if err := r.db.Model(&existing).Update("name", tag.Name).Error; err != nil {
		return database.Translate("tags.Update", err)
	}
	r.notifier.Broadcast()
	return nil
}

// Delete removes a tag and every book association referencing it.
func (r *Repository) Delete(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var tag entities.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&entities.BookTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Tag{}, id).Error
	})
	if err != nil {
		return database.Translate("tags.Delete", err)
	}
	r.notifier.Broadcast()
	return nil
}

// DeleteOrphans removes every tag no book references. Returns the number of
// tags removed.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM book_tags)
	`)
	if result.Error != nil {
		return 0, database.Translate("tags.DeleteOrphans", result.Error)
	}
	if result.RowsAffected > 0 {
		r.notifier.Broadcast()
	}
	return result.RowsAffected, nil
}
