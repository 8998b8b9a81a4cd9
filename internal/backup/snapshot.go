// Package backup implements the snapshot serialization and transactional
// restore engine for the catalog.
package backup

import (
	"encoding/json"
	"fmt"

	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// SnapshotVersion is the format tag written into every export.
const SnapshotVersion = "1.0"

// Snapshot is the complete serialized state of the catalog: every entity,
// link, and association collection as an independent flat array.
type Snapshot struct {
	Version       string                `json:"version"`
	ExportDate    string                `json:"exportDate"`
	Books         []entities.Book       `json:"books"`
	Authors       []entities.Author     `json:"authors"`
	Genres        []entities.Genre      `json:"genres"`
	Tags          []entities.Tag        `json:"tags"`
	BookLinks     []entities.BookLink   `json:"bookLinks"`
	AuthorLinks   []entities.AuthorLink `json:"authorLinks"`
	Relationships Relationships         `json:"relationships"`
}

// Relationships holds the association rows as flat id pairs.
type Relationships struct {
	BookAuthors []entities.BookAuthor `json:"bookAuthors"`
	BookGenres  []entities.BookGenre  `json:"bookGenres"`
	BookTags    []entities.BookTag    `json:"bookTags"`
}

// ImportError reports a malformed snapshot or a failed restore transaction.
// A restore that fails with ImportError has rolled back completely.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
	}
	return "import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// Decode parses a snapshot document, wrapping syntax and type errors into
// ImportError.
func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &ImportError{Reason: "malformed snapshot document", Err: err}
	}
	if snap.Version == "" {
		return nil, &ImportError{Reason: "snapshot is missing a version tag"}
	}
	return &snap, nil
}

// Encode serializes a snapshot as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// validate checks the document shape and referential integrity: every
// collection must be present (an empty catalog exports empty arrays, never
// null), and every relationship and link row must point at an entity present
// in the snapshot. Import rejects the snapshot before touching the catalog.
func (s *Snapshot) validate() error {
	if s.Version == "" {
		return &ImportError{Reason: "snapshot is missing a version tag"}
	}
	for _, coll := range []struct {
		name    string
		present bool
	}{
		{"books", s.Books != nil},
		{"authors", s.Authors != nil},
		{"genres", s.Genres != nil},
		{"tags", s.Tags != nil},
		{"bookLinks", s.BookLinks != nil},
		{"authorLinks", s.AuthorLinks != nil},
		{"relationships.bookAuthors", s.Relationships.BookAuthors != nil},
		{"relationships.bookGenres", s.Relationships.BookGenres != nil},
		{"relationships.bookTags", s.Relationships.BookTags != nil},
	} {
		if !coll.present {
			return &ImportError{Reason: "snapshot is missing the " + coll.name + " array"}
		}
	}

	bookIDs := make(map[int64]bool, len(s.Books))
	for _, b := range s.Books {
		bookIDs[b.ID] = true
	}
	authorIDs := make(map[int64]bool, len(s.Authors))
	for _, a := range s.Authors {
		authorIDs[a.ID] = true
	}
	genreIDs := make(map[int64]bool, len(s.Genres))
	for _, g := range s.Genres {
		genreIDs[g.ID] = true
	}
	tagIDs := make(map[int64]bool, len(s.Tags))
	for _, t := range s.Tags {
		tagIDs[t.ID] = true
	}

	for _, ref := range s.Relationships.BookAuthors {
		if !bookIDs[ref.BookID] || !authorIDs[ref.AuthorID] {
			return &ImportError{Reason: fmt.Sprintf("bookAuthors references unknown ids (%d, %d)", ref.BookID, ref.AuthorID)}
		}
	}
	for _, ref := range s.Relationships.BookGenres {
		if !bookIDs[ref.BookID] || !genreIDs[ref.GenreID] {
			return &ImportError{Reason: fmt.Sprintf("bookGenres references unknown ids (%d, %d)", ref.BookID, ref.GenreID)}
		}
	}
	for _, ref := range s.Relationships.BookTags {
		if !bookIDs[ref.BookID] || !tagIDs[ref.TagID] {
			return &ImportError{Reason: fmt.Sprintf("bookTags references unknown ids (%d, %d)", ref.BookID, ref.TagID)}
		}
	}
	for _, link := range s.BookLinks {
		if !bookIDs[link.BookID] {
			return &ImportError{Reason: fmt.Sprintf("bookLinks references unknown book %d", link.BookID)}
		}
	}
	for _, link := range s.AuthorLinks {
		if !authorIDs[link.AuthorID] {
			return &ImportError{Reason: fmt.Sprintf("authorLinks references unknown author %d", link.AuthorID)}
		}
	}

	return nil
}
