package books

import (
	"gorm.io/gorm"

	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

// SortOrder selects the primary ordering of a filtered listing. Every order
// carries a secondary `books.id ASC` key so ties resolve identically across
// repeated queries.
type SortOrder string

const (
	SortTitleAsc         SortOrder = "title_asc"
	SortTitleDesc        SortOrder = "title_desc"
	SortRatingAsc        SortOrder = "rating_asc"
	SortRatingDesc       SortOrder = "rating_desc"
	SortDateAddedAsc     SortOrder = "date_added_asc"
	SortDateAddedDesc    SortOrder = "date_added_desc"
	SortDateModifiedAsc  SortOrder = "date_modified_asc"
	SortDateModifiedDesc SortOrder = "date_modified_desc"
)

// ParseSortOrder maps a wire value onto a SortOrder, defaulting to newest
// first for unknown or empty input.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortTitleAsc, SortTitleDesc,
		SortRatingAsc, SortRatingDesc,
		SortDateAddedAsc, SortDateAddedDesc,
		SortDateModifiedAsc, SortDateModifiedDesc:
		return SortOrder(s)
	default:
		return SortDateAddedDesc
	}
}

// orderClause returns the ORDER BY expression for the sort order. The
// returned text comes exclusively from this fixed table, never from input.
func (s SortOrder) orderClause() string {
	switch s {
	case SortTitleAsc:
		return "books.title ASC, books.id ASC"
	case SortTitleDesc:
		return "books.title DESC, books.id ASC"
	case SortRatingAsc:
		return "books.rating ASC, books.id ASC"
	case SortRatingDesc:
		return "books.rating DESC, books.id ASC"
	case SortDateAddedAsc:
		return "books.created_at ASC, books.id ASC"
	case SortDateModifiedAsc:
		return "books.updated_at ASC, books.id ASC"
	case SortDateModifiedDesc:
		return "books.updated_at DESC, books.id ASC"
	default:
		return "books.created_at DESC, books.id ASC"
	}
}

// BookFilter describes a catalog query declaratively. Dimensions are
// AND-combined: a book must satisfy every supplied restriction. Empty id
// lists and the status sentinel "All" mean "no restriction on this
// dimension".
type BookFilter struct {
	Sort       SortOrder
	Status     string
	AuthorIDs  []int64
	GenreIDs   []int64
	TagIDs     []int64
	TitleQuery string
}

// apply compiles the filter into a parametrized query. Id lists and
// strings are always bound as parameters; joins fan out per dimension and
// DISTINCT collapses the duplicates.
func (f BookFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&entities.Book{}).Distinct("books.*")

	if len(f.AuthorIDs) > 0 {
		q = q.Joins("INNER JOIN book_authors ON book_authors.book_id = books.id").
			Where("book_authors.author_id IN ?", f.AuthorIDs)
	}
	if len(f.GenreIDs) > 0 {
		q = q.Joins("INNER JOIN book_genres ON book_genres.book_id = books.id").
			Where("book_genres.genre_id IN ?", f.GenreIDs)
	}
	if len(f.TagIDs) > 0 {
		q = q.Joins("INNER JOIN book_tags ON book_tags.book_id = books.id").
			Where("book_tags.tag_id IN ?", f.TagIDs)
	}
	if f.Status != "" && f.Status != entities.StatusAll {
		q = q.Where("books.reading_status = ?", f.Status)
	}
	if f.TitleQuery != "" {
		q = q.Where("LOWER(books.title) LIKE LOWER(?)", "%"+f.TitleQuery+"%")
	}

	return q.Order(f.Sort.orderClause())
}
