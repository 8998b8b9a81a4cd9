package entities

// ReadingStatus values stored on a Book. The column is free text, but every
// write path constrains it to one of these.
const (
	StatusWant     = "want"
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// StatusAll is the filter sentinel meaning "do not filter by status".
const StatusAll = "All"

// Book is the central catalog entity. Association slices are populated via
// Preload on reads; on writes they carry the *requested* authors/genres/tags,
// which may be unsaved values (ID == 0) that the store resolves by name.
type Book struct {
	ID            int64    `gorm:"primaryKey" json:"id"`
	Title         string   `gorm:"index;size:512" json:"title" validate:"required"`
	Description   string   `gorm:"type:text" json:"description,omitempty"`
	ReadingStatus string   `gorm:"size:32;default:'want'" json:"readingStatus" validate:"omitempty,oneof=want reading finished"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	CreatedAt     int64    `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt     int64    `gorm:"autoUpdateTime:milli" json:"updatedAt"`

	Authors []Author   `gorm:"many2many:book_authors;" json:"authors,omitempty"`
	Genres  []Genre    `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	Tags    []Tag      `gorm:"many2many:book_tags;" json:"tags,omitempty"`
	Links   []BookLink `gorm:"foreignKey:BookID" json:"links,omitempty"`
}

type Author struct {
	ID    int64        `gorm:"primaryKey" json:"id"`
	Name  string       `gorm:"uniqueIndex;size:256" json:"name" validate:"required"`
	Links []AuthorLink `gorm:"foreignKey:AuthorID" json:"links,omitempty"`
}

type Genre struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:256" json:"name" validate:"required"`
}

type Tag struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:256" json:"name" validate:"required"`
}

// BookLink is a URL owned by exactly one book; it dies with its parent.
type BookLink struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	BookID   int64  `gorm:"index" json:"bookId"`
	LinkText string `gorm:"size:512" json:"linkText"`
	URL      string `gorm:"size:2048" json:"url"`
}

type AuthorLink struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	AuthorID int64  `gorm:"index" json:"authorId"`
	LinkText string `gorm:"size:512" json:"linkText"`
	URL      string `gorm:"size:2048" json:"url"`
}

// Explicit join-row models. They map onto the same tables the many2many
// associations above use, so the backup engine and cascade deletes can read
// and write association rows directly.

type BookAuthor struct {
	BookID   int64 `gorm:"primaryKey" json:"bookId"`
	AuthorID int64 `gorm:"primaryKey" json:"authorId"`
}

type BookGenre struct {
	BookID  int64 `gorm:"primaryKey" json:"bookId"`
	GenreID int64 `gorm:"primaryKey" json:"genreId"`
}

type BookTag struct {
	BookID int64 `gorm:"primaryKey" json:"bookId"`
	TagID  int64 `gorm:"primaryKey" json:"tagId"`
}

func (Book) TableName() string       { return "books" }
func (Author) TableName() string     { return "authors" }
func (Genre) TableName() string      { return "genres" }
func (Tag) TableName() string        { return "tags" }
func (BookLink) TableName() string   { return "book_links" }
func (AuthorLink) TableName() string { return "author_links" }
func (BookAuthor) TableName() string { return "book_authors" }
func (BookGenre) TableName() string  { return "book_genres" }
func (BookTag) TableName() string    { return "book_tags" }
