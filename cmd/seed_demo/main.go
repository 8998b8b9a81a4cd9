// Command seed_demo creates a demo catalog database with public domain books.
// Usage: go run cmd/seed_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/shelfkeeper/shelfkeeper/internal/database"
	"github.com/shelfkeeper/shelfkeeper/internal/database/books"
	"github.com/shelfkeeper/shelfkeeper/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo catalog at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := books.NewRepository(db)

	for _, book := range demoBooks() {
		book := book
		if err := repo.Create(&book); err != nil {
			log.Printf("Failed to save book %s: %v", book.Title, err)
			continue
		}
		log.Printf("Saved: %s (%d authors, %d genres, %d tags)",
			book.Title, len(book.Authors), len(book.Genres), len(book.Tags))
	}

	log.Println("Demo catalog generated successfully!")
}

func rating(v float64) *float64 { return &v }

func demoBooks() []entities.Book {
	return []entities.Book{
		{
			Title:         "Meditations",
			Description:   "Personal writings of the Roman emperor on Stoic philosophy and self-discipline.",
			ReadingStatus: entities.StatusFinished,
			Rating:        rating(5),
			Authors:       []entities.Author{{Name: "Marcus Aurelius"}},
			Genres:        []entities.Genre{{Name: "Philosophy"}},
			Tags:          []entities.Tag{{Name: "classic"}, {Name: "stoicism"}},
			Links: []entities.BookLink{
				{LinkText: "Project Gutenberg", URL: "https://www.gutenberg.org/ebooks/2680"},
			},
		},
		{
			Title:         "Letters from a Stoic",
			Description:   "Seneca's moral epistles to Lucilius on how to live well.",
			ReadingStatus: entities.StatusReading,
			Authors:       []entities.Author{{Name: "Seneca"}},
			Genres:        []entities.Genre{{Name: "Philosophy"}},
			Tags:          []entities.Tag{{Name: "classic"}, {Name: "stoicism"}},
		},
		{
			Title:         "On the Origin of Species",
			Description:   "Darwin's foundational work on evolution by natural selection.",
			ReadingStatus: entities.StatusWant,
			Authors:       []entities.Author{{Name: "Charles Darwin"}},
			Genres:        []entities.Genre{{Name: "Science"}},
			Tags:          []entities.Tag{{Name: "classic"}},
			Links: []entities.BookLink{
				{LinkText: "Project Gutenberg", URL: "https://www.gutenberg.org/ebooks/1228"},
			},
		},
		{
			Title:         "Pride and Prejudice",
			Description:   "Austen's novel of manners following Elizabeth Bennet.",
			ReadingStatus: entities.StatusFinished,
			Rating:        rating(4.5),
			Authors:       []entities.Author{{Name: "Jane Austen"}},
			Genres:        []entities.Genre{{Name: "Fiction"}, {Name: "Romance"}},
			Tags:          []entities.Tag{{Name: "classic"}},
		},
		{
			Title:         "War and Peace",
			Description:   "Tolstoy's epic of Russian society during the Napoleonic era.",
			ReadingStatus: entities.StatusWant,
			Authors:       []entities.Author{{Name: "Leo Tolstoy"}},
			Genres:        []entities.Genre{{Name: "Fiction"}, {Name: "Historical"}},
			Tags:          []entities.Tag{{Name: "classic"}, {Name: "epic"}},
		},
		{
			Title:         "Crime and Punishment",
			Description:   "Dostoevsky's psychological study of guilt and redemption.",
			ReadingStatus: entities.StatusReading,
			Authors:       []entities.Author{{Name: "Fyodor Dostoevsky"}},
			Genres:        []entities.Genre{{Name: "Fiction"}},
			Tags:          []entities.Tag{{Name: "classic"}},
		},
		{
			Title:         "Frankenstein",
			Description:   "Shelley's tale of Victor Frankenstein and his creation.",
			ReadingStatus: entities.StatusFinished,
			Rating:        rating(4),
			Authors:       []entities.Author{{Name: "Mary Shelley"}},
			Genres:        []entities.Genre{{Name: "Fiction"}, {Name: "Science"}},
			Tags:          []entities.Tag{{Name: "classic"}, {Name: "gothic"}},
		},
		{
			Title:         "The Picture of Dorian Gray",
			Description:   "Wilde's only novel, on vanity and moral corruption.",
			ReadingStatus: entities.StatusFinished,
			Rating:        rating(4),
			Authors:       []entities.Author{{Name: "Oscar Wilde"}},
			Genres:        []entities.Genre{{Name: "Fiction"}},
			Tags:          []entities.Tag{{Name: "classic"}, {Name: "gothic"}},
		},
	}
}
