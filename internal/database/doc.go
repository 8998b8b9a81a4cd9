// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, join-table wiring
//	├── errors.go        # Error taxonomy shared by every repository
//	├── notifier.go      # Change notification fan-out for live queries
//	├── books/           # Book CRUD, filter/sort queries, live queries
//	├── authors/         # Author get-or-create, maintenance, author links
//	├── genres/          # Genre get-or-create and maintenance
//	└── tags/            # Tag get-or-create and maintenance
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.New("./catalog.db")
//
//	booksRepo := books.NewRepository(db)
//	authorsRepo := authors.NewRepository(db)
//
//	book, err := booksRepo.GetByID(123)
//	author, err := authorsRepo.GetOrCreate("Frank Herbert")
//
// Repositories never own storage themselves; they all share the single
// database handle constructed at startup. There is no package-level
// singleton: the handle is passed explicitly to each component.
//
// # Write semantics
//
// Every multi-row write (book create/update with its association rewrite,
// cascade deletes, backup restore) runs inside a single transaction. Cascades
// are performed explicitly in dependency order rather than relying on the
// storage engine's foreign key enforcement.
package database
