// Command import_books copies book metadata out of a legacy SQLite library
// database (the schema the previous version of this system used) into the
// flat-file catalogue.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"library-tracker/internal/config"
	"library-tracker/library"
)

func main() {
	dbPath := flag.String("db", "library.db", "path to the legacy SQLite database")
	dataDir := flag.String("data", "", "catalogue data directory (overrides LIBRARY_DATA_DIR)")
	copies := flag.Int("copies", 1, "copy count assigned to each imported book")
	flag.Parse()

	cfg := config.LoadFromEnv()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *copies < 0 {
		fmt.Fprintln(os.Stderr, "copies must not be negative")
		os.Exit(1)
	}

	mgr, err := library.NewLibraryManager(cfg.DataDir, cfg.AdminPassword, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalogue: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT title, author FROM books ORDER BY id`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading books table: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	imported := 0
	failed := 0
	for rows.Next() {
		var title, author string
		if err := rows.Scan(&title, &author); err != nil {
			fmt.Printf("ERROR - scan row: %v\n", err)
			failed++
			continue
		}
		b, err := mgr.Books.Create(title, author, *copies)
		if err != nil {
			fmt.Printf("ERROR - %s by %s: %v\n", title, author, err)
			failed++
			continue
		}
		fmt.Printf("Imported %q by %s (ID %d)\n", b.Title, b.Author, b.ID)
		imported++
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error iterating books table: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nImport complete: %d imported, %d failed\n", imported, failed)
}
