package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"library-lending/library"
)

// import_catalog checks one or more JSON catalog files and prints what the
// lending desk would load from each.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_catalog <catalog.json>...")
		os.Exit(2)
	}

	successCount := 0
	errorCount := 0
	for _, path := range os.Args[1:] {
		fmt.Printf("Loading: %s... ", path)
		cat, err := load(path)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (%d books, %d periodicals)\n", len(cat.Books()), len(cat.Periodicals()))
		successCount++
		printCatalog(cat)
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully loaded: %d files\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)
	if errorCount > 0 {
		os.Exit(1)
	}
}

func load(path string) (*library.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()
	return library.LoadCatalog(f)
}

func printCatalog(cat *library.Catalog) {
	if books := cat.Books(); len(books) > 0 {
		fmt.Printf("\n%-45s %-30s %-6s %s\n", "Title", "Author", "Year", "Textbook")
		fmt.Println(strings.Repeat("-", 92))
		for _, b := range books {
			fmt.Printf("%-45s %-30s %-6d %t\n", truncateString(b.Title, 45), truncateString(b.Author, 30), b.PublicationYear, b.IsTextbook)
		}
	}
	if periodicals := cat.Periodicals(); len(periodicals) > 0 {
		fmt.Printf("\n%-45s %-8s %s\n", "Periodical", "Issue", "Year")
		fmt.Println(strings.Repeat("-", 60))
		for _, p := range periodicals {
			fmt.Printf("%-45s %-8d %d\n", truncateString(p.Title, 45), p.IssueNumber, p.PublicationYear)
		}
	}
	fmt.Println()
}

func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
