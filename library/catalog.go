package library

import (
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Catalog owns the book and periodical records in insertion order.
type Catalog struct {
	books       []*Book
	periodicals []*Periodical
}

func NewCatalog() *Catalog { return &Catalog{} }

func (c *Catalog) AddBook(title, author string, year int, textbook bool) *Book {
	b := &Book{Title: title, Author: author, PublicationYear: year, IsTextbook: textbook}
	c.books = append(c.books, b)
	return b
}

func (c *Catalog) AddPeriodical(title string, issue, year int) *Periodical {
	p := &Periodical{Title: title, IssueNumber: issue, PublicationYear: year}
	c.periodicals = append(c.periodicals, p)
	return p
}

// SearchBooks returns every book whose title contains substr (case-sensitive).
func (c *Catalog) SearchBooks(substr string) []*Book {
	out := []*Book{}
	for _, b := range c.books {
		if strings.Contains(b.Title, substr) {
			out = append(out, b)
		}
	}
	return out
}

// SearchPeriodicals returns every periodical whose title contains substr.
func (c *Catalog) SearchPeriodicals(substr string) []*Periodical {
	out := []*Periodical{}
	for _, p := range c.periodicals {
		if strings.Contains(p.Title, substr) {
			out = append(out, p)
		}
	}
	return out
}

// firstCopy is the first book with exactly this title, on loan or not.
func (c *Catalog) firstCopy(title string) *Book {
	for _, b := range c.books {
		if b.Title == title {
			return b
		}
	}
	return nil
}

func (c *Catalog) Books() []*Book             { return append([]*Book(nil), c.books...) }
func (c *Catalog) Periodicals() []*Periodical { return append([]*Periodical(nil), c.periodicals...) }

// ------------------ Catalog files ------------------

type catalogFile struct {
	Books       []Book       `json:"books"`
	Periodicals []Periodical `json:"periodicals"`
}

// LoadCatalog decodes a JSON catalog document:
//
//	{"books": [{"title": "...", "author": "...", "year": 2001, "textbook": true}],
//	 "periodicals": [{"title": "...", "issue": 4, "year": 2020}]}
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	var f catalogFile
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	c := NewCatalog()
	for i, b := range f.Books {
		if strings.TrimSpace(b.Title) == "" {
			return nil, errors.Errorf("book %d has no title", i+1)
		}
		c.AddBook(b.Title, b.Author, b.PublicationYear, b.IsTextbook)
	}
	for i, p := range f.Periodicals {
		if strings.TrimSpace(p.Title) == "" {
			return nil, errors.Errorf("periodical %d has no title", i+1)
		}
		c.AddPeriodical(p.Title, p.IssueNumber, p.PublicationYear)
	}
	return c, nil
}
