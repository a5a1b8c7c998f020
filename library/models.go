package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the borrower category of a member.
type Category string

const (
	Student Category = "Student"
	Faculty Category = "Faculty"
	Staff   Category = "Staff"
)

// ParseCategory accepts any casing of "student", "faculty" or "staff".
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return Student, nil
	case "faculty":
		return Faculty, nil
	case "staff":
		return Staff, nil
	}
	return "", fmt.Errorf("unknown member category %q", s)
}

// Book is a lendable catalog entry. A zero DueDate means the book is on the shelf.
type Book struct {
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	PublicationYear   int       `json:"year"`
	IsTextbook        bool      `json:"textbook"`
	DueDate           time.Time `json:"-"`
	ExtensionAttempts int       `json:"-"`
}

// OnLoan reports whether the book currently has a due date.
func (b *Book) OnLoan() bool { return !b.DueDate.IsZero() }

// Periodical is listed in the catalog but never lent.
type Periodical struct {
	Title           string `json:"title"`
	IssueNumber     int    `json:"issue"`
	PublicationYear int    `json:"year"`
}

// Reservation holds a title for a faculty member until it expires.
type Reservation struct {
	Title      string
	MemberID   uuid.UUID
	ReservedAt time.Time
}

// PrettyBook formats a book for lists.
func PrettyBook(b *Book) string {
	status := "on shelf"
	if b.OnLoan() {
		status = "due " + b.DueDate.Format("2006-01-02")
	}
	kind := ""
	if b.IsTextbook {
		kind = "textbook"
	}
	return fmt.Sprintf("%-30s %-25s %-6d %-9s %s", b.Title, b.Author, b.PublicationYear, kind, status)
}

// PrettyPeriodical formats a periodical for lists.
func PrettyPeriodical(p *Periodical) string {
	return fmt.Sprintf("%-30s issue %-5d %-6d", p.Title, p.IssueNumber, p.PublicationYear)
}
