package library

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const pinDigits = 4

// Card is the PIN-bearing library card. Only the bcrypt hash of the PIN is kept.
type Card struct {
	valid   bool
	pinHash []byte
}

// Valid reports whether the card is currently activated.
func (c *Card) Valid() bool { return c != nil && c.valid }

func (c *Card) matches(pin string) bool {
	if !c.Valid() || len(c.pinHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.pinHash, []byte(pin)) == nil
}

// Member is a registered borrower.
type Member struct {
	ID         uuid.UUID
	Name       string
	Category   Category
	IsGraduate bool

	card     *Card
	borrowed []*Book
}

func newMember(name string, category Category, graduate bool) *Member {
	return &Member{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		IsGraduate: graduate && category == Student,
	}
}

// MaxBooks is the number of books the member may hold at once.
func (m *Member) MaxBooks() int {
	if m.Category == Faculty {
		return 5
	}
	return 3
}

// MaxBorrowDays is the longest regular loan for the member.
func (m *Member) MaxBorrowDays() int {
	if m.Category == Faculty {
		return 30
	}
	return 15
}

// CanBorrow reports whether the member may take another book.
func (m *Member) CanBorrow() bool {
	if m.cardBlocked() {
		return false
	}
	return len(m.borrowed) < m.MaxBooks()
}

// cardBlocked is true for graduate students without a valid card.
func (m *Member) cardBlocked() bool {
	return m.Category == Student && m.IsGraduate && !m.card.Valid()
}

// ActivateCard issues a new PIN and marks the card valid. Any PIN handed out
// earlier stops working.
func (m *Member) ActivateCard() (string, error) {
	pin, err := generatePIN()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	if m.card == nil {
		m.card = &Card{}
	}
	m.card.valid = true
	m.card.pinHash = hash
	return pin, nil
}

// DeactivateCard keeps the card but marks it invalid.
func (m *Member) DeactivateCard() {
	if m.card != nil {
		m.card.valid = false
	}
}

// HasCard reports whether a card was ever issued.
func (m *Member) HasCard() bool { return m.card != nil }

// HasValidCard reports whether the member holds an activated card.
func (m *Member) HasValidCard() bool { return m.card.Valid() }

func (m *Member) BorrowedCount() int { return len(m.borrowed) }

// Borrowed returns the member's loans in borrow order.
func (m *Member) Borrowed() []*Book {
	out := make([]*Book, len(m.borrowed))
	copy(out, m.borrowed)
	return out
}

func (m *Member) borrowedBook(title string) *Book {
	for _, b := range m.borrowed {
		if b.Title == title {
			return b
		}
	}
	return nil
}

func (m *Member) removeBorrowed(b *Book) {
	for i, held := range m.borrowed {
		if held == b {
			m.borrowed = append(m.borrowed[:i], m.borrowed[i+1:]...)
			return
		}
	}
}

func generatePIN() (string, error) {
	digits := make([]byte, pinDigits)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate pin: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
