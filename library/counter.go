package library

import "fmt"

// Counter is the staff-operated desk. Staff have already identified the member,
// so no PIN is asked for.
type Counter struct {
	engine *LendingEngine
}

func NewCounter(engine *LendingEngine) *Counter { return &Counter{engine: engine} }

func (c *Counter) SearchBook(substr string) []Book { return c.engine.SearchBook(substr) }

// BorrowBook runs the counter's own checks: textbooks for faculty only and the
// member's regular day cap, with no textbook extension.
func (c *Counter) BorrowBook(m *Member, title string, days int) Outcome {
	var o Outcome
	c.engine.locked(func() {
		o = c.engine.record("counter_borrow", m, c.borrow(m, title, days))
	})
	return o
}

func (c *Counter) borrow(m *Member, title string, days int) Outcome {
	if days <= 0 {
		days = DefaultLoanDays
	}
	if !m.CanBorrow() {
		return failed(BorrowLimitReached, title, "Borrowing limit reached at the counter.")
	}

	first := c.engine.catalog.firstCopy(title)
	if first == nil {
		return failed(BookUnavailable, title, "Book not available for borrowing or already reserved at the counter.")
	}
	book := c.engine.lendableBook(m, title, func(b *Book) bool {
		return !b.IsTextbook || m.Category == Faculty
	})
	if book == nil {
		if first.IsTextbook && m.Category != Faculty {
			return failed(TextbookRestricted, title, "Only faculty members can borrow textbooks at the counter.")
		}
		return failed(BookUnavailable, title, "Book not available for borrowing or already reserved at the counter.")
	}
	if days > m.MaxBorrowDays() {
		return failed(ExceedsMaxDays, title, fmt.Sprintf("Cannot borrow for more than %d days from the counter.", m.MaxBorrowDays()))
	}

	return c.engine.checkout(m, book, days, fmt.Sprintf("Book borrowed from counter: %s for %d days.", title, days))
}

func (c *Counter) ExtendDueDate(m *Member, title string, days int) Outcome {
	return c.engine.ExtendDueDateAtCounter(m, title, days)
}
