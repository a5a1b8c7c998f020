package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLoanDays applies when a caller asks for zero or negative days.
	DefaultLoanDays = 15

	facultyTextbookMaxDays = 180
	maxExtensionAttempts   = 3
	reservationTTL         = 48 * time.Hour

	// maxRequestDays bounds any single loan or extension request.
	maxRequestDays = 100 * 365
)

// LendingEngine applies the lending, extension, fine and reservation rules to a
// catalog and its registered members. Create one per library and pass it to
// every channel; all methods are safe for concurrent use.
//
// The engine lock also guards member cards and borrowed lists. While an engine is
// shared between goroutines, change cards and read loans through ActivateCard,
// DeactivateCard and Loans rather than the Member methods.
type LendingEngine struct {
	mu sync.Mutex

	catalog  *Catalog
	members  []*Member
	byID     map[uuid.UUID]*Member
	reserved map[string]Reservation

	now      func() time.Time
	notifier Notifier
	logger   *slog.Logger
}

// Option configures a LendingEngine.
type Option func(*LendingEngine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *LendingEngine) { e.now = now }
}

// WithNotifier sets where member notifications go. The default is a NopNotifier.
func WithNotifier(n Notifier) Option {
	return func(e *LendingEngine) { e.notifier = n }
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *LendingEngine) { e.logger = l }
}

// NewLendingEngine builds an engine over catalog. A nil catalog starts empty.
func NewLendingEngine(catalog *Catalog, opts ...Option) *LendingEngine {
	if catalog == nil {
		catalog = NewCatalog()
	}
	e := &LendingEngine{
		catalog:  catalog,
		byID:     make(map[uuid.UUID]*Member),
		reserved: make(map[string]Reservation),
		now:      time.Now,
		notifier: NopNotifier{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *LendingEngine) locked(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func (e *LendingEngine) record(op string, m *Member, o Outcome) Outcome {
	attrs := []any{
		slog.String("op", op),
		slog.String("member_id", m.ID.String()),
		slog.String("title", o.Title),
	}
	if o.OK() {
		e.logger.Info("lending operation succeeded", attrs...)
	} else {
		e.logger.Debug("lending operation refused", append(attrs, slog.String("reason", string(o.Reason)))...)
	}
	return o
}

// ------------------ Members ------------------

// AddUser registers a member. Graduate students get an activated card straight away.
func (e *LendingEngine) AddUser(name string, category Category, graduate bool) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("member name cannot be empty")
	}
	switch category {
	case Student, Faculty, Staff:
	default:
		return nil, fmt.Errorf("unknown member category %q", category)
	}

	m := newMember(name, category, graduate)
	if m.IsGraduate {
		if _, err := m.ActivateCard(); err != nil {
			return nil, fmt.Errorf("activate card for %s: %w", name, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.members = append(e.members, m)
	e.byID[m.ID] = m
	e.logger.Info("member registered",
		slog.String("member_id", m.ID.String()),
		slog.String("category", string(category)),
		slog.Bool("graduate", m.IsGraduate))
	return m, nil
}

func (e *LendingEngine) Member(id uuid.UUID) (*Member, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.byID[id]
	return m, ok
}

func (e *LendingEngine) Members() []*Member {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Member(nil), e.members...)
}

// ActivateCard issues m a fresh PIN; see Member.ActivateCard.
func (e *LendingEngine) ActivateCard(m *Member) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return m.ActivateCard()
}

func (e *LendingEngine) DeactivateCard(m *Member) {
	e.locked(m.DeactivateCard)
}

// Loans returns snapshots of the books m holds, in borrow order.
func (e *LendingEngine) Loans(m *Member) []Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(m.borrowed)
}

// ValidatePin reports whether pin is the current PIN of the member's activated card.
func (e *LendingEngine) ValidatePin(m *Member, pin string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return m.card.matches(pin)
}

// ------------------ Catalog ------------------

func (e *LendingEngine) AddBook(title, author string, year int, textbook bool) {
	e.locked(func() { e.catalog.AddBook(title, author, year, textbook) })
}

func (e *LendingEngine) AddPeriodical(title string, issue, year int) {
	e.locked(func() { e.catalog.AddPeriodical(title, issue, year) })
}

// SearchBook returns snapshots of the matching books, loan state included.
func (e *LendingEngine) SearchBook(substr string) []Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.catalog.SearchBooks(substr))
}

func (e *LendingEngine) SearchPeriodical(substr string) []Periodical {
	e.mu.Lock()
	defer e.mu.Unlock()
	found := e.catalog.SearchPeriodicals(substr)
	out := make([]Periodical, 0, len(found))
	for _, p := range found {
		out = append(out, *p)
	}
	return out
}

func snapshot(books []*Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, *b)
	}
	return out
}

// ------------------ Circulation ------------------

// LendBook lends the first free copy of title to m for the given number of days.
// Faculty members may keep textbooks up to 180 days; longer requests are clamped.
func (e *LendingEngine) LendBook(m *Member, title string, days int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record("lend", m, e.lendBook(m, title, days))
}

func (e *LendingEngine) lendBook(m *Member, title string, days int) Outcome {
	if days <= 0 {
		days = DefaultLoanDays
	}
	if !m.CanBorrow() {
		return failed(BorrowLimitReached, title, "Borrowing limit has been reached.")
	}

	first := e.catalog.firstCopy(title)
	if first == nil {
		return failed(BookUnavailable, title, "Book not available for lending or already reserved.")
	}
	if first.IsTextbook && m.Category != Faculty {
		return failed(TextbookRestricted, title, "Only faculty members can borrow textbooks.")
	}
	book := e.lendableBook(m, title, nil)
	if book == nil {
		return failed(BookUnavailable, title, "Book not available for lending or already reserved.")
	}

	if m.Category == Faculty && book.IsTextbook {
		days = min(days, facultyTextbookMaxDays)
	} else if days > m.MaxBorrowDays() {
		return failed(ExceedsMaxDays, title, fmt.Sprintf("Cannot borrow for more than %d days.", m.MaxBorrowDays()))
	}

	return e.checkout(m, book, days, fmt.Sprintf("Lent book: %s for %d days.", title, days))
}

// lendableBook finds the first copy of title that is on the shelf and not held
// for another member. allow, when set, further filters candidates.
func (e *LendingEngine) lendableBook(m *Member, title string, allow func(*Book) bool) *Book {
	if r, ok := e.activeReservation(title); ok && r.MemberID != m.ID {
		return nil
	}
	for _, b := range e.catalog.books {
		if b.Title != title || b.OnLoan() {
			continue
		}
		if allow != nil && !allow(b) {
			continue
		}
		return b
	}
	return nil
}

func (e *LendingEngine) checkout(m *Member, book *Book, days int, message string) Outcome {
	now := e.now()
	m.borrowed = append(m.borrowed, book)
	book.DueDate = now.AddDate(0, 0, days)
	book.ExtensionAttempts = 0

	if r, ok := e.reserved[book.Title]; ok && r.MemberID == m.ID {
		delete(e.reserved, book.Title)
	}

	o := succeeded(book.Title, message)
	o.Days = days
	o.DueDate = book.DueDate
	return o
}

// ReturnBook takes the first borrowed copy of title back from m and reports the
// overdue fine. A member holding a reservation on the title is told it has arrived.
func (e *LendingEngine) ReturnBook(ctx context.Context, m *Member, title string) Outcome {
	e.mu.Lock()
	book := m.borrowedBook(title)
	if book == nil {
		o := e.record("return", m, failed(NotBorrowed, title, "Book not found in your borrowed books."))
		e.mu.Unlock()
		return o
	}

	fine := 0
	if book.OnLoan() {
		fine = CalculateFine(book.DueDate, e.now())
	}
	m.removeBorrowed(book)
	book.DueDate = time.Time{}
	book.ExtensionAttempts = 0

	var waiting *Member
	if r, ok := e.activeReservation(title); ok && r.MemberID != m.ID {
		waiting = e.byID[r.MemberID]
	}

	o := succeeded(title, fmt.Sprintf("Returned book: %s. Fine: %d", title, fine))
	o.Fine = fine
	e.record("return", m, o)
	e.mu.Unlock()

	if waiting != nil {
		e.notify(ctx, Notification{
			MemberID: waiting.ID,
			To:       waiting.Name,
			Subject:  "Reserved book available",
			Message:  fmt.Sprintf("Your reserved book '%s' has arrived.", title),
		})
	}
	return o
}

// ------------------ Extensions ------------------

// ExtendDueDate pushes the due date of a borrowed book back by days. It is only
// possible before the book becomes overdue and at most three times per loan.
func (e *LendingEngine) ExtendDueDate(m *Member, title string, days int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record("extend", m, e.extendDueDate(m, title, days))
}

func (e *LendingEngine) extendDueDate(m *Member, title string, days int) Outcome {
	if days <= 0 {
		days = DefaultLoanDays
	}
	if !m.CanBorrow() {
		if m.cardBlocked() {
			return failed(GraduateNotAllowed, title, "Graduates cannot extend due dates.")
		}
		return failed(GraduateNotAllowed, title, "Extensions are unavailable while the borrowing limit is reached.")
	}
	if days > maxRequestDays {
		return failed(ExceedsMaxDays, title, fmt.Sprintf("Cannot extend by more than %d days.", maxRequestDays))
	}

	book := m.borrowedBook(title)
	if book == nil {
		return failed(NotBorrowed, title, "Book not found in your borrowed books.")
	}
	if !book.OnLoan() {
		return failed(NoDueDate, title, "The book was not borrowed or has an indefinite due date.")
	}
	now := e.now()
	if !book.DueDate.After(now) {
		return failed(AlreadyOverdue, title, "Extension is not possible after the due date has passed.")
	}
	if book.ExtensionAttempts >= maxExtensionAttempts {
		return failed(ExtensionLimitReached, title, "Maximum extension attempts reached for this book.")
	}

	fine := CalculateFine(book.DueDate, now)
	book.DueDate = book.DueDate.AddDate(0, 0, days)
	book.ExtensionAttempts++

	o := succeeded(title, fmt.Sprintf("Extended due date for book: %s for %d days. Fine: %d", title, days, fine))
	o.Days = days
	o.DueDate = book.DueDate
	o.Fine = fine
	return o
}

// ExtendDueDateAtCounter is the staff-operated extension. It skips the borrowing
// eligibility gate and reports no fine.
func (e *LendingEngine) ExtendDueDateAtCounter(m *Member, title string, days int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record("extend_at_counter", m, e.extendAtCounter(m, title, days))
}

func (e *LendingEngine) extendAtCounter(m *Member, title string, days int) Outcome {
	if days <= 0 {
		days = DefaultLoanDays
	}
	if days > maxRequestDays {
		return failed(ExceedsMaxDays, title, fmt.Sprintf("Cannot extend by more than %d days.", maxRequestDays))
	}
	book := m.borrowedBook(title)
	if book == nil {
		return failed(NotBorrowed, title, "No such book borrowed by user.")
	}
	if book.ExtensionAttempts >= maxExtensionAttempts {
		return failed(ExtensionLimitReached, title, "Maximum extension attempts reached for this book.")
	}
	if !book.OnLoan() {
		return failed(NoDueDate, title, "Cannot extend. The book has an indefinite due date.")
	}
	if !book.DueDate.After(e.now()) {
		return failed(AlreadyOverdue, title, "Cannot extend. The due date has passed.")
	}

	book.DueDate = book.DueDate.AddDate(0, 0, days)
	book.ExtensionAttempts++

	o := succeeded(title, fmt.Sprintf("Due date extended at counter for %s by %d days.", title, days))
	o.Days = days
	o.DueDate = book.DueDate
	return o
}

// ------------------ Reservations ------------------

// ReserveBook holds a non-textbook title for a faculty member. Holds lapse after
// two days; see CheckReservedBooks.
func (e *LendingEngine) ReserveBook(m *Member, title string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record("reserve", m, e.reserveBook(m, title))
}

func (e *LendingEngine) reserveBook(m *Member, title string) Outcome {
	if m.Category != Faculty {
		return failed(ReservationRestricted, title, "Only faculty members can reserve books.")
	}
	if r, ok := e.activeReservation(title); ok && r.MemberID != m.ID {
		return failed(NotAvailable, title, "Book not available for reservation or already reserved.")
	}
	for _, b := range e.catalog.books {
		if b.Title == title && !b.IsTextbook {
			e.reserved[title] = Reservation{Title: title, MemberID: m.ID, ReservedAt: e.now()}
			return succeeded(title, "Book reserved: "+title)
		}
	}
	return failed(NotAvailable, title, "Book not available for reservation or already reserved.")
}

func (e *LendingEngine) activeReservation(title string) (Reservation, bool) {
	r, ok := e.reserved[title]
	if !ok || e.now().Sub(r.ReservedAt) >= reservationTTL {
		return Reservation{}, false
	}
	return r, true
}

// CheckReservedBooks drops every reservation that is two days old or older.
// Callers run it periodically; the engine has no scheduler of its own.
func (e *LendingEngine) CheckReservedBooks() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	for title, r := range e.reserved {
		if now.Sub(r.ReservedAt) >= reservationTTL {
			delete(e.reserved, title)
			e.logger.Info("reservation expired",
				slog.String("title", title),
				slog.String("member_id", r.MemberID.String()))
		}
	}
}

// Reservations returns the current reservations ordered by title.
func (e *LendingEngine) Reservations() []Reservation {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Reservation, 0, len(e.reserved))
	for _, r := range e.reserved {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (e *LendingEngine) notify(ctx context.Context, n Notification) {
	if err := e.notifier.Notify(ctx, n); err != nil {
		e.logger.WarnContext(ctx, "notification failed",
			slog.String("member_id", n.MemberID.String()),
			slog.String("error", err.Error()))
	}
}
