package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type spyNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (s *spyNotifier) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func (s *spyNotifier) Sent() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.sent...)
}

type testLibrary struct {
	engine   *LendingEngine
	clock    *fakeClock
	notifier *spyNotifier
}

func newTestLibrary(t *testing.T) testLibrary {
	t.Helper()
	clock := newFakeClock()
	notifier := &spyNotifier{}
	engine := NewLendingEngine(NewCatalog(), WithClock(clock.Now), WithNotifier(notifier))
	return testLibrary{engine: engine, clock: clock, notifier: notifier}
}

func givenMember(t *testing.T, e *LendingEngine, name string, category Category, graduate bool) *Member {
	t.Helper()
	m, err := e.AddUser(name, category, graduate)
	require.NoError(t, err)
	return m
}

func givenBooks(t *testing.T, e *LendingEngine, titles ...string) {
	t.Helper()
	for _, title := range titles {
		e.AddBook(title, "Test Author", 2020, false)
	}
}

func givenLoan(t *testing.T, e *LendingEngine, m *Member, title string, days int) Outcome {
	t.Helper()
	o := e.LendBook(m, title, days)
	require.True(t, o.OK(), "lend %q: %s", title, o.Message)
	return o
}
