package library

import (
	"context"
	"fmt"
)

// Kiosk is the self-service terminal. Every loan or extension needs the
// member's PIN, and graduates without a valid card are turned away.
type Kiosk struct {
	engine *LendingEngine
}

func NewKiosk(engine *LendingEngine) *Kiosk { return &Kiosk{engine: engine} }

func (k *Kiosk) SearchBook(substr string) []Book { return k.engine.SearchBook(substr) }

func (k *Kiosk) ReserveBook(m *Member, title string) Outcome { return k.engine.ReserveBook(m, title) }

func (k *Kiosk) BorrowBook(m *Member, title, pin string, days int) Outcome {
	var o Outcome
	k.engine.locked(func() {
		if refused, ok := admit(m, title, pin, "Graduates cannot borrow books from Kiosks."); !ok {
			o = refused
			return
		}
		o = k.engine.record("lend", m, k.engine.lendBook(m, title, days)).withPrefix("Borrowing through Kiosk: ")
	})
	return o
}

func (k *Kiosk) ExtendDueDate(m *Member, title, pin string, days int) Outcome {
	var o Outcome
	k.engine.locked(func() {
		if refused, ok := admit(m, title, pin, "Graduates cannot extend due dates via Kiosks."); !ok {
			o = refused
			return
		}
		o = k.engine.record("extend", m, k.engine.extendDueDate(m, title, days)).withPrefix("Extension via Kiosk: ")
	})
	return o
}

// SendReservationEmail tells m that the reserved title can be picked up.
func (k *Kiosk) SendReservationEmail(ctx context.Context, m *Member, title string) {
	k.engine.notify(ctx, Notification{
		MemberID: m.ID,
		To:       m.Name,
		Subject:  "Reserved book available",
		Message:  fmt.Sprintf("Your reserved book '%s' has arrived.", title),
	})
}

// admit is the card gate shared by the PIN channels. Callers hold the engine lock.
func admit(m *Member, title, pin, blocked string) (Outcome, bool) {
	if m.cardBlocked() {
		return failed(GraduateNotAllowed, title, blocked), false
	}
	if !m.card.matches(pin) {
		return failed(InvalidPin, title, "Invalid PIN code."), false
	}
	return Outcome{}, true
}
