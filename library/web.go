package library

import (
	"context"
	"fmt"
)

// Web is the online catalog. Extensions are PIN-gated like the kiosk and a
// successful reservation is confirmed to the member.
type Web struct {
	engine *LendingEngine
}

func NewWeb(engine *LendingEngine) *Web { return &Web{engine: engine} }

func (w *Web) SearchBook(substr string) []Book { return w.engine.SearchBook(substr) }

func (w *Web) ReserveBook(ctx context.Context, m *Member, title string) Outcome {
	o := w.engine.ReserveBook(m, title)
	if o.OK() {
		w.engine.notify(ctx, Notification{
			MemberID: m.ID,
			To:       m.Name,
			Subject:  "Reservation confirmed",
			Message:  fmt.Sprintf("Your reservation for '%s' is confirmed for two days.", title),
		})
	}
	return o
}

func (w *Web) ExtendDueDate(m *Member, title, pin string, days int) Outcome {
	var o Outcome
	w.engine.locked(func() {
		if refused, ok := admit(m, title, pin, "Graduates cannot extend due dates via the web."); !ok {
			o = refused
			return
		}
		o = w.engine.record("extend", m, w.engine.extendDueDate(m, title, days)).withPrefix("Extension via web: ")
	})
	return o
}
