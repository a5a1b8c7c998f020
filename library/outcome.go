package library

import (
	"errors"
	"fmt"
	"time"
)

// FailureReason names the business rule that refused an operation.
type FailureReason string

const (
	BorrowLimitReached    FailureReason = "BorrowLimitReached"
	BookUnavailable       FailureReason = "BookUnavailable"
	TextbookRestricted    FailureReason = "TextbookRestricted"
	ExceedsMaxDays        FailureReason = "ExceedsMaxDays"
	GraduateNotAllowed    FailureReason = "GraduateNotAllowed"
	NotBorrowed           FailureReason = "NotBorrowed"
	NoDueDate             FailureReason = "NoDueDate"
	AlreadyOverdue        FailureReason = "AlreadyOverdue"
	ExtensionLimitReached FailureReason = "ExtensionLimitReached"
	InvalidPin            FailureReason = "InvalidPin"
	NotAvailable          FailureReason = "NotAvailable"
	ReservationRestricted FailureReason = "ReservationRestricted"
)

var (
	ErrBorrowLimitReached    = errors.New("borrowing limit has been reached")
	ErrBookUnavailable       = errors.New("book not available for lending or already reserved")
	ErrTextbookRestricted    = errors.New("only faculty members can borrow textbooks")
	ErrExceedsMaxDays        = errors.New("loan period exceeds the allowed maximum")
	ErrGraduateNotAllowed    = errors.New("graduates need a valid card")
	ErrNotBorrowed           = errors.New("book not found in borrowed books")
	ErrNoDueDate             = errors.New("book has no due date")
	ErrAlreadyOverdue        = errors.New("due date has already passed")
	ErrExtensionLimitReached = errors.New("maximum extension attempts reached")
	ErrInvalidPin            = errors.New("invalid PIN code")
	ErrNotAvailable          = errors.New("book not available for reservation or already reserved")
	ErrReservationRestricted = errors.New("only faculty members can reserve books")
)

var reasonErrors = map[FailureReason]error{
	BorrowLimitReached:    ErrBorrowLimitReached,
	BookUnavailable:       ErrBookUnavailable,
	TextbookRestricted:    ErrTextbookRestricted,
	ExceedsMaxDays:        ErrExceedsMaxDays,
	GraduateNotAllowed:    ErrGraduateNotAllowed,
	NotBorrowed:           ErrNotBorrowed,
	NoDueDate:             ErrNoDueDate,
	AlreadyOverdue:        ErrAlreadyOverdue,
	ExtensionLimitReached: ErrExtensionLimitReached,
	InvalidPin:            ErrInvalidPin,
	NotAvailable:          ErrNotAvailable,
	ReservationRestricted: ErrReservationRestricted,
}

// Outcome is the result of an engine or channel operation. It is either a
// success carrying the resolved loan data or a failure carrying a reason.
//
// Build outcomes with succeeded and failed only.
type Outcome struct {
	Reason  FailureReason // empty on success
	Message string
	Title   string
	Days    int
	DueDate time.Time
	Fine    int
}

func succeeded(title, message string) Outcome {
	return Outcome{Title: title, Message: message}
}

func failed(reason FailureReason, title, message string) Outcome {
	return Outcome{Reason: reason, Title: title, Message: message}
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Reason == "" }

// Err returns nil on success, otherwise an error wrapping the reason's sentinel.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	sentinel, ok := reasonErrors[o.Reason]
	if !ok {
		return fmt.Errorf("%s: %s", o.Reason, o.Message)
	}
	return fmt.Errorf("%w: %s", sentinel, o.Message)
}

// withPrefix rewords the message for a channel without touching the reason.
func (o Outcome) withPrefix(prefix string) Outcome {
	o.Message = prefix + o.Message
	return o
}

func (o Outcome) String() string { return o.Message }
