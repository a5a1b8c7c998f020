package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"library-lending/library"
)

const (
	channelKiosk   = "kiosk"
	channelCounter = "counter"
	channelWeb     = "web"
)

// session is one member's visit: registration followed by a command loop on a
// single channel.
type session struct {
	ctx     context.Context
	sc      *bufio.Scanner
	in      io.Reader
	out     io.Writer
	channel string

	engine  *library.LendingEngine
	kiosk   *library.Kiosk
	counter *library.Counter
	web     *library.Web

	member *library.Member
	pin    string
}

func runSession(ctx context.Context, engine *library.LendingEngine, channel string, in io.Reader, out io.Writer) error {
	switch channel {
	case channelKiosk, channelCounter, channelWeb:
	default:
		return fmt.Errorf("unknown channel %q (want kiosk, counter or web)", channel)
	}

	s := &session{
		ctx:     ctx,
		sc:      bufio.NewScanner(in),
		in:      in,
		out:     out,
		channel: channel,
		engine:  engine,
		kiosk:   library.NewKiosk(engine),
		counter: library.NewCounter(engine),
		web:     library.NewWeb(engine),
	}

	if ok := s.register(); !ok {
		return nil
	}
	s.loop()
	return nil
}

func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

func (s *session) confirm(label string) bool {
	answer, ok := s.prompt(label)
	return ok && strings.EqualFold(answer, "yes")
}

// readPIN masks input on a terminal and falls back to a plain line otherwise.
func (s *session) readPIN(label string) (string, bool) {
	if f, ok := s.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.out)
		if err != nil {
			fmt.Fprintf(s.out, "Error reading PIN: %v\n", err)
			return "", false
		}
		return strings.TrimSpace(string(b)), true
	}
	return s.prompt(label)
}

// register walks through sign-up and card activation. It returns false when the
// member cannot use the library.
func (s *session) register() bool {
	name, ok := s.prompt("Enter your name: ")
	if !ok {
		return false
	}
	kind, ok := s.prompt("Enter your user type (Student, Faculty, Staff): ")
	if !ok {
		return false
	}
	category, err := library.ParseCategory(kind)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return false
	}

	graduate := false
	if category == library.Student {
		graduate = s.confirm("Are you a graduate? (yes or no): ")
	}

	m, err := s.engine.AddUser(name, category, graduate)
	if err != nil {
		fmt.Fprintf(s.out, "No user was added to the system: %v\n", err)
		return false
	}
	s.member = m
	fmt.Fprintf(s.out, "User %s added to the system as %s.\n", m.Name, m.Category)

	if graduate {
		if !s.confirm("There is an annual fee for graduate students. Would you like to proceed? (yes or no): ") {
			s.engine.DeactivateCard(m)
			fmt.Fprintln(s.out, "You cannot access the library system.")
			return false
		}
		return s.activateCard()
	}
	if s.channel != channelCounter && s.confirm("Would you like a library card for the kiosk and web? (yes or no): ") {
		return s.activateCard()
	}
	return true
}

func (s *session) activateCard() bool {
	pin, err := s.engine.ActivateCard(s.member)
	if err != nil {
		fmt.Fprintf(s.out, "Error activating card: %v\n", err)
		return false
	}
	fmt.Fprintf(s.out, "Card activated. Your PIN is %s\n", pin)
	return true
}

func (s *session) loop() {
	if s.channel != channelCounter && s.member.HasValidCard() {
		pin, ok := s.readPIN("Please enter your PIN: ")
		if ok && len(pin) != 4 {
			pin, ok = s.readPIN("Please enter a valid 4-digit PIN: ")
		}
		if !ok {
			return
		}
		s.pin = pin
	}

	fmt.Fprintf(s.out, "Welcome to the %s. Commands: search, borrow, reserve, extend, return, loans, quit\n", s.channel)
	for {
		cmd, ok := s.prompt("\n> ")
		if !ok {
			return
		}
		s.engine.CheckReservedBooks()

		switch cmd {
		case "search":
			s.handleSearch()
		case "borrow":
			s.handleBorrow()
		case "reserve":
			s.handleReserve()
		case "extend":
			s.handleExtend()
		case "return":
			s.handleReturn()
		case "loans":
			s.handleLoans()
		case "quit", "exit":
			fmt.Fprintln(s.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(s.out, "Unknown command. Type one of: search, borrow, reserve, extend, return, loans, quit")
		}
	}
}

func (s *session) handleSearch() {
	query, ok := s.prompt("Query: ")
	if !ok {
		return
	}
	printSearch(s.out, s.engine, query)
}

func (s *session) titleAndDays() (string, int, bool) {
	title, ok := s.prompt("Title: ")
	if !ok {
		return "", 0, false
	}
	raw, ok := s.prompt(fmt.Sprintf("Days (Enter for %d): ", library.DefaultLoanDays))
	if !ok {
		return "", 0, false
	}
	if raw == "" {
		return title, library.DefaultLoanDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		fmt.Fprintf(s.out, "Invalid number of days: %s\n", raw)
		return "", 0, false
	}
	return title, days, true
}

func (s *session) handleBorrow() {
	title, days, ok := s.titleAndDays()
	if !ok {
		return
	}

	var o library.Outcome
	switch s.channel {
	case channelKiosk:
		o = s.kiosk.BorrowBook(s.member, title, s.pin, days)
	case channelCounter:
		o = s.counter.BorrowBook(s.member, title, days)
	case channelWeb:
		fmt.Fprintln(s.out, "Books cannot be borrowed on the web. Reserve it or visit a kiosk.")
		return
	}
	s.report(o)
}

func (s *session) handleReserve() {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}

	var o library.Outcome
	switch s.channel {
	case channelKiosk:
		o = s.kiosk.ReserveBook(s.member, title)
	case channelWeb:
		o = s.web.ReserveBook(s.ctx, s.member, title)
	default:
		o = s.engine.ReserveBook(s.member, title)
	}
	s.report(o)
}

func (s *session) handleExtend() {
	title, days, ok := s.titleAndDays()
	if !ok {
		return
	}

	var o library.Outcome
	switch s.channel {
	case channelKiosk:
		o = s.kiosk.ExtendDueDate(s.member, title, s.pin, days)
	case channelCounter:
		o = s.counter.ExtendDueDate(s.member, title, days)
	case channelWeb:
		o = s.web.ExtendDueDate(s.member, title, s.pin, days)
	}
	s.report(o)
}

func (s *session) handleReturn() {
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	s.report(s.engine.ReturnBook(s.ctx, s.member, title))
}

func (s *session) handleLoans() {
	loans := s.engine.Loans(s.member)
	if len(loans) == 0 {
		fmt.Fprintln(s.out, "You have no books on loan.")
		return
	}
	fmt.Fprintf(s.out, "%-30s %-12s %s\n", "Title", "Due", "Extensions")
	fmt.Fprintln(s.out, strings.Repeat("-", 55))
	for _, b := range loans {
		fmt.Fprintf(s.out, "%-30s %-12s %d/3\n", truncateString(b.Title, 30), b.DueDate.Format("2006-01-02"), b.ExtensionAttempts)
	}
}

func (s *session) report(o library.Outcome) {
	if o.OK() {
		fmt.Fprintln(s.out, o.Message)
		return
	}
	fmt.Fprintf(s.out, "%s (%s)\n", o.Message, o.Reason)
}
