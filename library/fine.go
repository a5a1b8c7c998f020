package library

import "time"

const (
	fineWeek      = 7 * 24 * time.Hour
	firstWeekFine = 10
	laterWeekFine = 20
)

// CalculateFine returns the overdue fine for a book due at due and settled at now.
// The first overdue week costs 10, every further week that has begun costs 20.
// Overdue spans beyond what a time.Duration holds are charged as the longest one.
func CalculateFine(due, now time.Time) int {
	overdue := now.Sub(due)
	if overdue <= 0 {
		return 0
	}
	if overdue <= fineWeek {
		return firstWeekFine
	}
	weeks := overdue / fineWeek
	if overdue%fineWeek != 0 {
		weeks++
	}
	return firstWeekFine + int(weeks-1)*laterWeekFine
}
