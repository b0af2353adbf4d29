package domain

import (
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring expense template.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurringExpense is a template for committed outflows. Templates are
// never persisted as occurrences; occurrences are expanded on demand.
type RecurringExpense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Frequency   Frequency
	StartDate   time.Time
	EndDate     *time.Time
	Category    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate rejects malformed templates at creation time so that
// expansion is total over persisted data.
func (e *RecurringExpense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !e.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if e.EndDate != nil && e.EndDate.Before(DayOf(e.StartDate)) {
		return ErrInvalidDateRange
	}
	return nil
}

// Occurrence is one dated outflow produced by expanding a template.
type Occurrence struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Occurrences expands the template into its dated occurrences within
// [horizonStart, horizonEnd], both inclusive at day precision. The
// sequence is lazy, finite and restartable: ranging over it twice
// yields the same occurrences.
//
// MONTHLY preserves the start date's day-of-month, clamped to the last
// valid day when the target month is shorter (a 31st-of-month expense
// lands on Feb 28/29). YEARLY applies the same clamp for Feb 29.
// Inactive templates and empty effective windows yield nothing.
func (e *RecurringExpense) Occurrences(horizonStart, horizonEnd time.Time) iter.Seq[Occurrence] {
	return func(yield func(Occurrence) bool) {
		if !e.Active {
			return
		}

		start := DayOf(e.StartDate)
		from := DayOf(horizonStart)
		to := DayOf(horizonEnd)

		if e.EndDate != nil && DayOf(*e.EndDate).Before(to) {
			to = DayOf(*e.EndDate)
		}
		if start.After(to) || to.Before(from) {
			return
		}

		for n := 0; ; n++ {
			date := e.nthOccurrence(start, n)
			if date.After(to) {
				return
			}
			if date.Before(from) {
				continue
			}
			if !yield(Occurrence{Date: date, Amount: e.Amount}) {
				return
			}
		}
	}
}

// nthOccurrence returns the nth occurrence counting from the start
// date. Monthly and yearly steps are always taken from the anchor so a
// 31st-of-month template returns to the 31st after a short month.
func (e *RecurringExpense) nthOccurrence(anchor time.Time, n int) time.Time {
	switch e.Frequency {
	case FrequencyDaily:
		return anchor.AddDate(0, 0, n)
	case FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*n)
	case FrequencyMonthly:
		return addMonthsClamped(anchor, n)
	case FrequencyYearly:
		return addMonthsClamped(anchor, 12*n)
	}
	return anchor
}

// addMonthsClamped advances by whole calendar months keeping the anchor
// day-of-month, clamped to the target month's last day. time.AddDate is
// not used because it normalizes Jan 31 + 1 month to Mar 2/3.
func addMonthsClamped(anchor time.Time, months int) time.Time {
	y, m, _ := anchor.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())

	day := anchor.Day()
	if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, anchor.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
