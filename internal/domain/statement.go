package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a half-open window in time: Start inclusive, End exclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// StatementLine is one movement together with the running balance after
// it, recomputed from the statement's initial balance rather than read
// from the materialized cache.
type StatementLine struct {
	Movement       *Movement
	RunningBalance decimal.Decimal
}

// StatementStats are derived per-query aggregates over a statement.
type StatementStats struct {
	HighestIn     decimal.Decimal
	HighestOut    decimal.Decimal
	AverageAmount decimal.Decimal
	Count         int
}

// Statement is a read-only view of one account's history over a period.
type Statement struct {
	AccountID      string
	Period         Period
	InitialBalance decimal.Decimal
	Lines          []StatementLine
	TotalIn        decimal.Decimal
	TotalOut       decimal.Decimal
	ClosingBalance decimal.Decimal
	// CurrentBalance is the account's live balance at query time, which
	// differs from ClosingBalance when the period ends in the past.
	CurrentBalance decimal.Decimal
	Stats          StatementStats
}

// BuildStatement walks movements in OccurredAt order, seeding the
// running balance with the balance immediately before the period start.
// It never mutates its inputs.
func BuildStatement(accountID string, period Period, initialBalance decimal.Decimal, movements []*Movement) *Statement {
	ordered := make([]*Movement, len(movements))
	copy(ordered, movements)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	st := &Statement{
		AccountID:      accountID,
		Period:         period,
		InitialBalance: initialBalance,
		Lines:          make([]StatementLine, 0, len(ordered)),
		TotalIn:        decimal.Zero,
		TotalOut:       decimal.Zero,
	}

	running := initialBalance
	for _, m := range ordered {
		running = running.Add(m.Signed())
		st.Lines = append(st.Lines, StatementLine{Movement: m, RunningBalance: running})

		if m.Direction == DirectionIn {
			st.TotalIn = st.TotalIn.Add(m.Amount)
			if m.Amount.GreaterThan(st.Stats.HighestIn) {
				st.Stats.HighestIn = m.Amount
			}
		} else {
			st.TotalOut = st.TotalOut.Add(m.Amount)
			if m.Amount.GreaterThan(st.Stats.HighestOut) {
				st.Stats.HighestOut = m.Amount
			}
		}
	}

	st.ClosingBalance = running
	st.Stats.Count = len(ordered)
	if st.Stats.Count > 0 {
		st.Stats.AverageAmount = st.TotalIn.Add(st.TotalOut).Div(decimal.NewFromInt(int64(st.Stats.Count)))
	}

	return st
}

// MovementFilter is a composable set of predicates over movements. Nil
// and zero fields match everything, so filters can be applied
// repeatedly and in any order without side effects.
type MovementFilter struct {
	Direction  *Direction
	Method     *Method
	SourceType *SourceType
	FreeText   string
	From       *time.Time
	To         *time.Time
}

// Matches reports whether a single movement passes the filter. Free
// text matches the description case-insensitively.
func (f MovementFilter) Matches(m *Movement) bool {
	if f.Direction != nil && m.Direction != *f.Direction {
		return false
	}
	if f.Method != nil && m.Method != *f.Method {
		return false
	}
	if f.SourceType != nil && m.SourceType != *f.SourceType {
		return false
	}
	if f.From != nil && m.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.OccurredAt.Before(*f.To) {
		return false
	}
	if f.FreeText != "" && !strings.Contains(strings.ToLower(m.Description), strings.ToLower(f.FreeText)) {
		return false
	}
	return true
}

// FilterMovements returns the movements passing the filter. The input
// slice is never mutated.
func FilterMovements(movements []*Movement, f MovementFilter) []*Movement {
	out := make([]*Movement, 0, len(movements))
	for _, m := range movements {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// DayGroup is one calendar day's worth of movements with day totals.
type DayGroup struct {
	Date      time.Time
	Movements []*Movement
	TotalIn   decimal.Decimal
	TotalOut  decimal.Decimal
	Net       decimal.Decimal
}

// GroupByDay partitions movements into calendar-day buckets in the
// given location, ordered by day ascending.
func GroupByDay(movements []*Movement, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[time.Time]*DayGroup)
	for _, m := range movements {
		day := DayOf(m.OccurredAt.In(loc))

		g, ok := byDay[day]
		if !ok {
			g = &DayGroup{Date: day, TotalIn: decimal.Zero, TotalOut: decimal.Zero, Net: decimal.Zero}
			byDay[day] = g
		}

		g.Movements = append(g.Movements, m)
		if m.Direction == DirectionIn {
			g.TotalIn = g.TotalIn.Add(m.Amount)
		} else {
			g.TotalOut = g.TotalOut.Add(m.Amount)
		}
		g.Net = g.Net.Add(m.Signed())
	}

	groups := make([]DayGroup, 0, len(byDay))
	for _, g := range byDay {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date.Before(groups[j].Date) })

	return groups
}
