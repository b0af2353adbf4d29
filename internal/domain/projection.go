package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scenario scales uncertain projected inflows. Committed outflows are
// never scaled.
type Scenario string

const (
	ScenarioOptimistic  Scenario = "OPTIMISTIC"
	ScenarioRealistic   Scenario = "REALISTIC"
	ScenarioPessimistic Scenario = "PESSIMISTIC"
)

var (
	multOptimistic  = decimal.NewFromInt(1)
	multRealistic   = decimal.RequireFromString("0.85")
	multPessimistic = decimal.RequireFromString("0.70")
)

// Valid reports whether s is a known scenario.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioOptimistic, ScenarioRealistic, ScenarioPessimistic:
		return true
	}
	return false
}

// Multiplier returns the inflow discount factor for the scenario.
func (s Scenario) Multiplier() decimal.Decimal {
	switch s {
	case ScenarioRealistic:
		return multRealistic
	case ScenarioPessimistic:
		return multPessimistic
	default:
		return multOptimistic
	}
}

// DayStatus is the solvency classification of one projected day.
type DayStatus string

const (
	DayNegative DayStatus = "NEGATIVE"
	DayLow      DayStatus = "LOW"
	DayHealthy  DayStatus = "HEALTHY"
)

// ClassifyDay classifies a closing balance against the safety
// threshold. The healthy boundary is inclusive: a balance exactly equal
// to minimumRequired is HEALTHY.
func ClassifyDay(closing, minimumRequired decimal.Decimal) DayStatus {
	switch {
	case closing.IsNegative():
		return DayNegative
	case closing.LessThan(minimumRequired):
		return DayLow
	default:
		return DayHealthy
	}
}

// ProjectionDay is one forecasted day. Purely computed output, never
// persisted.
type ProjectionDay struct {
	Date            time.Time
	OpeningBalance  decimal.Decimal
	Inflows         decimal.Decimal
	Outflows        decimal.Decimal
	ClosingBalance  decimal.Decimal
	MinimumRequired decimal.Decimal
	Status          DayStatus
}

// Projection is a daily balance forecast over a horizon under one
// scenario. Identical inputs produce identical projections.
type Projection struct {
	Scenario        Scenario
	GeneratedFor    time.Time
	MinimumRequired decimal.Decimal
	Days            []ProjectionDay
	NegativeDays    int
	LowDays         int
}
