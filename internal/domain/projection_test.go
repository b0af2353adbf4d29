package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

func TestScenario_Multiplier(t *testing.T) {
	tests := []struct {
		scenario domain.Scenario
		want     string
	}{
		{domain.ScenarioOptimistic, "1"},
		{domain.ScenarioRealistic, "0.85"},
		{domain.ScenarioPessimistic, "0.70"},
	}

	for _, tt := range tests {
		t.Run(string(tt.scenario), func(t *testing.T) {
			got := tt.scenario.Multiplier()
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("expected multiplier %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyDay_Boundaries(t *testing.T) {
	minimum := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		closing string
		want    domain.DayStatus
	}{
		{"well above threshold", "5000", domain.DayHealthy},
		{"exactly at threshold is healthy", "1000", domain.DayHealthy},
		{"one cent below threshold", "999.99", domain.DayLow},
		{"exactly zero", "0", domain.DayLow},
		{"one cent below zero", "-0.01", domain.DayNegative},
		{"deeply negative", "-500", domain.DayNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ClassifyDay(decimal.RequireFromString(tt.closing), minimum)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
