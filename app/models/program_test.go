package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() ProgramSettings {
	return ProgramSettings{
		PointsPerDollar: 2,
		Tiers: TierList{
			{ID: "bronze", Name: "Bronze", RequiredLifetimePoints: 0},
			{ID: "gold", Name: "Gold", RequiredLifetimePoints: 500},
		},
		Streak: StreakConfig{Enabled: true, WindowDays: 2, MinVisitsForBonus: 3, BonusPoints: 50},
	}
}

func TestProgramSettingsValidate(t *testing.T) {
	s := validSettings()
	require.NoError(t, s.Validate())

	tests := []struct {
		name   string
		mutate func(*ProgramSettings)
	}{
		{"zero earn rate", func(s *ProgramSettings) { s.PointsPerDollar = 0 }},
		{"negative earn rate", func(s *ProgramSettings) { s.PointsPerDollar = -1 }},
		{"nan earn rate", func(s *ProgramSettings) { s.PointsPerDollar = math.NaN() }},
		{"no tiers", func(s *ProgramSettings) { s.Tiers = nil }},
		{"blank tier id", func(s *ProgramSettings) { s.Tiers[0].ID = "  " }},
		{"duplicate tier ids", func(s *ProgramSettings) { s.Tiers[1].ID = s.Tiers[0].ID }},
		{"descending thresholds", func(s *ProgramSettings) {
			s.Tiers[0].RequiredLifetimePoints = 600
		}},
		{"negative threshold", func(s *ProgramSettings) { s.Tiers[0].RequiredLifetimePoints = -1 }},
		{"zero streak window", func(s *ProgramSettings) { s.Streak.WindowDays = 0 }},
		{"zero min visits", func(s *ProgramSettings) { s.Streak.MinVisitsForBonus = 0 }},
		{"negative bonus", func(s *ProgramSettings) { s.Streak.BonusPoints = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestProgramSettingsNormalize(t *testing.T) {
	s := ProgramSettings{
		PointsPerDollar: 2,
		Tiers: TierList{
			{ID: " gold ", Name: " Gold ", RequiredLifetimePoints: 500},
			{ID: "bronze", RequiredLifetimePoints: 0},
			{ID: "silver", RequiredLifetimePoints: 500},
		},
	}
	s.Normalize()

	assert.Equal(t, "bronze", s.Tiers[0].ID)
	// Stable sort: equal thresholds keep their submitted order.
	assert.Equal(t, "gold", s.Tiers[1].ID)
	assert.Equal(t, "Gold", s.Tiers[1].Name)
	assert.Equal(t, "silver", s.Tiers[2].ID)
}

func TestLowestTierID(t *testing.T) {
	s := validSettings()
	assert.Equal(t, "bronze", s.LowestTierID())

	empty := ProgramSettings{}
	assert.Equal(t, FALLBACK_TIER_ID, empty.LowestTierID())
}

func TestTierLabel(t *testing.T) {
	s := validSettings()

	tests := []struct {
		id   string
		want string
	}{
		{id: "gold", want: "Gold"},
		{id: "tier1", want: "Tier 1"},
		{id: "tier12", want: "Tier 12"},
		{id: "platinum", want: "Platinum"},
		{id: "", want: "Tier 1"},
	}

	for _, tt := range tests {
		if got := TierLabel(tt.id, s); got != tt.want {
			t.Fatalf("TierLabel(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDefaultProgramSettingsIsFresh(t *testing.T) {
	a := DefaultProgramSettings()
	a.Tiers[0].ID = "mutated"
	a.PointsPerDollar = 99

	b := DefaultProgramSettings()
	assert.Equal(t, "starter", b.Tiers[0].ID)
	assert.Equal(t, float64(2), b.PointsPerDollar)
}

func TestProgramSettingsCoalescesOverDefaults(t *testing.T) {
	defaults := DefaultProgramSettings()

	// A nil row yields plain defaults.
	var missing *Program
	assert.Equal(t, defaults, missing.Settings())

	// Zeroed numeric fields fall back per field.
	row := Program{TenantID: "cafe", StreakEnabled: true}
	got := row.Settings()
	assert.Equal(t, defaults.PointsPerDollar, got.PointsPerDollar)
	assert.Equal(t, defaults.Tiers, got.Tiers)
	assert.True(t, got.Streak.Enabled)
	assert.Equal(t, defaults.Streak.WindowDays, got.Streak.WindowDays)

	// Configured fields win.
	row = Program{
		TenantID:          "cafe",
		PointsPerDollar:   7,
		Tiers:             TierList{{ID: "only", RequiredLifetimePoints: 0}},
		StreakEnabled:     true,
		StreakWindowDays:  5,
		StreakMinVisits:   2,
		StreakBonusPoints: 15,
	}
	got = row.Settings()
	assert.Equal(t, float64(7), got.PointsPerDollar)
	require.Len(t, got.Tiers, 1)
	assert.Equal(t, "only", got.Tiers[0].ID)
	assert.Equal(t, 5, got.Streak.WindowDays)
	assert.Equal(t, 2, got.Streak.MinVisitsForBonus)
	assert.Equal(t, 15, got.Streak.BonusPoints)
}
