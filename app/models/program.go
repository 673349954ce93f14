package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FALLBACK_TIER_ID is returned by the tier resolver when a tenant somehow
// has no tiers configured. Seeing it in data signals misconfiguration.
const FALLBACK_TIER_ID = "tier1"

// Tier is one bracket of a tenant's tier ladder.
type Tier struct {
	ID                     string `json:"id" validate:"required,min=1,max=50"`
	Name                   string `json:"name" validate:"max=100"`
	RequiredLifetimePoints int    `json:"required_lifetime_points" validate:"min=0"`
}

// TierList is an ordered tier ladder, ascending by threshold. It is stored
// as a JSON text column on the program row.
type TierList []Tier

// Value implements driver.Valuer so gorm can persist the ladder as JSON.
func (t TierList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON ladder back.
func (t *TierList) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("cannot scan %T into TierList", value)
	}
}

// StreakConfig controls the consecutive-visit bonus program.
type StreakConfig struct {
	Enabled           bool `json:"enabled"`
	WindowDays        int  `json:"window_days" validate:"gt=0"`
	MinVisitsForBonus int  `json:"min_visits_for_bonus" validate:"gt=0"`
	BonusPoints       int  `json:"bonus_points" validate:"min=0"`
}

// ProgramSettings is the owner-editable rule set of a tenant's loyalty
// program: earn rate, tier ladder and streak bonus configuration.
type ProgramSettings struct {
	PointsPerDollar float64      `json:"points_per_dollar" validate:"required,gt=0"`
	Tiers           TierList     `json:"tiers" validate:"required,min=1,dive"`
	Streak          StreakConfig `json:"streak"`
}

// Program is the per-tenant settings row. Only the columns mirrored in
// ProgramSettings are owner-editable; saves must not touch anything else
// the row may carry.
type Program struct {
	ID                uint      `gorm:"primaryKey"`
	TenantID          string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	PointsPerDollar   float64   `gorm:"not null;default:1"`
	Tiers             TierList  `gorm:"type:text"`
	StreakEnabled     bool      `gorm:"not null;default:false"`
	StreakWindowDays  int       `gorm:"not null;default:2"`
	StreakMinVisits   int       `gorm:"not null;default:3"`
	StreakBonusPoints int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// DefaultProgramSettings returns the canonical rule set used for tenants
// that never configured their program. Always a fresh value; callers may
// mutate the result freely.
func DefaultProgramSettings() ProgramSettings {
	return ProgramSettings{
		PointsPerDollar: 2,
		Tiers: TierList{
			{ID: "starter", Name: "Starter", RequiredLifetimePoints: 0},
			{ID: "intermediate", Name: "Intermediate", RequiredLifetimePoints: 1000},
			{ID: "expert", Name: "Expert", RequiredLifetimePoints: 2500},
			{ID: "vip", Name: "VIP", RequiredLifetimePoints: 5000},
		},
		Streak: StreakConfig{
			Enabled:           true,
			WindowDays:        2,
			MinVisitsForBonus: 3,
			BonusPoints:       50,
		},
	}
}

// Validate checks field constraints plus the structural invariants of the
// tier ladder: at least one tier, unique non-empty ids, thresholds
// non-decreasing in list order.
func (s *ProgramSettings) Validate() error {
	v := validator.New()
	if err := v.Struct(s); err != nil {
		return err
	}

	if !isFinite(s.PointsPerDollar) {
		return fmt.Errorf("points_per_dollar must be a finite number")
	}

	seen := make(map[string]bool, len(s.Tiers))
	prev := -1
	for _, tier := range s.Tiers {
		id := strings.TrimSpace(tier.ID)
		if id == "" {
			return fmt.Errorf("tier id must not be empty")
		}
		if seen[id] {
			return fmt.Errorf("duplicate tier id %q", id)
		}
		seen[id] = true
		if tier.RequiredLifetimePoints < prev {
			return fmt.Errorf("tier %q threshold %d breaks ascending order", id, tier.RequiredLifetimePoints)
		}
		prev = tier.RequiredLifetimePoints
	}

	return nil
}

// Normalize trims tier ids/names and sorts the ladder ascending by
// threshold (stable, so equal thresholds keep their submitted order).
func (s *ProgramSettings) Normalize() {
	for i := range s.Tiers {
		s.Tiers[i].ID = strings.TrimSpace(s.Tiers[i].ID)
		s.Tiers[i].Name = strings.TrimSpace(s.Tiers[i].Name)
	}
	sort.SliceStable(s.Tiers, func(i, j int) bool {
		return s.Tiers[i].RequiredLifetimePoints < s.Tiers[j].RequiredLifetimePoints
	})
}

// LowestTierID returns the id new customers are seeded with.
func (s ProgramSettings) LowestTierID() string {
	if len(s.Tiers) == 0 {
		return FALLBACK_TIER_ID
	}
	return s.Tiers[0].ID
}

var legacyTierPattern = regexp.MustCompile(`^tier(\d+)$`)

// TierLabel resolves a display name for a tier id: the configured name
// when present, "Tier N" for legacy tierN ids, otherwise the capitalized
// id itself.
func TierLabel(tierID string, s ProgramSettings) string {
	for _, tier := range s.Tiers {
		if tier.ID == tierID && tier.Name != "" {
			return tier.Name
		}
	}

	if m := legacyTierPattern.FindStringSubmatch(strings.ToLower(tierID)); m != nil {
		return "Tier " + m[1]
	}

	if tierID != "" {
		return strings.ToUpper(tierID[:1]) + tierID[1:]
	}

	return "Tier 1"
}

// Settings materializes the stored row into a full rule set, coalescing
// every missing or out-of-range field over the defaults the same way a
// loosely-typed settings document would be normalized at the boundary.
func (p *Program) Settings() ProgramSettings {
	s := DefaultProgramSettings()

	if p == nil {
		return s
	}

	if p.PointsPerDollar > 0 && isFinite(p.PointsPerDollar) {
		s.PointsPerDollar = p.PointsPerDollar
	}
	if len(p.Tiers) > 0 {
		s.Tiers = append(TierList(nil), p.Tiers...)
	}

	s.Streak.Enabled = p.StreakEnabled
	if p.StreakWindowDays > 0 {
		s.Streak.WindowDays = p.StreakWindowDays
	}
	if p.StreakMinVisits > 0 {
		s.Streak.MinVisitsForBonus = p.StreakMinVisits
	}
	if p.StreakBonusPoints >= 0 {
		s.Streak.BonusPoints = p.StreakBonusPoints
	}

	return s
}

// ApplySettings copies the owner-editable fields onto the row.
func (p *Program) ApplySettings(s ProgramSettings) {
	p.PointsPerDollar = s.PointsPerDollar
	p.Tiers = append(TierList(nil), s.Tiers...)
	p.StreakEnabled = s.Streak.Enabled
	p.StreakWindowDays = s.Streak.WindowDays
	p.StreakMinVisits = s.Streak.MinVisitsForBonus
	p.StreakBonusPoints = s.Streak.BonusPoints
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
