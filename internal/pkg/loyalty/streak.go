package loyalty

import (
	"time"

	"github.com/rewardcircle/rewardcircle/app/models"
)

// StreakResult is the outcome of evaluating one visit against the streak
// rules: the updated consecutive-visit count and any bonus points this
// visit earned.
type StreakResult struct {
	NewStreak   int
	BonusPoints int
}

// UpdateStreak advances a customer's visit streak for a visit happening
// "today". Rules, in order:
//
//  1. Streak program off: nothing changes, no bonus.
//  2. First-ever visit: streak starts at 1, no bonus.
//  3. Same calendar day as the last visit: unchanged, no bonus.
//  4. Within the window (inclusive): streak continues; the bonus is
//     awarded whenever the new streak has reached the minimum. It fires
//     again on every qualifying visit, not just the first time.
//  5. Past the window: streak resets to 1, no bonus.
//
// Dates are compared on whole calendar days (UTC midnight).
func UpdateStreak(currentStreak int, lastVisit *time.Time, today time.Time, cfg models.StreakConfig) StreakResult {
	if !cfg.Enabled {
		return StreakResult{NewStreak: currentStreak}
	}

	if lastVisit == nil {
		return StreakResult{NewStreak: 1}
	}

	diffDays := DaysBetween(*lastVisit, today)

	if diffDays == 0 {
		return StreakResult{NewStreak: currentStreak}
	}

	if diffDays > 0 && diffDays <= cfg.WindowDays {
		next := currentStreak + 1
		bonus := 0
		if next >= cfg.MinVisitsForBonus {
			bonus = cfg.BonusPoints
		}
		return StreakResult{NewStreak: next, BonusPoints: bonus}
	}

	return StreakResult{NewStreak: 1}
}

// TruncateToDay drops the time-of-day component, anchoring the instant at
// UTC midnight of its calendar date.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(TruncateToDay(b).Sub(TruncateToDay(a)).Hours() / 24)
}
