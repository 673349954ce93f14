package loyalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rewardcircle/rewardcircle/app/models"
	"github.com/rewardcircle/rewardcircle/app/repository"
)

// Engine orchestrates earn, redeem and adjust operations against the
// points ledger. Every mutation updates the customer projection and
// appends the matching transaction row inside one database transaction,
// with the customer row locked for the duration. Two concurrent
// operations on the same customer therefore serialize: the second sees
// the first's committed balance before evaluating its own checks.
//
// The engine is tenant-parametric; it never reads or writes across
// tenants in one operation.
type Engine struct {
	db    *gorm.DB
	repos *repository.Repositories

	// Now supplies "today" for streak evaluation. Overridable in tests.
	Now func() time.Time
}

// NewEngine creates a ledger engine over the given database handle and
// repositories.
func NewEngine(db *gorm.DB, repos *repository.Repositories) *Engine {
	return &Engine{
		db:    db,
		repos: repos,
		Now:   time.Now,
	}
}

// EarnInput describes a purchase event to credit points for. At least one
// of Phone/Email is required; Name is optional and backfills the customer
// record when supplied.
type EarnInput struct {
	TenantID       string
	Phone          string
	Email          string
	Name           string
	PurchaseAmount decimal.Decimal
	ActorID        string
}

// EarnResult summarizes a committed earn operation.
type EarnResult struct {
	CustomerID        string `json:"customer_id"`
	NewBalance        int    `json:"new_balance"`
	NewLifetimePoints int    `json:"new_lifetime_points"`
	NewTier           string `json:"new_tier"`
	NewStreak         int    `json:"new_streak"`
	StreakBonus       int    `json:"streak_bonus"`
	BasePointsEarned  int    `json:"base_points_earned"`
}

// Earn credits points for a purchase: base points from the tenant's earn
// rate plus any streak bonus, raising both balance and lifetime points and
// re-deriving the tier. The customer is created lazily when the contact is
// unseen. Customer update and earn transaction commit together or not at
// all.
func (e *Engine) Earn(in EarnInput) (*EarnResult, error) {
	phone := models.NormalizePhone(in.Phone)
	email := models.NormalizeEmail(in.Email)
	if phone == "" && email == "" {
		return nil, fmt.Errorf("%w: a valid phone or email is required", ErrInvalidInput)
	}
	if !in.PurchaseAmount.IsPositive() {
		return nil, fmt.Errorf("%w: purchase amount must be greater than zero", ErrInvalidInput)
	}

	settings, err := e.repos.Program.GetSettings(in.TenantID)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	customer, _, err := e.repos.Customer.FindOrCreateByContact(in.TenantID, phone, email, in.Name, settings.LowestTierID())
	if err != nil {
		return nil, wrapPersistence(err)
	}

	rate := decimal.NewFromFloat(settings.PointsPerDollar)
	basePoints := int(in.PurchaseAmount.Mul(rate).Round(0).IntPart())

	today := TruncateToDay(e.Now())
	purchaseAmount, _ := in.PurchaseAmount.Float64()

	var result EarnResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var locked models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, customer.ID).Error; err != nil {
			return err
		}

		streak := UpdateStreak(locked.StreakCount, locked.LastVisitDate, today, settings.Streak)
		totalEarned := basePoints + streak.BonusPoints

		locked.PointsBalance += totalEarned
		locked.LifetimePoints += totalEarned
		locked.CurrentTier = ResolveTier(locked.LifetimePoints, settings.Tiers)
		locked.StreakCount = streak.NewStreak
		locked.LastVisitDate = &today
		locked.LastActivityAt = e.Now()
		if in.Name != "" {
			locked.Name = in.Name
		}
		if locked.Phone == "" && phone != "" {
			locked.Phone = phone
		}
		if locked.Email == "" && email != "" {
			locked.Email = email
		}

		if err := tx.Save(&locked).Error; err != nil {
			return err
		}

		entry := models.NewTransaction(in.TenantID, &locked, models.TX_TYPE_EARN, totalEarned)
		entry.PurchaseAmount = &purchaseAmount
		entry.StaffActorID = in.ActorID
		if streak.BonusPoints > 0 {
			entry.Note = "Includes streak bonus"
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		result = EarnResult{
			CustomerID:        locked.PublicID,
			NewBalance:        locked.PointsBalance,
			NewLifetimePoints: locked.LifetimePoints,
			NewTier:           locked.CurrentTier,
			NewStreak:         locked.StreakCount,
			StreakBonus:       streak.BonusPoints,
			BasePointsEarned:  basePoints,
		}
		return nil
	})
	if err != nil {
		return nil, wrapPersistence(err)
	}

	return &result, nil
}

// RedeemInput identifies the customer and reward of a redemption.
type RedeemInput struct {
	TenantID   string
	CustomerID string
	RewardID   string
	ActorID    string
}

// RedeemResult summarizes a committed redemption.
type RedeemResult struct {
	CustomerID string `json:"customer_id"`
	RewardID   string `json:"reward_id"`
	NewBalance int    `json:"new_balance"`
	CostPoints int    `json:"cost_points"`
	RewardName string `json:"reward_name"`
}

// Redeem debits a reward's cost from the customer's balance and appends
// the redeem transaction. Lifetime points and tier are untouched: tier
// reflects cumulative earning history, not current spending power. The
// sufficiency check runs against the locked row inside the transaction,
// so a concurrent redemption cannot overdraft the balance.
func (e *Engine) Redeem(in RedeemInput) (*RedeemResult, error) {
	if in.CustomerID == "" || in.RewardID == "" {
		return nil, fmt.Errorf("%w: customer id and reward id are required", ErrInvalidInput)
	}

	var result RedeemResult
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND public_id = ?", in.TenantID, in.CustomerID).
			First(&customer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		var reward models.Reward
		err = tx.Where("tenant_id = ? AND public_id = ?", in.TenantID, in.RewardID).
			First(&reward).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}

		if !reward.Active || reward.PointsCost <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidReward, reward.Name)
		}
		if customer.PointsBalance < reward.PointsCost {
			return fmt.Errorf("%w: balance %d is %d points short of %d",
				ErrInsufficientBalance, customer.PointsBalance,
				reward.PointsCost-customer.PointsBalance, reward.PointsCost)
		}

		now := e.Now()
		customer.PointsBalance -= reward.PointsCost
		customer.LastRewardID = reward.PublicID
		customer.LastRedeemedAt = &now
		customer.LastActivityAt = now

		if err := tx.Save(&customer).Error; err != nil {
			return err
		}

		entry := models.NewTransaction(in.TenantID, &customer, models.TX_TYPE_REDEEM, -reward.PointsCost)
		entry.RewardID = reward.PublicID
		entry.StaffActorID = in.ActorID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		result = RedeemResult{
			CustomerID: customer.PublicID,
			RewardID:   reward.PublicID,
			NewBalance: customer.PointsBalance,
			CostPoints: reward.PointsCost,
			RewardName: reward.Name,
		}
		return nil
	})
	if err != nil {
		return nil, wrapPersistence(err)
	}

	return &result, nil
}

// AdjustInput describes a manual points correction by an owner.
type AdjustInput struct {
	TenantID   string
	CustomerID string
	Points     int
	Note       string
	ActorID    string
}

// AdjustResult summarizes a committed adjustment.
type AdjustResult struct {
	CustomerID        string `json:"customer_id"`
	NewBalance        int    `json:"new_balance"`
	NewLifetimePoints int    `json:"new_lifetime_points"`
	NewTier           string `json:"new_tier"`
}

// Adjust applies a manual delta to a customer's balance and records an
// adjust transaction. Positive deltas also raise lifetime points and
// re-derive the tier; negative deltas only reduce the balance and may
// never drive it below zero. Lifetime points never decrease.
func (e *Engine) Adjust(in AdjustInput) (*AdjustResult, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	if in.Points == 0 {
		return nil, fmt.Errorf("%w: adjustment points must not be zero", ErrInvalidInput)
	}

	settings, err := e.repos.Program.GetSettings(in.TenantID)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	var result AdjustResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND public_id = ?", in.TenantID, in.CustomerID).
			First(&customer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		if customer.PointsBalance+in.Points < 0 {
			return fmt.Errorf("%w: adjustment would drive balance %d below zero",
				ErrInvalidInput, customer.PointsBalance)
		}

		customer.PointsBalance += in.Points
		if in.Points > 0 {
			customer.LifetimePoints += in.Points
			customer.CurrentTier = ResolveTier(customer.LifetimePoints, settings.Tiers)
		}
		customer.LastActivityAt = e.Now()

		if err := tx.Save(&customer).Error; err != nil {
			return err
		}

		entry := models.NewTransaction(in.TenantID, &customer, models.TX_TYPE_ADJUST, in.Points)
		entry.StaffActorID = in.ActorID
		entry.Note = in.Note
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		result = AdjustResult{
			CustomerID:        customer.PublicID,
			NewBalance:        customer.PointsBalance,
			NewLifetimePoints: customer.LifetimePoints,
			NewTier:           customer.CurrentTier,
		}
		return nil
	})
	if err != nil {
		return nil, wrapPersistence(err)
	}

	return &result, nil
}
