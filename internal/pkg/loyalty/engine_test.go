package loyalty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rewardcircle/rewardcircle/app/models"
	"github.com/rewardcircle/rewardcircle/app/repository"
)

const testTenant = "cafe-test"

func newTestEngine(t *testing.T) (*Engine, *repository.Repositories) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see an empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Program{},
		&models.Customer{},
		&models.Reward{},
		&models.Transaction{},
	))

	repos := repository.NewRepositories(db)
	return NewEngine(db, repos), repos
}

// twoTierSettings is the canonical fixture: two points per dollar, a
// two-step ladder and the streak program switched off.
func twoTierSettings() models.ProgramSettings {
	return models.ProgramSettings{
		PointsPerDollar: 2,
		Tiers: models.TierList{
			{ID: "starter", Name: "Starter", RequiredLifetimePoints: 0},
			{ID: "vip", Name: "VIP", RequiredLifetimePoints: 1000},
		},
		Streak: models.StreakConfig{
			Enabled:           false,
			WindowDays:        2,
			MinVisitsForBonus: 3,
			BonusPoints:       0,
		},
	}
}

func seedReward(t *testing.T, repos *repository.Repositories, name string, cost int) *models.Reward {
	t.Helper()
	reward, err := models.NewReward(testTenant, name, "", cost, 0)
	require.NoError(t, err)
	require.NoError(t, repos.Reward.Create(reward))
	return reward
}

func TestEarnRedeemLifecycle(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	// First purchase creates the customer lazily.
	first, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "(555) 666-7777",
		Name:           "Dana",
		PurchaseAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, 200, first.NewBalance)
	assert.Equal(t, 200, first.NewLifetimePoints)
	assert.Equal(t, "starter", first.NewTier)
	assert.Equal(t, 200, first.BasePointsEarned)
	assert.Equal(t, 0, first.StreakBonus)

	// Second purchase crosses the VIP threshold.
	second, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Equal(t, 1200, second.NewBalance)
	assert.Equal(t, 1200, second.NewLifetimePoints)
	assert.Equal(t, "vip", second.NewTier)

	count, err := repos.Customer.Count(testTenant)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "same contact must reuse the customer")

	// Too expensive: the redemption is rejected and nothing changes.
	tooDear := seedReward(t, repos, "Weekend Trip", 1500)
	_, err = engine.Redeem(RedeemInput{
		TenantID:   testTenant,
		CustomerID: second.CustomerID,
		RewardID:   tooDear.PublicID,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	customer, err := repos.Customer.GetByPublicID(testTenant, second.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 1200, customer.PointsBalance, "failed redeem must not touch the balance")

	// Affordable: balance drops, lifetime and tier stay.
	dinner := seedReward(t, repos, "Free Dinner", 1000)
	redeemed, err := engine.Redeem(RedeemInput{
		TenantID:   testTenant,
		CustomerID: second.CustomerID,
		RewardID:   dinner.PublicID,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, redeemed.NewBalance)
	assert.Equal(t, 1000, redeemed.CostPoints)
	assert.Equal(t, "Free Dinner", redeemed.RewardName)

	customer, err = repos.Customer.GetByPublicID(testTenant, second.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 200, customer.PointsBalance)
	assert.Equal(t, 1200, customer.LifetimePoints, "redeeming must not reduce lifetime points")
	assert.Equal(t, "vip", customer.CurrentTier, "redeeming must not demote the tier")

	// The earn/redeem ledger sums to the live balance.
	sum, err := repos.Transaction.SumLedgerPoints(testTenant, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(customer.PointsBalance), sum)
}

func TestEarnValidation(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	_, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		PurchaseAmount: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrInvalidInput, "contactless earn must fail")

	_, err = engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "555", // too short to normalize
		PurchaseAmount: decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.Zero,
	})
	require.ErrorIs(t, err, ErrInvalidInput, "zero amount must fail")

	count, err := repos.Customer.Count(testTenant)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "rejected earns must not create customers")
}

func TestEarnRoundsHalfAwayFromZero(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	// 10.25 * 2 = 20.5 rounds up to 21.
	result, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Email:          "dana@example.com",
		PurchaseAmount: decimal.RequireFromString("10.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, 21, result.BasePointsEarned)
	assert.Equal(t, 21, result.NewBalance)
}

func TestEarnStreakProgression(t *testing.T) {
	engine, repos := newTestEngine(t)

	settings := twoTierSettings()
	settings.Streak = models.StreakConfig{
		Enabled:           true,
		WindowDays:        2,
		MinVisitsForBonus: 3,
		BonusPoints:       50,
	}
	require.NoError(t, repos.Program.SaveSettings(testTenant, settings))

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.Now = func() time.Time { return clock }

	earn := func() *EarnResult {
		t.Helper()
		result, err := engine.Earn(EarnInput{
			TenantID:       testTenant,
			Phone:          "5556667777",
			PurchaseAmount: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		return result
	}

	// Day 1: first visit, streak 1, no bonus.
	result := earn()
	assert.Equal(t, 1, result.NewStreak)
	assert.Equal(t, 0, result.StreakBonus)

	// Same day again: no advance, no bonus.
	result = earn()
	assert.Equal(t, 1, result.NewStreak)
	assert.Equal(t, 0, result.StreakBonus)

	// Day 2: streak 2, still below the minimum.
	clock = clock.AddDate(0, 0, 1)
	result = earn()
	assert.Equal(t, 2, result.NewStreak)
	assert.Equal(t, 0, result.StreakBonus)

	// Day 3: streak 3 hits the minimum, bonus lands.
	clock = clock.AddDate(0, 0, 1)
	result = earn()
	assert.Equal(t, 3, result.NewStreak)
	assert.Equal(t, 50, result.StreakBonus)
	assert.Equal(t, 130, result.NewBalance, "three base earns of 20 plus the 50 bonus")

	// Day 4: bonus fires again, not just the first time.
	clock = clock.AddDate(0, 0, 1)
	result = earn()
	assert.Equal(t, 4, result.NewStreak)
	assert.Equal(t, 50, result.StreakBonus)

	// Three quiet days exceed the window: reset to 1, no bonus.
	clock = clock.AddDate(0, 0, 3)
	result = earn()
	assert.Equal(t, 1, result.NewStreak)
	assert.Equal(t, 0, result.StreakBonus)
}

func TestEarnBackfillsContactAndName(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	first, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	customer, err := repos.Customer.GetByPublicID(testTenant, first.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "+15556667777", customer.Name, "nameless customer falls back to contact")
	assert.Empty(t, customer.Email)

	_, err = engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		Email:          "Dana@Example.com",
		Name:           "Dana",
		PurchaseAmount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	customer, err = repos.Customer.GetByPublicID(testTenant, first.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", customer.Name)
	assert.Equal(t, "dana@example.com", customer.Email, "normalized email backfilled on later earn")
}

func TestRedeemErrors(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	earned, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	reward := seedReward(t, repos, "Coffee", 10)

	_, err = engine.Redeem(RedeemInput{TenantID: testTenant, CustomerID: "", RewardID: reward.PublicID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Redeem(RedeemInput{TenantID: testTenant, CustomerID: "missing", RewardID: reward.PublicID})
	require.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = engine.Redeem(RedeemInput{TenantID: testTenant, CustomerID: earned.CustomerID, RewardID: "missing"})
	require.ErrorIs(t, err, ErrRewardNotFound)

	// Archived rewards cannot be redeemed even with enough points.
	reward.Active = false
	require.NoError(t, repos.Reward.Update(reward))
	_, err = engine.Redeem(RedeemInput{TenantID: testTenant, CustomerID: earned.CustomerID, RewardID: reward.PublicID})
	require.ErrorIs(t, err, ErrInvalidReward)

	// A customer from another tenant is invisible here.
	_, err = engine.Redeem(RedeemInput{TenantID: "other-tenant", CustomerID: earned.CustomerID, RewardID: reward.PublicID})
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestSequentialRedeemsCannotOverdraft(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	earned, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(50), // 100 points
	})
	require.NoError(t, err)

	reward := seedReward(t, repos, "Pastry", 60)

	first, err := engine.Redeem(RedeemInput{TenantID: testTenant, CustomerID: earned.CustomerID, RewardID: reward.PublicID})
	require.NoError(t, err)
	assert.Equal(t, 40, first.NewBalance)

	// The second attempt sees the committed balance and is rejected.
	_, err = engine.Redeem(RedeemInput{TenantID: testTenant, CustomerID: earned.CustomerID, RewardID: reward.PublicID})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	customer, err := repos.Customer.GetByPublicID(testTenant, earned.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 40, customer.PointsBalance)
	assert.GreaterOrEqual(t, customer.PointsBalance, 0)
}

func TestAdjust(t *testing.T) {
	engine, repos := newTestEngine(t)
	require.NoError(t, repos.Program.SaveSettings(testTenant, twoTierSettings()))

	earned, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(50), // 100 points
	})
	require.NoError(t, err)

	// Positive adjustment raises lifetime and can promote.
	up, err := engine.Adjust(AdjustInput{
		TenantID:   testTenant,
		CustomerID: earned.CustomerID,
		Points:     950,
		Note:       "goodwill credit",
	})
	require.NoError(t, err)
	assert.Equal(t, 1050, up.NewBalance)
	assert.Equal(t, 1050, up.NewLifetimePoints)
	assert.Equal(t, "vip", up.NewTier)

	// Negative adjustment only reduces the balance.
	down, err := engine.Adjust(AdjustInput{
		TenantID:   testTenant,
		CustomerID: earned.CustomerID,
		Points:     -100,
		Note:       "entry error",
	})
	require.NoError(t, err)
	assert.Equal(t, 950, down.NewBalance)
	assert.Equal(t, 1050, down.NewLifetimePoints, "negative adjustments leave lifetime alone")
	assert.Equal(t, "vip", down.NewTier)

	// Overdrafting and zero deltas are rejected.
	_, err = engine.Adjust(AdjustInput{TenantID: testTenant, CustomerID: earned.CustomerID, Points: -10000})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = engine.Adjust(AdjustInput{TenantID: testTenant, CustomerID: earned.CustomerID, Points: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	customer, err := repos.Customer.GetByPublicID(testTenant, earned.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 950, customer.PointsBalance, "rejected adjustments must not change the balance")
}

func TestEarnWritesLedgerEntry(t *testing.T) {
	engine, repos := newTestEngine(t)

	settings := twoTierSettings()
	settings.Streak = models.StreakConfig{
		Enabled:           true,
		WindowDays:        2,
		MinVisitsForBonus: 1,
		BonusPoints:       25,
	}
	require.NoError(t, repos.Program.SaveSettings(testTenant, settings))

	clock := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	engine.Now = func() time.Time { return clock }

	// First visit starts the streak at 1, no bonus yet.
	first, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(10),
		ActorID:        "7",
	})
	require.NoError(t, err)

	// Next day qualifies immediately with min visits of 1.
	clock = clock.AddDate(0, 0, 1)
	second, err := engine.Earn(EarnInput{
		TenantID:       testTenant,
		Phone:          "5556667777",
		PurchaseAmount: decimal.NewFromInt(10),
		ActorID:        "7",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, second.StreakBonus)

	customer, err := repos.Customer.GetByPublicID(testTenant, first.CustomerID)
	require.NoError(t, err)

	entries, err := repos.Transaction.ListByCustomer(testTenant, customer.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: the bonus-carrying entry is annotated.
	latest := entries[0]
	assert.Equal(t, models.TX_TYPE_EARN, latest.Type)
	assert.Equal(t, 20+25, latest.Points)
	assert.Equal(t, "Includes streak bonus", latest.Note)
	assert.Equal(t, "7", latest.StaffActorID)
	require.NotNil(t, latest.PurchaseAmount)
	assert.InDelta(t, 10.0, *latest.PurchaseAmount, 0.001)

	assert.Empty(t, entries[1].Note)
}
