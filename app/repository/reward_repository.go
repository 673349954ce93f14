package repository

import (
	"github.com/rewardcircle/rewardcircle/app/models"
	"gorm.io/gorm"
)

// rewardRepository implements the RewardRepository interface
type rewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates a new reward repository instance
func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

// Create inserts a new reward into the tenant's catalog
func (r *rewardRepository) Create(reward *models.Reward) error {
	return r.db.Create(reward).Error
}

// GetByPublicID retrieves a reward by its opaque public id within a tenant
func (r *rewardRepository) GetByPublicID(tenantID, publicID string) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.Where("tenant_id = ? AND public_id = ?", tenantID, publicID).First(&reward).Error
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// ListByTenant returns the full catalog in display order, archived entries included
func (r *rewardRepository) ListByTenant(tenantID string) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("sort_order ASC, id ASC").Find(&rewards).Error
	return rewards, err
}

// ListActiveByTenant returns only redeemable rewards in display order
func (r *rewardRepository) ListActiveByTenant(tenantID string) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("sort_order ASC, id ASC").Find(&rewards).Error
	return rewards, err
}

// Update saves changes to an existing reward
func (r *rewardRepository) Update(reward *models.Reward) error {
	return r.db.Save(reward).Error
}
