package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward is a catalog entry customers can redeem points against.
// Rewards are never hard-deleted; retiring one sets Active to false so
// historical redemptions keep a valid reference.
type Reward struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	PublicID    string         `gorm:"type:varchar(36);uniqueIndex" json:"id"`
	TenantID    string         `gorm:"type:varchar(100);index" json:"-"`
	Name        string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=1,max=150"`
	Description string         `gorm:"type:text" json:"description" validate:"max=1000"`
	PointsCost  int            `gorm:"not null" json:"points_cost" validate:"required,gt=0"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Reward) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

// NewReward creates an active reward for a tenant with a fresh public id.
func NewReward(tenantID, name, description string, pointsCost, sortOrder int) (*Reward, error) {
	r := &Reward{
		PublicID:    uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		PointsCost:  pointsCost,
		Active:      true,
		SortOrder:   sortOrder,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}
