package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Tenant is one business running its own loyalty program. All customers,
// rewards and transactions are scoped by the tenant slug; no operation
// crosses tenants.
type Tenant struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Slug      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"id" validate:"required,min=1,max=100"`
	Name      string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=1,max=150"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tenant) Validate() error {
	v := validator.New()

	return v.Struct(t)
}
