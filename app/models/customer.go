package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a loyalty program member within one tenant. A customer is
// identified by a contact (phone or email) and carries the materialized
// projection of their transaction ledger: balance, lifetime points, tier
// and streak. LifetimePoints only ever grows; redemptions reduce the
// balance but never the lifetime total.
type Customer struct {
	ID             uint           `gorm:"primaryKey" json:"-"`
	PublicID       string         `gorm:"type:varchar(36);uniqueIndex" json:"id"`
	TenantID       string         `gorm:"type:varchar(100);index:idx_customers_tenant;index:idx_customers_tenant_phone;index:idx_customers_tenant_email" json:"-"`
	Name           string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=1,max=150"`
	Phone          string         `gorm:"type:varchar(20);default:null;index:idx_customers_tenant_phone" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email          string         `gorm:"type:varchar(200);default:null;index:idx_customers_tenant_email" json:"email,omitempty" validate:"omitempty,email,max=200"`
	PointsBalance  int            `gorm:"not null;default:0" json:"points_balance" validate:"min=0"`
	LifetimePoints int            `gorm:"not null;default:0" json:"lifetime_points" validate:"min=0"`
	CurrentTier    string         `gorm:"type:varchar(50)" json:"current_tier"`
	StreakCount    int            `gorm:"not null;default:0" json:"streak_count" validate:"min=0"`
	LastVisitDate  *time.Time     `gorm:"type:date;default:null" json:"last_visit_date,omitempty"`
	LastRewardID   string         `gorm:"type:varchar(36);default:null" json:"-"`
	LastRedeemedAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastActivityAt time.Time      `gorm:"autoUpdateTime" json:"last_activity_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"joined_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// NewCustomer seeds a fresh customer record at the given tier with zeroed
// counters. At least one of phone/email must already be normalized.
func NewCustomer(tenantID, name, phone, email, lowestTier string) *Customer {
	display := strings.TrimSpace(name)
	if display == "" {
		if phone != "" {
			display = phone
		} else {
			display = email
		}
	}

	return &Customer{
		PublicID:    uuid.NewString(),
		TenantID:    tenantID,
		Name:        display,
		Phone:       phone,
		Email:       email,
		CurrentTier: lowestTier,
	}
}

// HasContact reports whether the customer carries at least one contact identity.
func (c *Customer) HasContact() bool {
	return c.Phone != "" || c.Email != ""
}

// NormalizePhone coerces common US phone inputs into E.164 form:
// "5556667777", "(555) 666-7777" and "+1 555 666 7777" all become
// "+15556667777". Returns the empty string when no ten-digit national
// number can be extracted.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) < 10 {
		return ""
	}

	// Keep the last ten digits as the national number. This covers
	// "1XXXXXXXXXX", bare "XXXXXXXXXX" and longer garbage alike.
	return "+1" + d[len(d)-10:]
}

// NormalizeEmail lowercases and trims an email for contact matching.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
