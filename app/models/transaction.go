package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TX_TYPE_EARN   = "earn"
	TX_TYPE_REDEEM = "redeem"
	TX_TYPE_ADJUST = "adjust"
)

// Transaction is one entry of the append-only points ledger. Rows are only
// ever inserted, and only inside the same database transaction that updates
// the customer projection. Points are positive for earn, negative for
// redeem; adjust entries may carry either sign.
type Transaction struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	PublicID       string    `gorm:"type:varchar(36);uniqueIndex" json:"id"`
	TenantID       string    `gorm:"type:varchar(100);index:idx_transactions_tenant_created" json:"-"`
	CustomerID     uint      `gorm:"not null;index:idx_transactions_customer_created" json:"-"`
	CustomerRef    string    `gorm:"type:varchar(36);index" json:"customer_id"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`
	Points         int       `gorm:"not null" json:"points"`
	PurchaseAmount *float64  `gorm:"type:decimal(12,2);default:null" json:"purchase_amount,omitempty"`
	RewardID       string    `gorm:"type:varchar(36);default:null" json:"reward_id,omitempty"`
	StaffActorID   string    `gorm:"type:varchar(100);default:null" json:"staff_id,omitempty"`
	Note           string    `gorm:"type:varchar(255);default:null" json:"note,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_transactions_tenant_created;index:idx_transactions_customer_created" json:"created_at"`
}

// NewTransaction stamps a ledger entry with a fresh public id.
func NewTransaction(tenantID string, customer *Customer, txType string, points int) *Transaction {
	return &Transaction{
		PublicID:    uuid.NewString(),
		TenantID:    tenantID,
		CustomerID:  customer.ID,
		CustomerRef: customer.PublicID,
		Type:        txType,
		Points:      points,
	}
}
