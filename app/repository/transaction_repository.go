package repository

import (
	"github.com/rewardcircle/rewardcircle/app/models"
	"gorm.io/gorm"
)

// transactionRepository implements the TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// ListByCustomer returns a customer's ledger entries, newest first
func (r *transactionRepository) ListByCustomer(tenantID string, customerID uint, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

// ListRecentByTenant returns the tenant's most recent ledger activity
func (r *transactionRepository) ListRecentByTenant(tenantID string, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

// SumLedgerPoints sums a customer's earn and redeem points. Adjust entries
// are excluded so the result can be compared against the materialized
// balance minus adjust deltas.
func (r *transactionRepository) SumLedgerPoints(tenantID string, customerID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.Transaction{}).
		Where("tenant_id = ? AND customer_id = ? AND type <> ?", tenantID, customerID, models.TX_TYPE_ADJUST).
		Select("COALESCE(SUM(points), 0)").Row().Scan(&sum)
	return sum, err
}
