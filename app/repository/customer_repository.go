package repository

import (
	"errors"

	"github.com/rewardcircle/rewardcircle/app/models"
	"gorm.io/gorm"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts a new customer record
func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// GetByPublicID retrieves a customer by their opaque public id within a tenant
func (r *customerRepository) GetByPublicID(tenantID, publicID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("tenant_id = ? AND public_id = ?", tenantID, publicID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByContact retrieves a customer by normalized phone or email within a
// tenant. Phone wins when both are supplied, matching how staff identify
// walk-in customers.
func (r *customerRepository) GetByContact(tenantID, phone, email string) (*models.Customer, error) {
	var customer models.Customer

	query := r.db.Where("tenant_id = ?", tenantID)
	switch {
	case phone != "":
		query = query.Where("phone = ?", phone)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		return nil, gorm.ErrRecordNotFound
	}

	err := query.First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindOrCreateByContact returns the existing customer for the contact or
// lazily creates one seeded at the tenant's lowest tier with zeroed
// counters. The second return value reports whether a record was created.
func (r *customerRepository) FindOrCreateByContact(tenantID, phone, email, name, lowestTier string) (*models.Customer, bool, error) {
	existing, err := r.GetByContact(tenantID, phone, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	customer := models.NewCustomer(tenantID, name, phone, email, lowestTier)
	if err := r.db.Create(customer).Error; err != nil {
		return nil, false, err
	}

	return customer, true, nil
}

// ListByTenant returns the tenant's customer roster ordered by name
func (r *customerRepository) ListByTenant(tenantID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&customers).Error
	return customers, err
}

// Count returns the number of customers in a tenant
func (r *customerRepository) Count(tenantID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
