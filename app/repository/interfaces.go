package repository

import (
	"github.com/rewardcircle/rewardcircle/app/models"
	"gorm.io/gorm"
)

// CustomerRepository defines tenant-scoped customer directory operations.
// Lookup is by opaque public id or by normalized contact; creation happens
// lazily on first earn for an unseen contact.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByPublicID(tenantID, publicID string) (*models.Customer, error)
	GetByContact(tenantID, phone, email string) (*models.Customer, error)
	FindOrCreateByContact(tenantID, phone, email, name, lowestTier string) (*models.Customer, bool, error)
	ListByTenant(tenantID string) ([]models.Customer, error)
	Count(tenantID string) (int64, error)
}

// RewardRepository defines read/write access to a tenant's reward catalog.
// There is no Delete; retiring a reward means setting Active to false.
type RewardRepository interface {
	Create(reward *models.Reward) error
	GetByPublicID(tenantID, publicID string) (*models.Reward, error)
	ListByTenant(tenantID string) ([]models.Reward, error)
	ListActiveByTenant(tenantID string) ([]models.Reward, error)
	Update(reward *models.Reward) error
}

// TransactionRepository is read-only outside the ledger engine: entries are
// appended exclusively inside the engine's atomic write, never updated or
// deleted.
type TransactionRepository interface {
	ListByCustomer(tenantID string, customerID uint, limit int) ([]models.Transaction, error)
	ListRecentByTenant(tenantID string, limit int) ([]models.Transaction, error)
	SumLedgerPoints(tenantID string, customerID uint) (int64, error)
}

// ProgramRepository resolves and persists per-tenant program settings.
// Reads never fail on missing configuration and never create records;
// writes validate the full rule set and touch only owner-editable fields.
type ProgramRepository interface {
	GetSettings(tenantID string) (models.ProgramSettings, error)
	SaveSettings(tenantID string, settings models.ProgramSettings) error
}

// UserRepository defines staff/owner account operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// TenantRepository resolves tenant records by slug.
type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetBySlug(slug string) (*models.Tenant, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Customer    CustomerRepository
	Reward      RewardRepository
	Transaction TransactionRepository
	Program     ProgramRepository
	User        UserRepository
	Tenant      TenantRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:    NewCustomerRepository(db),
		Reward:      NewRewardRepository(db),
		Transaction: NewTransactionRepository(db),
		Program:     NewProgramRepository(db),
		User:        NewUserRepository(db),
		Tenant:      NewTenantRepository(db),
	}
}
