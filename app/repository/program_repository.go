package repository

import (
	"errors"
	"fmt"

	"github.com/rewardcircle/rewardcircle/app/models"
	"gorm.io/gorm"
)

// programRepository implements the ProgramRepository interface
type programRepository struct {
	db *gorm.DB
}

// NewProgramRepository creates a new program settings repository instance
func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

// GetSettings resolves the active program configuration for a tenant.
// Unconfigured tenants get the hard-coded defaults; reading never creates
// a record and never fails on missing configuration.
func (r *programRepository) GetSettings(tenantID string) (models.ProgramSettings, error) {
	var program models.Program
	err := r.db.Where("tenant_id = ?", tenantID).First(&program).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultProgramSettings(), nil
		}
		return models.ProgramSettings{}, err
	}

	return program.Settings(), nil
}

// ownerEditableColumns are the only columns SaveSettings may touch. The
// program row can carry additional fields (seeded metadata, future flags);
// an owner save must not clobber them.
var ownerEditableColumns = []string{
	"points_per_dollar",
	"tiers",
	"streak_enabled",
	"streak_window_days",
	"streak_min_visits",
	"streak_bonus_points",
	"updated_at",
}

// SaveSettings validates and persists the owner-editable rule set for a
// tenant. On any validation violation nothing is persisted.
func (r *programRepository) SaveSettings(tenantID string, settings models.ProgramSettings) error {
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid program settings: %w", err)
	}

	var program models.Program
	err := r.db.Where("tenant_id = ?", tenantID).First(&program).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		program = models.Program{TenantID: tenantID}
		program.ApplySettings(settings)
		return r.db.Create(&program).Error
	}

	program.ApplySettings(settings)
	return r.db.Model(&program).Select(ownerEditableColumns).Updates(&program).Error
}
