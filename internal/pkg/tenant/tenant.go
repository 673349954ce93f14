package tenant

import (
	"github.com/rewardcircle/rewardcircle/internal/pkg/env"
)

// The reference deployment serves a single pinned tenant: the id comes
// from configuration, never from caller-supplied parameters, so the lock
// cannot be overridden from the client. The ledger engine itself stays
// tenant-parametric; pinning is purely a deployment policy applied at the
// controller boundary.

const defaultTenantID = "neon-lunchbox"

// LockedTenantID returns the tenant every request is scoped to.
func LockedTenantID() string {
	return env.GetEnv("DEFAULT_TENANT_ID", defaultTenantID)
}
