package loyalty

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the ledger engine. Controllers map these onto HTTP
// status codes; nothing in the engine is ever swallowed silently.
var (
	// ErrInvalidInput marks malformed or out-of-range request fields.
	// Caller-fixable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCustomerNotFound means the referenced customer does not exist in
	// the tenant.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrRewardNotFound means the referenced reward does not exist in the
	// tenant.
	ErrRewardNotFound = errors.New("reward not found")

	// ErrInvalidReward marks a misconfigured catalog entry (inactive, or
	// no positive points cost).
	ErrInvalidReward = errors.New("reward is not redeemable")

	// ErrInsufficientBalance is the expected business rejection when a
	// customer cannot afford a reward. Not a system fault.
	ErrInsufficientBalance = errors.New("insufficient points balance")

	// ErrPersistence means the atomic write did not commit. No partial
	// state is left behind; the caller may safely resubmit.
	ErrPersistence = errors.New("persistence failure")
)

// wrapPersistence tags unexpected storage errors while letting the typed
// business failures above pass through untouched.
func wrapPersistence(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrInvalidInput,
		ErrCustomerNotFound,
		ErrRewardNotFound,
		ErrInvalidReward,
		ErrInsufficientBalance,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
