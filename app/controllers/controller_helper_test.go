package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rewardcircle/rewardcircle/internal/pkg/loyalty"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{err: loyalty.ErrInvalidInput, wantStatus: fiber.StatusBadRequest, wantCode: "invalid_input"},
		{err: loyalty.ErrInvalidReward, wantStatus: fiber.StatusBadRequest, wantCode: "invalid_reward"},
		{err: loyalty.ErrInsufficientBalance, wantStatus: fiber.StatusBadRequest, wantCode: "insufficient_balance"},
		{err: loyalty.ErrCustomerNotFound, wantStatus: fiber.StatusNotFound, wantCode: "not_found"},
		{err: loyalty.ErrRewardNotFound, wantStatus: fiber.StatusNotFound, wantCode: "not_found"},
		{err: loyalty.ErrPersistence, wantStatus: fiber.StatusInternalServerError, wantCode: "persistence_failure"},
		{err: gorm.ErrRecordNotFound, wantStatus: fiber.StatusNotFound, wantCode: "not_found"},
		{err: errors.New("boom"), wantStatus: fiber.StatusInternalServerError, wantCode: "internal_server_error"},
	}

	for _, tt := range tests {
		status, code := statusForError(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Fatalf("statusForError(%v) = (%d, %q), want (%d, %q)",
				tt.err, status, code, tt.wantStatus, tt.wantCode)
		}
	}
}

func TestStatusForErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: balance 10 is 5 points short of 15", loyalty.ErrInsufficientBalance)
	status, code := statusForError(wrapped)
	if status != fiber.StatusBadRequest || code != "insufficient_balance" {
		t.Fatalf("statusForError(wrapped) = (%d, %q)", status, code)
	}
}
