package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"not found", fmt.Errorf("ad 7: %w", ErrNotFound), fiber.StatusNotFound, "not_found"},
		{"signature", fmt.Errorf("activate: %w", ErrInvalidSignature), fiber.StatusBadRequest, "invalid_signature"},
		{"unauthorized", ErrUnauthorized, fiber.StatusUnauthorized, "unauthorized"},
		{"integrity", fmt.Errorf("rubric 3: %w", ErrReferentialIntegrity), fiber.StatusConflict, "referential_integrity"},
		{"fiber", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "http"},
		{"custom", &CustomError{Code: 418, Message: "teapot", Type: "tea"}, 418, "tea"},
		{"other", errors.New("boom"), fiber.StatusInternalServerError, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantType, got.Type)
		})
	}
}
