package types

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors returned (wrapped) by the services
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrReferentialIntegrity = errors.New("referential integrity blocked")
)

// CustomError carries an HTTP status and an error type to the error handler
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Classify maps an error onto the status code and type reported to clients
func Classify(err error) *CustomError {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom
	}

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, ErrNotFound):
		return &CustomError{Code: fiber.StatusNotFound, Message: err.Error(), Type: "not_found"}
	case errors.Is(err, ErrInvalidSignature):
		return &CustomError{Code: fiber.StatusBadRequest, Message: err.Error(), Type: "invalid_signature"}
	case errors.Is(err, ErrUnauthorized):
		return &CustomError{Code: fiber.StatusUnauthorized, Message: err.Error(), Type: "unauthorized"}
	case errors.Is(err, ErrReferentialIntegrity):
		return &CustomError{Code: fiber.StatusConflict, Message: err.Error(), Type: "referential_integrity"}
	case errors.As(err, &fiberErr):
		return &CustomError{Code: fiberErr.Code, Message: fiberErr.Message, Type: "http"}
	}
	return &CustomError{Code: fiber.StatusInternalServerError, Message: err.Error(), Type: "unknown"}
}
