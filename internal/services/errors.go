package services

import (
	"errors"
	"fmt"

	"github.com/localnerve/callboard/internal/types"
	"gorm.io/gorm"
)

// Domain errors reported back to forms
var (
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
	ErrWrongPassword      = errors.New("your old password was entered incorrectly")
	ErrNotSubRubric       = errors.New("ads can only be filed under a sub-rubric")
	ErrInvalidParent      = errors.New("a super-rubric must itself be top-level")
	ErrDuplicateRubric    = errors.New("a rubric with that name already exists")
	ErrInvalidRubricName  = errors.New("rubric name must be 1 to 20 characters")
)

// notFound turns gorm.ErrRecordNotFound into types.ErrNotFound and passes everything else through
func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, types.ErrNotFound)
	}
	return err
}
