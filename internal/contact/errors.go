package contact

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrValidation = errors.New("contact: invalid value")
	ErrNotFound   = errors.New("contact: phone not found")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// checkVar runs a validator tag against a single value.
func checkVar(value any, tag string) error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate.Var(value, tag)
}
