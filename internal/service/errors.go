package service

import (
	"errors"
	"fmt"
)

// Bounds shared by cooking_time and per-recipe ingredient amounts.
const (
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
)

var (
	ErrDuplicateRelation      = errors.New("relation already exists")
	ErrRelationNotFound       = errors.New("relation does not exist")
	ErrSelfRelationNotAllowed = errors.New("cannot subscribe to yourself")

	ErrUnknownIngredient           = errors.New("ingredient does not exist")
	ErrUnknownTag                  = errors.New("tag does not exist")
	ErrDuplicateIngredientInRecipe = errors.New("ingredient listed more than once")

	ErrNotAuthor              = errors.New("only the author may modify this recipe")
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrUserNotFound   = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
)

// FieldError is a field-level validation failure. It wraps no storage
// error: all field validation happens before any write.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func cookingTimeOutOfRange(value int) *FieldError {
	if value < MinCookingTime {
		return &FieldError{
			Field:   "cooking_time",
			Message: fmt.Sprintf("must be at least %d minute(s), got %d", MinCookingTime, value),
		}
	}
	return &FieldError{
		Field:   "cooking_time",
		Message: fmt.Sprintf("must be at most %d minutes, got %d", MaxCookingTime, value),
	}
}

func quantityOutOfRange(value int) *FieldError {
	if value < MinIngredientAmount {
		return &FieldError{
			Field:   "amount",
			Message: fmt.Sprintf("must be at least %d, got %d", MinIngredientAmount, value),
		}
	}
	return &FieldError{
		Field:   "amount",
		Message: fmt.Sprintf("must be at most %d, got %d", MaxIngredientAmount, value),
	}
}
