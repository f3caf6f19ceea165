package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/service"
)

// respondError maps service errors to 4xx responses with a human-readable
// message. Unrecognized errors are logged and become a 500 without
// leaking the storage failure.
func respondError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error()})
		return
	}

	switch {
	case errors.Is(err, service.ErrDuplicateRelation),
		errors.Is(err, service.ErrRelationNotFound),
		errors.Is(err, service.ErrSelfRelationNotAllowed),
		errors.Is(err, service.ErrUnknownIngredient),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrDuplicateIngredientInRecipe),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
