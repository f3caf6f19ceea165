package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

// defaultRecipesLimit bounds the recipe preview inside a subscription
// entry unless the caller overrides it with ?recipes_limit=.
const defaultRecipesLimit = 3

type UserHandler struct {
	userService     *service.UserService
	recipeService   *service.RecipeService
	relationService *service.RelationService
	authService     *service.AuthService
	serializer      *Serializer
}

func NewUserHandler(
	userService *service.UserService,
	recipeService *service.RecipeService,
	relationService *service.RelationService,
	authService *service.AuthService,
	serializer *Serializer,
) *UserHandler {
	return &UserHandler{
		userService:     userService,
		recipeService:   recipeService,
		relationService: relationService,
		authService:     authService,
		serializer:      serializer,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := viewerID(c)
	results := make([]UserResponse, 0, len(users))
	for i := range users {
		results = append(results, h.serializer.User(viewer, &users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.serializer.User(viewerID(c), user))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.serializer.User(&userID, user))
}

// Subscriptions lists the authors the caller follows, each with a recipe
// preview truncated to recipes_limit.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	page, limit := pageParams(c)
	authors, total, err := h.userService.Subscriptions(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	recipesLimit := recipesLimitParam(c)
	results := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		recipes, count, err := h.recipeService.ByAuthor(c.Request.Context(), authors[i].ID, recipesLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, h.serializer.Subscription(&userID, &authors[i], recipes, count))
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	followingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.relationService.Follow(c.Request.Context(), userID, followingID); err != nil {
		respondError(c, err)
		return
	}

	author, err := h.userService.Get(c.Request.Context(), followingID)
	if err != nil {
		respondError(c, err)
		return
	}
	recipes, count, err := h.recipeService.ByAuthor(c.Request.Context(), followingID, recipesLimitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.serializer.Subscription(&userID, author, recipes, count))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	followingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.relationService.Unfollow(c.Request.Context(), userID, followingID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// recipesLimitParam parses ?recipes_limit=. A non-integer value means no
// limit rather than an error.
func recipesLimitParam(c *gin.Context) int {
	raw := c.DefaultQuery("recipes_limit", strconv.Itoa(defaultRecipesLimit))
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

func viewerID(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.UserIDFromContext(c); ok {
		return &id
	}
	return nil
}
