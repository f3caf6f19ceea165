package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

type RecipeHandler struct {
	recipeService       *service.RecipeService
	relationService     *service.RelationService
	shoppingListService *service.ShoppingListService
	imageService        *service.ImageService
	authService         *service.AuthService
	serializer          *Serializer
	creationLimiter     *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	relationService *service.RelationService,
	shoppingListService *service.ShoppingListService,
	imageService *service.ImageService,
	authService *service.AuthService,
	serializer *Serializer,
	creationLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		relationService:     relationService,
		shoppingListService: shoppingListService,
		imageService:        imageService,
		authService:         authService,
		serializer:          serializer,
		creationLimiter:     creationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		if h.creationLimiter != nil {
			recipes.POST("", auth, h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		} else {
			recipes.POST("", auth, h.CreateRecipe)
		}
		recipes.PATCH("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", auth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromShoppingCart)
	}
}

// recipeIngredientInput is one entry of the write shape. Range checks
// happen in the service so the response can name the violated bound.
type recipeIngredientInput struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

type RecipeRequest struct {
	Name        string                  `json:"name" binding:"required,max=200"`
	Text        string                  `json:"text" binding:"required"`
	CookingTime int                     `json:"cooking_time" binding:"required"`
	Image       string                  `json:"image"`
	Tags        []uuid.UUID             `json:"tags" binding:"required,min=1"`
	Ingredients []recipeIngredientInput `json:"ingredients" binding:"required,min=1"`
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := viewerID(c)
	page, limit := pageParams(c)

	filter := service.RecipeFilter{
		TagSlugs:       c.QueryArray("tags"),
		Favorited:      c.Query("is_favorited") == "1",
		InShoppingCart: c.Query("is_in_shopping_cart") == "1",
		Viewer:         viewer,
		Page:           page,
		Limit:          limit,
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	recipes, total, err := h.recipeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, h.serializer.Recipe(viewer, &recipes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.serializer.Recipe(viewerID(c), recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image: required"})
		return
	}

	imageURL, err := h.imageService.Store(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, h.toInput(req, imageURL))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.serializer.Recipe(&userID, recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The image is optional on update; an omitted image keeps the old one.
	imageURL := ""
	if req.Image != "" {
		imageURL, err = h.imageService.Store(c.Request.Context(), req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, userID, h.toInput(req, imageURL))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.serializer.Recipe(&userID, recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addRelation(c, h.relationService.AddFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeRelation(c, h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addRelation(c, h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeRelation(c, h.relationService.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return
	}

	items, err := h.shoppingListService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		data, err := service.RenderCSV(items)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_cart.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderText(items)))
}

type relationFunc func(ctx context.Context, userID, recipeID uuid.UUID) error

func (h *RecipeHandler) addRelation(c *gin.Context, add relationFunc) {
	userID, recipeID, ok := h.relationParams(c)
	if !ok {
		return
	}

	if err := add(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.serializer.ShortRecipe(recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove relationFunc) {
	userID, recipeID, ok := h.relationParams(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) relationParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, service.ErrAuthenticationRequired)
		return uuid.Nil, uuid.Nil, false
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, recipeID, true
}

func (h *RecipeHandler) toInput(req RecipeRequest, imageURL string) service.RecipeInput {
	ingredients := make([]service.IngredientAmount, 0, len(req.Ingredients))
	for _, ri := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientAmount{
			IngredientID: ri.ID,
			Amount:       ri.Amount,
		})
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		TagIDs:      req.Tags,
		Ingredients: ingredients,
	}
}
