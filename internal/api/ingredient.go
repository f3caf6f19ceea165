package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// IngredientHandler serves the ingredient reference data with the
// substring name filter used by recipe editors.
type IngredientHandler struct {
	db         *gorm.DB
	serializer *Serializer
}

func NewIngredientHandler(db *gorm.DB, serializer *Serializer) *IngredientHandler {
	return &IngredientHandler{db: db, serializer: serializer}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	query := h.db.Order("name ASC")
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		respondError(c, err)
		return
	}

	results := make([]IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		results = append(results, h.serializer.Ingredient(i))
	}
	c.JSON(http.StatusOK, results)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	var ingredient models.Ingredient
	if err := h.db.First(&ingredient, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}
	c.JSON(http.StatusOK, h.serializer.Ingredient(ingredient))
}
