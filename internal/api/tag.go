package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// TagHandler serves the tag reference data. Tags are read-only over HTTP;
// they are seeded by cmd/seed.
type TagHandler struct {
	db         *gorm.DB
	serializer *Serializer
}

func NewTagHandler(db *gorm.DB, serializer *Serializer) *TagHandler {
	return &TagHandler{db: db, serializer: serializer}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("name ASC").Find(&tags).Error; err != nil {
		respondError(c, err)
		return
	}

	results := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		results = append(results, h.serializer.Tag(t))
	}
	c.JSON(http.StatusOK, results)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	var tag models.Tag
	if err := h.db.First(&tag, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	c.JSON(http.StatusOK, h.serializer.Tag(tag))
}
