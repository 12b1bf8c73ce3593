package handlers

import (
	"net/http"

	"inkpress/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TagHandler struct {
	db *gorm.DB
}

func NewTagHandler(gdb *gorm.DB) *TagHandler {
	return &TagHandler{db: gdb}
}

func (h *TagHandler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("name ASC").Find(&tags).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, retry later", "retryable": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
