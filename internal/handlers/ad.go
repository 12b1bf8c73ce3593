package handlers

import (
	"net/http"

	"inkpress/internal/services"
	"inkpress/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdHandler struct {
	ads *services.AdService
}

func NewAdHandler(ads *services.AdService) *AdHandler {
	return &AdHandler{ads: ads}
}

func (h *AdHandler) List(c *gin.Context) {
	units, err := h.ads.ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ad_units": units})
}

func (h *AdHandler) Impression(c *gin.Context) {
	h.bump(c, h.ads.RecordImpression)
}

func (h *AdHandler) Click(c *gin.Context) {
	h.bump(c, h.ads.RecordClick)
}

func (h *AdHandler) bump(c *gin.Context, record func(uint) error) {
	id := utils.StringToUint(c.Param("id"))
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad unit id"})
		return
	}
	if err := record(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
