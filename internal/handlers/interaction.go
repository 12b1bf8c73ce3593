package handlers

import (
	"net/http"

	"inkpress/internal/middleware"
	"inkpress/internal/services"
	"inkpress/internal/utils"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactions *services.InteractionService
}

func NewInteractionHandler(interactions *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

type submitInteractionInput struct {
	Action string `json:"action" binding:"required"`
}

// Submit records a like/dislike/share from the current actor and returns
// the post's updated counters.
func (h *InteractionHandler) Submit(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	if postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var in submitInteractionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no actor on request"})
		return
	}

	counts, rec, err := h.interactions.Submit(postID, actor, in.Action)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"like_count":    counts.Like,
		"dislike_count": counts.Dislike,
		"share_count":   counts.Share,
		"state": gin.H{
			"like":    rec.Like,
			"dislike": rec.Dislike,
			"share":   rec.Share,
		},
	})
}

// Counts returns the current counter triple without mutating anything.
func (h *InteractionHandler) Counts(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	if postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	counts, err := h.interactions.CountsFor(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"like_count":    counts.Like,
		"dislike_count": counts.Dislike,
		"share_count":   counts.Share,
	})
}
