package handlers

import (
	"errors"
	"log"
	"net/http"

	"inkpress/internal/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// StoreUnavailable is the one retryable kind and says so to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound), errors.Is(err, services.ErrAdUnitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTitleTaken), errors.Is(err, services.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		log.Printf("store error: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, retry later", "retryable": true})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
