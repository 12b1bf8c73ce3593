package handlers

import (
	"fmt"
	"net/http"
	"time"

	"inkpress/internal/middleware"
	"inkpress/internal/services"
	"inkpress/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

const defaultPageSize = 10

// List returns one page of posts, newest first, with totals. Pages are
// cached briefly; every write path purges the cache.
func (h *PostHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize := utils.StringToInt(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	cacheKey := fmt.Sprintf("posts:page:%d:%d", page, pageSize)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	posts, total, totalPages, err := h.posts.List(page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data := gin.H{
		"posts":       posts,
		"total_count": total,
		"total_pages": totalPages,
		"page":        page,
		"page_size":   pageSize,
	}
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)
	c.JSON(http.StatusOK, data)
}

// GetBySlug returns one post with its body rendered to sanitized HTML.
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":      post,
		"body_html": utils.RenderMarkdown(post.Body),
	})
}

func (h *PostHandler) ListByTag(c *gin.Context) {
	posts, err := h.posts.ListByTag(c.Param("tag"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) ListByAuthor(c *gin.Context) {
	posts, err := h.posts.ListByAuthor(c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Create(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var in services.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	post, err := h.posts.Create(user.ID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var in services.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	post, err := h.posts.Update(id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := h.posts.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
