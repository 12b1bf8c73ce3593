package router

import (
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	// One engagement action every 2 seconds per IP, small burst.
	interactionRPS   = 0.5
	interactionBurst = 3
)

// RegisterRoutes wires every handler onto the engine. Session and CORS
// middleware are installed by the caller before this runs.
func RegisterRoutes(r *gin.Engine, gdb *gorm.DB) {
	interactionService := services.NewInteractionService(gdb)
	postService := services.NewPostService(gdb)
	adService := services.NewAdService(gdb)

	interactionHandler := handlers.NewInteractionHandler(interactionService)
	postHandler := handlers.NewPostHandler(postService)
	tagHandler := handlers.NewTagHandler(gdb)
	adHandler := handlers.NewAdHandler(adService)
	authHandler := handlers.NewAuthHandler(gdb)

	r.Use(middleware.LoadUser(gdb))

	limiter := middleware.NewIPRateLimiter(rate.Limit(interactionRPS), interactionBurst)

	api := r.Group("/api")
	{
		// Public reads. Detail-by-slug, by-tag and by-author live under
		// short prefixes so they don't collide with the id-based routes.
		api.GET("/posts", postHandler.List)
		api.GET("/p/:slug", postHandler.GetBySlug)
		api.GET("/t/:tag", postHandler.ListByTag)
		api.GET("/u/:username", postHandler.ListByAuthor)
		api.GET("/tags", tagHandler.List)

		// Engagement: anonymous or logged-in, actor resolved per request.
		api.POST("/posts/:id/interactions",
			middleware.RateLimit(limiter), middleware.ResolveActor(), interactionHandler.Submit)
		api.GET("/posts/:id/interactions", interactionHandler.Counts)

		// Ads
		api.GET("/ads", adHandler.List)
		api.POST("/ads/:id/impression", adHandler.Impression)
		api.POST("/ads/:id/click", adHandler.Click)

		// Auth
		api.POST("/auth/register", middleware.RateLimit(limiter), authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		// Authoring
		authorized := api.Group("/")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.POST("/posts", postHandler.Create)
			authorized.PUT("/posts/:id", postHandler.Update)
			authorized.DELETE("/posts/:id", postHandler.Delete)
		}
	}
}
