package middleware

import (
	"net/http"

	"inkpress/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"
)

const (
	CurrentUserKey = "current_user"
	ActorKey       = "actor"

	sessionUserID     = "user_id"
	sessionActorToken = "actor_token"
)

// LoadUser resolves the session's user_id to a User and stores it on the
// context. Missing or stale sessions just fall through; handlers that need
// a user gate on AuthRequired.
func LoadUser(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(sessionUserID)
		if userID != nil {
			var user models.User
			if err := gdb.First(&user, userID).Error; err == nil {
				c.Set(CurrentUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests with no authenticated user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// ResolveActor decides who the caller is for engagement purposes: the
// logged-in user if there is one, otherwise an anonymous session token
// minted on first contact and pinned to the cookie session. Runs after
// LoadUser.
func ResolveActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, exists := c.Get(CurrentUserKey); exists {
			c.Set(ActorKey, models.UserActor(user.(*models.User).ID))
			c.Next()
			return
		}

		session := sessions.Default(c)
		token, _ := session.Get(sessionActorToken).(string)
		if token == "" {
			id, err := uuid.NewV4()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
				return
			}
			token = id.String()
			session.Set(sessionActorToken, token)
			if err := session.Save(); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to establish session"})
				return
			}
		}
		c.Set(ActorKey, models.SessionActor(token))
		c.Next()
	}
}

// ActorFrom returns the actor placed on the context by ResolveActor.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// UserFrom returns the authenticated user, if any.
func UserFrom(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
