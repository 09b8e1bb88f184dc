package controllers

import (
	"errors"
	"net/http"
	"strings"

	"backoffice/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxUserKey = "auth_user"

// AuthRequired validates the Bearer token and loads the reviewer into the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := services(c)
		if !ok {
			c.Abort()
			return
		}
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			RespondError(c, "authentification requise", http.StatusUnauthorized)
			c.Abort()
			return
		}
		token := strings.TrimSpace(h[len("Bearer "):])
		userID, err := parseToken(token, s.JwtSecret)
		if err != nil {
			msg := "jeton invalide"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "jeton expiré"
			}
			RespondError(c, msg, http.StatusUnauthorized)
			c.Abort()
			return
		}

		user, err := s.Store.User(userID)
		if err != nil {
			RespondError(c, "utilisateur introuvable", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// GetUserLogged returns the user loaded by AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
