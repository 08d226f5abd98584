package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"quizverse_backend/internal/service"
	"quizverse_backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthMiddleware struct {
	presence *service.PresenceTracker
	secret   string
}

func NewAuthMiddleware(presence *service.PresenceTracker, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		presence: presence,
		secret:   secret,
	}
}

// RequireAuth validates the bearer token and refreshes the caller's presence.
// A valid token whose presence entry has gone stale is rejected: the session
// timed out from inactivity and the user must log in again.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}

		if err := m.presence.Touch(uint(userID)); err != nil {
			if errors.Is(err, apperror.ErrSessionExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session check failed"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
