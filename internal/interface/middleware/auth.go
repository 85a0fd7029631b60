package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jayasawar1325/backend-series/internal/domain/entity"
	repo "github.com/Jayasawar1325/backend-series/internal/domain/repository"
	"github.com/Jayasawar1325/backend-series/pkg/helpers"
	"github.com/Jayasawar1325/backend-series/pkg/response"
)

const (
	// CtxUserKey holds the resolved *entity.User for downstream handlers.
	CtxUserKey = "user"
	// CtxUserIDKey holds the resolved user id.
	CtxUserIDKey = "userID"
)

// bearerToken extracts the access token from the cookie or, failing that,
// from the Authorization header.
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer"))
}

// Auth is the gate in front of every protected route: it verifies the access
// token and resolves it to a live user before the handler runs. It performs
// no store writes. Expired and malformed tokens get the same answer.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized request", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		u, err := users.GetByID(claims.UserID)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// UserFrom returns the gate-resolved user, or nil when the route is not
// behind Auth.
func UserFrom(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
