package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/Jayasawar1325/backend-series/internal/domain/repository"
	handlers "github.com/Jayasawar1325/backend-series/internal/interface/http"
	"github.com/Jayasawar1325/backend-series/internal/interface/middleware"
	"github.com/Jayasawar1325/backend-series/pkg/helpers"
)

// UserModule wires the account and channel routes under /users.
// Public: POST /users/register, POST /users/login, POST /users/refresh-token
// Everything else runs behind the Auth gate.
type UserModule struct {
	Users    *handlers.UserHandler
	Channels *handlers.ChannelHandler
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
}

func NewUserModule(u *handlers.UserHandler, c *handlers.ChannelHandler, r repo.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Users: u, Channels: c, Repo: r, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	users.POST("/register", m.Users.Register)
	users.POST("/login", m.Users.Login)
	// Refresh authenticates with the refresh token itself, not the gate.
	users.POST("/refresh-token", m.Users.Refresh)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Repo, m.JWT))
	{
		auth.POST("/logout", m.Users.Logout)
		auth.POST("/change-password", m.Users.ChangePassword)
		auth.GET("/current-user", m.Users.CurrentUser)
		auth.PATCH("/update-account", m.Users.UpdateAccount)
		auth.PATCH("/avatar", m.Users.UpdateAvatar)
		auth.PATCH("/cover-image", m.Users.UpdateCoverImage)
		auth.GET("/c/:username", m.Channels.Profile)
		auth.GET("/history", m.Channels.History)
		auth.GET("/search", m.Channels.Search)
	}
}
