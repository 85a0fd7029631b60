package router

import "github.com/gin-gonic/gin"

// Module is a feature area (accounts, channels) that mounts its own routes
// on the shared /api/v1 group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
