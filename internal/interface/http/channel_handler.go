package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Jayasawar1325/backend-series/internal/application"
	"github.com/Jayasawar1325/backend-series/internal/interface/middleware"
	"github.com/Jayasawar1325/backend-series/pkg/response"
)

// ChannelHandler binds the read-side routes: channel profile, watch history,
// and channel search.
type ChannelHandler struct {
	Svc    *application.ChannelService
	Logger *logrus.Logger
}

func NewChannelHandler(svc *application.ChannelService, logger *logrus.Logger) *ChannelHandler {
	return &ChannelHandler{Svc: svc, Logger: logger}
}

// Profile handles GET /c/:username (behind the gate). The caller identity
// only drives isSubscribed, never authorization.
func (h *ChannelHandler) Profile(c *gin.Context) {
	viewerID := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, p, "channel profile fetched successfully")
}

// History handles GET /history (behind the gate).
func (h *ChannelHandler) History(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	history, err := h.Svc.GetWatchHistory(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, history, "watch history fetched successfully")
}

// Search handles GET /search?q=&size= (behind the gate).
func (h *ChannelHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}
