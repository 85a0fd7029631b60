package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Jayasawar1325/backend-series/internal/application"
	"github.com/Jayasawar1325/backend-series/internal/interface/middleware"
	"github.com/Jayasawar1325/backend-series/pkg/helpers"
	"github.com/Jayasawar1325/backend-series/pkg/response"
	"github.com/Jayasawar1325/backend-series/pkg/validation"
)

// UserHandler binds the session-lifecycle routes to the account service.
type UserHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

func uploadFrom(fh *multipart.FileHeader) (*application.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	up := &application.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}
	return up, func() { _ = f.Close() }, nil
}

// Register handles POST /register (multipart: fullName, username, email,
// password, avatar file, optional coverImage file).
func (h *UserHandler) Register(c *gin.Context) {
	in := application.RegisterInput{
		FullName: c.PostForm("fullName"),
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		u, closeFn, oerr := uploadFrom(fh)
		if oerr != nil {
			response.Error(c, http.StatusBadRequest, "avatar file unreadable", nil)
			return
		}
		defer closeFn()
		in.Avatar = u
	}
	if fh, err := c.FormFile("coverImage"); err == nil {
		u, closeFn, oerr := uploadFrom(fh)
		if oerr != nil {
			response.Error(c, http.StatusBadRequest, "cover image file unreadable", nil)
			return
		}
		defer closeFn()
		in.Cover = u
	}

	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, u.View(), "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login. Tokens travel both as cookies and in the body.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), application.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"user":         u.View(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /refresh-token. The incoming token may arrive as a
// cookie or in the body.
func (h *UserHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(helpers.RefreshTokenCookie)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}
	_, pair, err := h.Svc.Refresh(c.Request.Context(), presented)
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

// Logout handles POST /logout (behind the gate).
func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "user logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

// ChangePassword handles POST /change-password (behind the gate).
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed successfully")
}

// CurrentUser handles GET /current-user (behind the gate).
func (h *UserHandler) CurrentUser(c *gin.Context) {
	u := middleware.UserFrom(c)
	if u == nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized request", nil)
		return
	}
	response.Success(c, http.StatusOK, u.View(), "current user fetched successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateAccount handles PATCH /update-account (behind the gate).
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.UpdateAccount(c.Request.Context(), uid, application.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(c, statusOf(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, u.View(), "account details updated")
}

// UpdateAvatar handles PATCH /avatar (behind the gate, multipart "avatar").
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	up, closeFn, err := uploadFrom(fh)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file unreadable", nil)
		return
	}
	defer closeFn()

	uid := c.GetString(middleware.CtxUserIDKey)
	u, serr := h.Svc.UpdateAvatar(c.Request.Context(), uid, up)
	if serr != nil {
		response.Error(c, statusOf(serr), serr.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, u.View(), "avatar updated")
}

// UpdateCoverImage handles PATCH /cover-image (behind the gate, multipart
// "coverImage").
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	fh, err := c.FormFile("coverImage")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cover image file is required", nil)
		return
	}
	up, closeFn, err := uploadFrom(fh)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cover image file unreadable", nil)
		return
	}
	defer closeFn()

	uid := c.GetString(middleware.CtxUserIDKey)
	u, serr := h.Svc.UpdateCoverImage(c.Request.Context(), uid, up)
	if serr != nil {
		response.Error(c, statusOf(serr), serr.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, u.View(), "cover image updated")
}
