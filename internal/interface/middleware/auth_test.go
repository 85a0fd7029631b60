package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayasawar1325/backend-series/internal/domain/entity"
	repo "github.com/Jayasawar1325/backend-series/internal/domain/repository"
	"github.com/Jayasawar1325/backend-series/pkg/helpers"
	"github.com/Jayasawar1325/backend-series/pkg/response"
)

// stubRepo serves only GetByID; the gate never touches anything else.
type stubRepo struct {
	users map[string]*entity.User
}

func (s *stubRepo) Create(u *entity.User) error                       { return nil }
func (s *stubRepo) GetByEmail(email string) (*entity.User, error)     { return nil, repo.ErrNotFound }
func (s *stubRepo) ExistsByEmailOrUsername(e, u string) (bool, error) { return false, nil }
func (s *stubRepo) Update(u *entity.User) error                       { return nil }
func (s *stubRepo) UpdatePassword(id, hash string) error              { return nil }
func (s *stubRepo) SetRefreshToken(id string, token *string) error    { return nil }
func (s *stubRepo) RotateRefreshToken(id, p, n string) (bool, error)  { return false, nil }
func (s *stubRepo) GetWatchHistory(id string) ([]string, error)       { return nil, repo.ErrNotFound }
func (s *stubRepo) GetChannelProfile(u, v string) (*entity.ChannelProfile, error) {
	return nil, repo.ErrNotFound
}

func (s *stubRepo) GetByID(id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

var _ repo.UserRepository = (*stubRepo)(nil)

func newAuthRouter(users *stubRepo, jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(users, jwt), func(c *gin.Context) {
		u := UserFrom(c)
		response.Success(c, http.StatusOK, gin.H{"id": u.ID, "username": u.Username}, "ok")
	})
	return r
}

func TestAuthMissingToken(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	r := newAuthRouter(&stubRepo{users: map[string]*entity.User{}}, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized request", body["message"])
	assert.Equal(t, false, body["success"])
}

func TestAuthInvalidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	r := newAuthRouter(&stubRepo{users: map[string]*entity.User{}}, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid access token", body["message"])
}

func TestAuthExpiredToken(t *testing.T) {
	expired := helpers.NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)
	token, _, err := expired.GenerateAccessToken("u1", "a@b.co", "A", "a")
	require.NoError(t, err)

	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	users := &stubRepo{users: map[string]*entity.User{"u1": {ID: "u1", Username: "a"}}}
	r := newAuthRouter(users, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthUnknownUser(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	token, _, err := jwt.GenerateAccessToken("gone", "a@b.co", "A", "a")
	require.NoError(t, err)

	r := newAuthRouter(&stubRepo{users: map[string]*entity.User{}}, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthResolvesUserFromHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	token, _, err := jwt.GenerateAccessToken("u1", "alice@example.com", "Alice", "alice")
	require.NoError(t, err)

	users := &stubRepo{users: map[string]*entity.User{"u1": {ID: "u1", Username: "alice"}}}
	r := newAuthRouter(users, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "u1", data["id"])
	assert.Equal(t, "alice", data["username"])
}

func TestAuthResolvesUserFromCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	token, _, err := jwt.GenerateAccessToken("u1", "alice@example.com", "Alice", "alice")
	require.NoError(t, err)

	users := &stubRepo{users: map[string]*entity.User{"u1": {ID: "u1", Username: "alice"}}}
	r := newAuthRouter(users, jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
