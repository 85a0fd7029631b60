package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSetPairCookieAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	m := NewCookie("localhost", true)
	m.SetPair(c, "access-value", time.Now().Add(15*time.Minute), "refresh-value", time.Now().Add(240*time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	access := findCookie(t, cookies, AccessTokenCookie)
	assert.Equal(t, "access-value", access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Greater(t, access.MaxAge, 0)

	refresh := findCookie(t, cookies, RefreshTokenCookie)
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
	assert.Greater(t, refresh.MaxAge, access.MaxAge)
}

func TestClearExpiresBothCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)

	m := NewCookie("localhost", true)
	m.Clear(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, ck := range cookies {
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Secure)
	}
}

func TestMaxAgeFrom(t *testing.T) {
	assert.InDelta(t, 3600, maxAgeFrom(time.Now().Add(time.Hour)), 5)

	// An expiry in the past must delete the cookie, not hand out a
	// session cookie via a dropped Max-Age.
	assert.Equal(t, -1, maxAgeFrom(time.Now().Add(-time.Minute)))
	assert.Equal(t, -1, maxAgeFrom(time.Now()))
}
