package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions(CookieName, cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	engine.GET("/login", func(c *gin.Context) {
		SetMaxAge(c, 3600)
		_ = SetLoginUser(c, Identity{UserId: 7, DisplayName: "Maria"})
		c.Status(http.StatusNoContent)
	})
	engine.GET("/whoami", func(c *gin.Context) {
		if u := GetLoginUser(c); u != nil {
			c.String(http.StatusOK, u.DisplayName)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	engine.GET("/logout", func(c *gin.Context) {
		_ = ClearSession(c)
		c.Status(http.StatusNoContent)
	})
	return engine
}

func do(engine *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestIdentityRoundTrip(t *testing.T) {
	engine := newEngine()

	assert.Equal(t, "anonymous", do(engine, "/whoami").Body.String())

	w := do(engine, "/login")
	require.Len(t, w.Result().Cookies(), 1)
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, 3600, ck.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, "Maria", do(engine, "/whoami", ck).Body.String())
}

func TestTamperedCookieIsIgnored(t *testing.T) {
	engine := newEngine()
	ck := sessionCookie(t, do(engine, "/login"))

	forged := *ck
	forged.Value = strings.ToUpper(ck.Value[:10]) + ck.Value[10:]
	if forged.Value == ck.Value {
		forged.Value = "x" + ck.Value[1:]
	}
	assert.Equal(t, "anonymous", do(engine, "/whoami", &forged).Body.String())
}

func TestClearSession(t *testing.T) {
	engine := newEngine()
	ck := sessionCookie(t, do(engine, "/login"))

	cleared := sessionCookie(t, do(engine, "/logout", ck))
	require.Less(t, cleared.MaxAge, 0)
	assert.Equal(t, http.SameSiteLaxMode, cleared.SameSite)
	assert.Equal(t, "anonymous", do(engine, "/whoami", cleared).Body.String())
}
