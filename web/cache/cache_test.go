package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestEmbeddedClientHits(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	assert.True(t, c.IsEmbedded())

	for i := int64(1); i <= 3; i++ {
		n, err := c.Hit(ctx, "login:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	ttl, err := c.TTL(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Reset(ctx, "login:1.2.3.4"))
	n, err := c.Hit(ctx, "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewClient(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newClient(t)
	engine := gin.New()
	engine.Use(sessions.Sessions("edusite", NewRedisStore(c, []byte("0123456789abcdef0123456789abcdef"))))
	engine.GET("/set", func(ctx *gin.Context) {
		s := sessions.Default(ctx)
		s.Set("name", "Maria")
		_ = s.Save()
	})
	engine.GET("/get", func(ctx *gin.Context) {
		v, _ := sessions.Default(ctx).Get("name").(string)
		ctx.String(http.StatusOK, v)
	})
	engine.GET("/clear", func(ctx *gin.Context) {
		s := sessions.Default(ctx)
		s.Clear()
		s.Options(sessions.Options{Path: "/", MaxAge: -1})
		_ = s.Save()
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	get := func(ck *http.Cookie) string {
		req := httptest.NewRequest(http.MethodGet, "/get", nil)
		req.AddCookie(ck)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Body.String()
	}
	assert.Equal(t, "Maria", get(cookies[0]))

	forged := *cookies[0]
	forged.Value = "AAAA" + forged.Value
	assert.Equal(t, "", get(&forged))

	req := httptest.NewRequest(http.MethodGet, "/clear", nil)
	req.AddCookie(cookies[0])
	engine.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "", get(cookies[0]), "server-side entry removed")
}
