package locale

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := NewTranslator(os.DirFS(".."), "translation")
	require.NoError(t, err)
	return tr
}

func TestLocalize(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "The password is incorrect.", tr.Localize("pages.login.toasts.wrongPassword", nil, "en-US"))
	assert.Equal(t, "Неверный пароль.", tr.Localize("pages.login.toasts.wrongPassword", nil, "ru-RU"))
	assert.Equal(t, "The password is incorrect.", tr.Localize("pages.login.toasts.wrongPassword", nil, "xx"))
	assert.Equal(t, "no.such.key", tr.Localize("no.such.key", nil, "en-US"))
	assert.Equal(t, "Page 2 of 5", tr.Localize("pages.news.pageOf", []string{"Page==2", "Pages==5"}, "en-US"))
}

func TestMiddlewarePrefersCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tr := newTranslator(t)
	engine := gin.New()
	engine.Use(tr.Middleware())
	engine.GET("/", func(c *gin.Context) {
		i18nFunc := c.MustGet("I18n").(func(string, ...string) string)
		c.String(http.StatusOK, c.GetString("lang")+"|"+i18nFunc("menu.news"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.AddCookie(&http.Cookie{Name: "lang", Value: "ru-RU"})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "ru-RU|Новости", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "en-US|News", w.Body.String())
}
