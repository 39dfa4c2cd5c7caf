package controller

import (
	"net/http"

	"github.com/edusite/edusite/config"
	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/web/session"

	"github.com/gin-gonic/gin"
)

// html renders a template. title is a translation key; the template also
// receives the visitor's identity (nil when anonymous) and language.
func html(c *gin.Context, status int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["user"] = session.GetLoginUser(c)
	data["lang"] = c.GetString("lang")
	data["request_uri"] = c.Request.RequestURI
	c.HTML(status, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver":   config.GetVersion(),
		"site_name": config.GetName(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// NotFound renders the not-found page with status 404.
func NotFound(c *gin.Context) {
	html(c, http.StatusNotFound, "404.html", "pages.notFound.title", nil)
}

func serverError(c *gin.Context, err error) {
	logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.String(http.StatusInternalServerError, I18nWeb(c, "somethingWentWrong"))
}
