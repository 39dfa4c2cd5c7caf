// Package controller provides the HTTP handlers of the edusite public pages,
// the login flow and the news administration.
package controller

import (
	"net/http"

	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/web/service"
	"github.com/edusite/edusite/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including authentication checks.
type BaseController struct{}

// checkLogin stops the chain and sends anonymous visitors to the login page.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		logger.Debugf("%v: %s %s from %s", service.ErrUnauthenticated, c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

// I18nWeb retrieves an internationalized message for the web interface based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, _ := anyfunc.(func(key string, keyParams ...string) string)
	if i18nFunc == nil {
		return name
	}
	return i18nFunc(name, params...)
}
