// Package session keeps the logged-in identity in the request's signed session.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie.
const CookieName = "edusite"

const loginUser = "LOGIN_USER"

// Identity marks a request as coming from a logged-in administrator.
type Identity struct {
	UserId      int
	DisplayName string
}

func init() {
	gob.Register(Identity{})
}

func SetLoginUser(c *gin.Context, identity Identity) error {
	s := sessions.Default(c)
	s.Set(loginUser, identity)
	return s.Save()
}

// SetMaxAge sets the cookie lifetime in seconds for the next save; 0 means a
// browser-session cookie.
func SetMaxAge(c *gin.Context, maxAge int) {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetLoginUser returns nil unless the session carries a non-zero user id.
func GetLoginUser(c *gin.Context) *Identity {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if identity, ok := obj.(Identity); ok && identity.UserId != 0 {
			return &identity
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.Save()
}
