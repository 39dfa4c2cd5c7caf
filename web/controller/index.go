package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/util/metrics"
	"github.com/edusite/edusite/web/cache"
	"github.com/edusite/edusite/web/entity"
	"github.com/edusite/edusite/web/middleware"
	"github.com/edusite/edusite/web/service"
	"github.com/edusite/edusite/web/session"

	"github.com/gin-gonic/gin"
)

// staticPages maps the routes that render a template without data to their title keys.
var staticPages = map[string]string{
	"about":    "pages.about.title",
	"contact":  "pages.contact.title",
	"courses":  "pages.courses.title",
	"pricing":  "pages.pricing.title",
	"services": "pages.services.title",
}

const loginLimiter = "login"

// IndexController handles the home page, the static pages and login/logout.
type IndexController struct {
	BaseController

	newsService *service.NewsService
	userService *service.UserService

	// sessionMaxAge is in minutes.
	sessionMaxAge int
	// limiter is nil when the login rate limit is off.
	limiter *cache.Client
}

// IndexOptions holds what the IndexController needs besides the services.
type IndexOptions struct {
	SessionMaxAge int
	// Limiter backs the login rate limit; nil or LoginRateLimit <= 0 disables it.
	Limiter        *cache.Client
	LoginRateLimit int
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup, news *service.NewsService, users *service.UserService, opts IndexOptions) *IndexController {
	a := &IndexController{
		newsService:   news,
		userService:   users,
		sessionMaxAge: opts.SessionMaxAge,
	}
	a.initRouter(g, opts)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup, opts IndexOptions) {
	g.GET("/", a.index)
	for page, title := range staticPages {
		g.GET("/"+page, a.static(page+".html", title))
	}

	g.GET("/login", a.loginForm)
	login := []gin.HandlerFunc{a.login}
	if opts.Limiter != nil && opts.LoginRateLimit > 0 {
		a.limiter = opts.Limiter
		cfg := middleware.DefaultRateLimitConfig(loginLimiter, opts.LoginRateLimit)
		cfg.OnLimit = a.loginRateLimited
		login = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(opts.Limiter, cfg)}, login...)
	}
	g.POST("/login", login...)
	g.GET("/logout", a.logout)
}

// index renders the home page with the latest news.
func (a *IndexController) index(c *gin.Context) {
	news, err := a.newsService.Latest(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	html(c, http.StatusOK, "index.html", "pages.index.title", gin.H{"news": news})
}

func (a *IndexController) static(name string, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		html(c, http.StatusOK, name, title, nil)
	}
}

func (a *IndexController) loginForm(c *gin.Context) {
	html(c, http.StatusOK, "login.html", "pages.login.title", gin.H{"form": entity.LoginForm{}})
}

func (a *IndexController) loginError(c *gin.Context, status int, form entity.LoginForm, msg string) {
	form.Password = ""
	html(c, status, "login.html", "pages.login.title", gin.H{"form": form, "error": msg})
}

// login checks the credentials and stores the identity in the session.
func (a *IndexController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		a.loginError(c, http.StatusBadRequest, form, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		return
	}

	user, err := a.userService.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, service.ErrUnknownEmail):
		logger.Warningf("login with unknown email %q, IP: %s", form.Email, c.ClientIP())
		metrics.FailedLoginAttempts.WithLabelValues("unknown_email").Inc()
		a.loginError(c, http.StatusOK, form, I18nWeb(c, "pages.login.toasts.emailNotFound"))
		return
	case errors.Is(err, service.ErrWrongPassword):
		logger.Warningf("wrong password for %q, IP: %s", form.Email, c.ClientIP())
		metrics.FailedLoginAttempts.WithLabelValues("wrong_password").Inc()
		a.loginError(c, http.StatusOK, form, I18nWeb(c, "pages.login.toasts.wrongPassword"))
		return
	case err != nil:
		serverError(c, err)
		return
	}

	session.SetMaxAge(c, a.sessionMaxAge*60)
	err = session.SetLoginUser(c, session.Identity{UserId: user.Id, DisplayName: user.Username})
	if err != nil {
		logger.Warning("Unable to save session: ", err)
		serverError(c, err)
		return
	}

	if a.limiter != nil {
		if err := a.limiter.Reset(c.Request.Context(), middleware.RateLimitKey(loginLimiter, c.ClientIP())); err != nil {
			logger.Warning("Unable to reset login rate limit: ", err)
		}
	}

	logger.Infof("%s logged in successfully, IP: %s", user.Email, c.ClientIP())
	c.Redirect(http.StatusFound, "/")
}

func (a *IndexController) loginRateLimited(c *gin.Context, retryAfter time.Duration) {
	metrics.FailedLoginAttempts.WithLabelValues("rate_limited").Inc()
	seconds := strconv.Itoa(int(retryAfter.Round(time.Second).Seconds()))
	a.loginError(c, http.StatusTooManyRequests, entity.LoginForm{Email: c.PostForm("email")},
		I18nWeb(c, "pages.login.toasts.tooManyAttempts", "Seconds=="+seconds))
}

// logout clears the session and redirects home.
func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out successfully", user.DisplayName)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusFound, "/")
}
