package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/web/entity"
	"github.com/edusite/edusite/web/service"

	"github.com/gin-gonic/gin"
)

// AdminController handles the news add/edit form. Every route requires a login.
type AdminController struct {
	BaseController

	newsService *service.NewsService
}

func NewAdminController(g *gin.RouterGroup, news *service.NewsService) *AdminController {
	a := &AdminController{newsService: news}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/")
	g.Use(a.checkLogin)

	g.GET("/add_news", a.addForm)
	g.POST("/add_news", a.save)
	g.GET("/edit_news/:id", a.editForm)
	g.GET("/logs", a.logs)
}

const (
	defaultLogCount = 100
	maxLogCount     = 1000
)

// logs returns recent log lines as JSON. ?level= sets the minimum severity
// (DEBUG..CRITICAL, default INFO) and ?count= the number of lines.
func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil || count < 1 {
		count = defaultLogCount
	}
	count = min(count, maxLogCount)
	level := c.DefaultQuery("level", "INFO")
	c.JSON(http.StatusOK, gin.H{"logs": logger.GetLogs(count, level)})
}

func formTitle(form entity.NewsForm) string {
	if form.Id == 0 {
		return "pages.newsForm.addTitle"
	}
	return "pages.newsForm.editTitle"
}

func (a *AdminController) addForm(c *gin.Context) {
	html(c, http.StatusOK, "add_news.html", formTitle(entity.NewsForm{}), gin.H{"form": entity.NewsForm{}})
}

func (a *AdminController) editForm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		NotFound(c)
		return
	}
	form, err := a.newsService.EditForm(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	html(c, http.StatusOK, "add_news.html", formTitle(*form), gin.H{"form": form})
}

// save creates the news item when the form id is 0 and updates it otherwise.
func (a *AdminController) save(c *gin.Context) {
	var form entity.NewsForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Debug("invalid news form: ", err)
		html(c, http.StatusBadRequest, "add_news.html", formTitle(form), gin.H{
			"form":  form,
			"error": I18nWeb(c, "pages.newsForm.toasts.invalidFormData"),
		})
		return
	}

	_, err := a.newsService.Save(c.Request.Context(), form)
	if errors.Is(err, service.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
