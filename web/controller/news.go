package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edusite/edusite/web/service"

	"github.com/gin-gonic/gin"
)

// NewsController serves the public news list and detail pages.
type NewsController struct {
	BaseController

	newsService *service.NewsService
}

func NewNewsController(g *gin.RouterGroup, news *service.NewsService) *NewsController {
	a := &NewsController{newsService: news}
	a.initRouter(g)
	return a
}

func (a *NewsController) initRouter(g *gin.RouterGroup) {
	g.GET("/news", a.list)
	g.GET("/news/:id", a.detail)
}

// list renders ?page=N; a missing or malformed page number means the first page.
func (a *NewsController) list(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 1
	}
	news, err := a.newsService.List(c.Request.Context(), page)
	if err != nil {
		serverError(c, err)
		return
	}
	html(c, http.StatusOK, "news.html", "pages.news.title", gin.H{"page": news})
}

func (a *NewsController) detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		NotFound(c)
		return
	}
	news, err := a.newsService.Detail(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	html(c, http.StatusOK, "news_detail.html", "pages.news.title", gin.H{"news": news})
}
