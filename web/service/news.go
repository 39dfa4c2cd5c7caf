// Package service implements the edusite business logic on top of the database package.
package service

import (
	"context"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/edusite/edusite/database"
	"github.com/edusite/edusite/database/model"
	"github.com/edusite/edusite/web/entity"

	"gorm.io/gorm"
)

const (
	HomeNewsCount = 2
	NewsPageSize  = 6
	PreviewLength = 200
	Ellipsis      = "..."

	newsOrder = "created_on DESC, id DESC"
)

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// NewsService serves news to the public pages and to the admin form.
type NewsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNewsService(db *gorm.DB) *NewsService {
	return &NewsService{db: db, now: time.Now}
}

// Latest returns the HomeNewsCount newest items as previews.
func (s *NewsService) Latest(ctx context.Context) ([]entity.NewsPreview, error) {
	page, err := database.List[model.News](ctx, s.db, database.Query{
		Order:    newsOrder,
		Page:     1,
		PageSize: HomeNewsCount,
	})
	if err != nil {
		return nil, err
	}
	return previews(page.Items), nil
}

// List returns the requested page of previews. Pages below 1 are treated as 1,
// pages past the end come back empty.
func (s *NewsService) List(ctx context.Context, page int) (*entity.NewsPage, error) {
	p, err := database.List[model.News](ctx, s.db, database.Query{
		Order:    newsOrder,
		Page:     page,
		PageSize: NewsPageSize,
	})
	if err != nil {
		return nil, err
	}
	return &entity.NewsPage{
		Items:  previews(p.Items),
		Number: p.Number,
		Pages:  p.Pages(),
		Total:  p.Total,
	}, nil
}

// Detail returns the full item. The body is escaped and newlines become <br>.
func (s *NewsService) Detail(ctx context.Context, id int) (*entity.NewsDetail, error) {
	n, err := database.Get[model.News](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &entity.NewsDetail{
		Id:        n.Id,
		Name:      n.Name,
		Image:     n.Image,
		Body:      LineBreaks(n.Text),
		CreatedOn: n.CreatedOn,
	}, nil
}

func previews(items []model.News) []entity.NewsPreview {
	out := make([]entity.NewsPreview, 0, len(items))
	for _, n := range items {
		out = append(out, entity.NewsPreview{
			Id:        n.Id,
			Name:      n.Name,
			Image:     n.Image,
			Preview:   Truncate(n.Text, PreviewLength),
			CreatedOn: n.CreatedOn,
		})
	}
	return out
}

// Truncate keeps the first limit characters of text and appends Ellipsis.
// Text of at most limit characters is returned unchanged.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + Ellipsis
}

// LineBreaks escapes text for HTML and replaces every newline with <br>.
func LineBreaks(text string) template.HTML {
	return template.HTML(lineBreaks.Replace(html.EscapeString(text)))
}
