package service

import (
	"context"

	"github.com/edusite/edusite/database"
	"github.com/edusite/edusite/database/model"
	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/util/metrics"
	"github.com/edusite/edusite/web/entity"
)

// Save creates a news row when form.Id is 0, otherwise overwrites name, text
// and image of the existing row. Id and CreatedOn never change on update.
func (s *NewsService) Save(ctx context.Context, form entity.NewsForm) (*model.News, error) {
	op := "update"
	if form.Id == 0 {
		op = "create"
	}

	news, err := database.Upsert(ctx, s.db, form.Id, func(n *model.News) {
		if n.Id == 0 {
			n.CreatedOn = s.now().UTC()
		}
		n.Name = form.Name
		n.Text = form.Text
		n.Image = form.Image
	})
	if err != nil {
		return nil, err
	}

	metrics.NewsWrites.WithLabelValues(op).Inc()
	logger.Infof("news %d %sd: %q", news.Id, op, news.Name)
	return news, nil
}

// EditForm loads an existing row into a form for editing.
func (s *NewsService) EditForm(ctx context.Context, id int) (*entity.NewsForm, error) {
	n, err := database.Get[model.News](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &entity.NewsForm{
		Id:    n.Id,
		Name:  n.Name,
		Image: n.Image,
		Text:  n.Text,
	}, nil
}
