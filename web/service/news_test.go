package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edusite/edusite/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	long := strings.Repeat("A", 250)
	got := Truncate(long, PreviewLength)
	assert.Equal(t, strings.Repeat("A", 200)+"...", got)

	exact := strings.Repeat("B", 200)
	assert.Equal(t, exact, Truncate(exact, PreviewLength))
	assert.Equal(t, "", Truncate("", PreviewLength))

	cyr := strings.Repeat("ж", 201)
	assert.Equal(t, strings.Repeat("ж", 200)+"...", Truncate(cyr, PreviewLength))
}

func TestLineBreaks(t *testing.T) {
	assert.EqualValues(t, "one<br>two<br>three", LineBreaks("one\ntwo\r\nthree"))
	assert.EqualValues(t, "&lt;b&gt;bold&lt;/b&gt;<br>", LineBreaks("<b>bold</b>\n"))
	assert.EqualValues(t, "plain", LineBreaks("plain"))
}

func TestLatest(t *testing.T) {
	db := setupDB(t)
	rows := seedNews(t, db, 3, strings.Repeat("A", 250))
	svc := NewNewsService(db)

	items, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, items, HomeNewsCount)
	assert.Equal(t, rows[2].Id, items[0].Id)
	assert.Equal(t, rows[1].Id, items[1].Id)
	for _, it := range items {
		assert.Equal(t, strings.Repeat("A", 200)+"...", it.Preview)
	}
}

func TestListPagination(t *testing.T) {
	db := setupDB(t)
	seedNews(t, db, 14, "short")
	svc := NewNewsService(db)
	ctx := context.Background()

	first, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 3, first.Pages)
	assert.EqualValues(t, 14, first.Total)
	assert.Len(t, first.Items, NewsPageSize)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())
	assert.Equal(t, "short", first.Items[0].Preview)

	second, err := svc.List(ctx, 2)
	require.NoError(t, err)
	ids := map[int]bool{}
	for _, it := range first.Items {
		ids[it.Id] = true
	}
	for _, it := range second.Items {
		assert.False(t, ids[it.Id])
	}
	assert.True(t, first.Items[len(first.Items)-1].CreatedOn.After(second.Items[0].CreatedOn))

	last, err := svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, last.Items, 2)
	assert.False(t, last.HasNext())

	beyond, err := svc.List(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestDetail(t *testing.T) {
	db := setupDB(t)
	rows := seedNews(t, db, 1, "line one\nline two")
	svc := NewNewsService(db)

	d, err := svc.Detail(context.Background(), rows[0].Id)
	require.NoError(t, err)
	assert.EqualValues(t, "line one<br>line two", d.Body)

	_, err = svc.Detail(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveCreatesAndUpdates(t *testing.T) {
	db := setupDB(t)
	svc := NewNewsService(db)
	ctx := context.Background()
	now := time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	created, err := svc.Save(ctx, entity.NewsForm{Name: "Open day", Image: "open.jpg", Text: "Saturday"})
	require.NoError(t, err)
	require.NotZero(t, created.Id)
	assert.True(t, now.Equal(created.CreatedOn))

	svc.now = func() time.Time { return now.Add(48 * time.Hour) }
	updated, err := svc.Save(ctx, entity.NewsForm{Id: created.Id, Name: "Open day moved", Image: "open2.jpg", Text: "Sunday"})
	require.NoError(t, err)
	assert.Equal(t, created.Id, updated.Id)

	form, err := svc.EditForm(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.NewsForm{Id: created.Id, Name: "Open day moved", Image: "open2.jpg", Text: "Sunday"}, *form)

	d, err := svc.Detail(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, now.Equal(d.CreatedOn.UTC()))

	page, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestSaveUnknownId(t *testing.T) {
	db := setupDB(t)
	svc := NewNewsService(db)

	_, err := svc.Save(context.Background(), entity.NewsForm{Id: 42, Name: "x", Image: "y", Text: "z"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.EditForm(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
