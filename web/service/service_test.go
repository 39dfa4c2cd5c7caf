package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/edusite/edusite/config"
	"github.com/edusite/edusite/database"
	"github.com/edusite/edusite/database/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "edusite.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	return db
}

func seedNews(t *testing.T, db *gorm.DB, n int, text string) []model.News {
	t.Helper()
	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	out := make([]model.News, 0, n)
	for i := 0; i < n; i++ {
		row := model.News{
			Name:      "News",
			Image:     "img.png",
			Text:      text,
			CreatedOn: base.AddDate(0, 0, i),
		}
		require.NoError(t, db.WithContext(context.Background()).Create(&row).Error)
		out = append(out, row)
	}
	return out
}
