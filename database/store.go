package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Query selects one page of records. Page is 1-indexed.
type Query struct {
	Order    string
	Page     int
	PageSize int
	// Where is passed to gorm's Where when non-nil.
	Where any
	Args  []any
}

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int64
}

// Pages returns the number of non-empty pages.
func (p *Page[T]) Pages() int {
	if p.Size <= 0 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p *Page[T]) HasPrev() bool { return p.Number > 1 }

func (p *Page[T]) HasNext() bool { return p.Number < p.Pages() }

// Get loads the record with the given primary key.
func Get[T any](ctx context.Context, db *gorm.DB, id int) (*T, error) {
	rec := new(T)
	err := db.WithContext(ctx).First(rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%T %d: %w", rec, id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the requested page. A page past the end yields no items and no error.
func List[T any](ctx context.Context, db *gorm.DB, q Query) (*Page[T], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		return nil, fmt.Errorf("invalid page size %d", q.PageSize)
	}

	scoped := func() *gorm.DB {
		tx := db.WithContext(ctx).Model(new(T))
		if q.Where != nil {
			tx = tx.Where(q.Where, q.Args...)
		}
		return tx
	}

	page := &Page[T]{Number: q.Page, Size: q.PageSize, Items: []T{}}
	if err := scoped().Count(&page.Total).Error; err != nil {
		return nil, err
	}
	if int64((q.Page-1)*q.PageSize) >= page.Total {
		return page, nil
	}

	tx := scoped()
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	err := tx.Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&page.Items).
		Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Upsert creates a record when id is 0, otherwise loads the existing one.
// apply mutates the record before it is written; both steps share a transaction.
func Upsert[T any](ctx context.Context, db *gorm.DB, id int, apply func(*T)) (*T, error) {
	rec := new(T)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if id == 0 {
			apply(rec)
			return tx.Create(rec).Error
		}
		err := tx.First(rec, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%T %d: %w", rec, id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		apply(rec)
		return tx.Save(rec).Error
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
