// Package entity defines the view and form structures exchanged between
// controllers, services and templates. Persistence models never reach templates.
package entity

import (
	"html/template"
	"time"
)

// NewsPreview is a list item: the body is cut to the preview length.
type NewsPreview struct {
	Id        int
	Name      string
	Image     string
	Preview   string
	CreatedOn time.Time
}

// NewsDetail carries the full body with line breaks already converted to markup.
type NewsDetail struct {
	Id        int
	Name      string
	Image     string
	Body      template.HTML
	CreatedOn time.Time
}

// NewsPage is one page of the public news listing.
type NewsPage struct {
	Items  []NewsPreview
	Number int
	Pages  int
	Total  int64
}

func (p *NewsPage) HasPrev() bool { return p.Number > 1 }

func (p *NewsPage) HasNext() bool { return p.Number < p.Pages }

func (p *NewsPage) Prev() int { return p.Number - 1 }

func (p *NewsPage) Next() int { return p.Number + 1 }

// NewsForm is the add/edit form. Id 0 creates a new row.
type NewsForm struct {
	Id    int    `json:"id" form:"id"`
	Name  string `json:"name" form:"name" binding:"required,notblank,max=255"`
	Image string `json:"image" form:"image" binding:"required,notblank,max=255"`
	Text  string `json:"text" form:"text" binding:"required,notblank"`
}

// LoginForm represents the login request structure.
type LoginForm struct {
	Email    string `json:"email" form:"email" binding:"required,max=150"`
	Password string `json:"password" form:"password" binding:"required"`
}
