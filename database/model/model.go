// Package model defines the persisted entities of edusite.
package model

import "time"

// User is an administrator account. Users are created from the command line.
type User struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"size:50;not null"`
	Email    string `json:"email" gorm:"size:150;not null;uniqueIndex"`
	Password string `json:"-" gorm:"not null"`
	Role     int    `json:"role" gorm:"not null;default:0"`
}

func (User) TableName() string { return "user" }

type News struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Image     string    `json:"image" gorm:"size:255;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedOn time.Time `json:"createdOn" gorm:"column:created_on;not null;autoCreateTime;index"`
	// Deleted is stored but no query consults it yet.
	Deleted bool `json:"deleted" gorm:"not null;default:false"`
}

func (News) TableName() string { return "news" }

type Subject struct {
	Id      int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"size:255;not null"`
	Text    string `json:"text" gorm:"type:text;not null"`
	Icon    string `json:"icon" gorm:"size:255;not null"`
	Deleted bool   `json:"deleted" gorm:"not null;default:false"`
}

func (Subject) TableName() string { return "subject" }
