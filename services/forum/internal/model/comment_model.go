package model

import (
	"time"
)

type CommentModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Content      string    `gorm:"type:text;not null"`
	PostID       int64     `gorm:"not null;index"`
	AuthorID     int64     `gorm:"not null;index"`
	AuthorName   string    `gorm:"type:varchar(100);not null"`
	AuthorAvatar string    `gorm:"type:varchar(500)"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (CommentModel) TableName() string {
	return "comments"
}
