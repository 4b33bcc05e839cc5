package model

import (
	"time"
)

// PostModel maps the columns of the posts table the forum service reads.
// The table is owned by the post flow.
type PostModel struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"column:titulo"`
	AuthorID  int64  `gorm:"column:autor_id"`
	CreatedAt time.Time
}

func (PostModel) TableName() string {
	return "posts"
}
