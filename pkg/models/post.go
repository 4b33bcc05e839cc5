package models

import (
	"time"
)

type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"column:titulo;not null" json:"titulo"`
	Content   string    `gorm:"column:contenido" json:"contenido"`
	AuthorID  int64     `gorm:"column:autor_id;not null;index" json:"autorId"`
	CreatedAt time.Time `json:"creadoEn"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

type Comment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Content      string    `gorm:"type:text;not null" json:"contenido"`
	PostID       int64     `gorm:"not null;index" json:"postId"`
	AuthorID     int64     `gorm:"not null;index" json:"autorId"`
	AuthorName   string    `gorm:"type:varchar(100);not null" json:"autorNombre"`
	AuthorAvatar string    `gorm:"type:varchar(500)" json:"autorAvatar"`
	CreatedAt    time.Time `json:"creadoEn"`
	UpdatedAt    time.Time `json:"actualizadoEn"`
}
