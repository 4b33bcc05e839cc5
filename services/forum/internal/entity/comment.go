package entity

import "time"

type Comment struct {
	ID           int64     `json:"id"`
	Content      string    `json:"contenido"`
	PostID       int64     `json:"postId"`
	AuthorID     int64     `json:"autorId"`
	AuthorName   string    `json:"autorNombre"`
	AuthorAvatar string    `json:"autorAvatar"`
	CreatedAt    time.Time `json:"creadoEn"`
	UpdatedAt    time.Time `json:"actualizadoEn"`
}
