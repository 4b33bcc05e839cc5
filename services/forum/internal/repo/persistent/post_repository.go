package persistent

import (
	"context"

	"geekplay/services/forum/internal/entity"
	"geekplay/services/forum/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	GetByID(ctx context.Context, postID int64) (*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*entity.Post, error) {
	var postModel model.PostModel
	err := r.db.WithContext(ctx).
		Select("id", "titulo", "autor_id").
		Where("id = ?", postID).
		First(&postModel).Error
	if err != nil {
		return nil, translate(err)
	}
	return ToPostEntity(&postModel), nil
}
