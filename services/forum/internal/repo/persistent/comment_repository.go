package persistent

import (
	"context"
	"errors"

	"geekplay/services/forum/internal/entity"
	"geekplay/services/forum/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type CommentRepository interface {
	ListByPost(ctx context.Context, postID int64) ([]*entity.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*entity.Comment, error)
	Create(ctx context.Context, comment *entity.Comment) error
	UpdateContent(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, commentID int64) error
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByPost returns newest first; ties on created_at fall back to id.
func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&commentModels).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*entity.Comment, error) {
	var commentModel model.CommentModel
	if err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&commentModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return err
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

// UpdateContent writes only the content column. Author fields are never
// touched after creation.
func (r *commentRepository) UpdateContent(ctx context.Context, comment *entity.Comment) error {
	res := r.db.WithContext(ctx).
		Model(&model.CommentModel{}).
		Where("id = ?", comment.ID).
		Update("content", comment.Content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&model.CommentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentModel{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
