package persistent

import (
	"geekplay/services/forum/internal/entity"
	"geekplay/services/forum/internal/model"
)

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:           m.ID,
		Content:      m.Content,
		PostID:       m.PostID,
		AuthorID:     m.AuthorID,
		AuthorName:   m.AuthorName,
		AuthorAvatar: m.AuthorAvatar,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:           e.ID,
		Content:      e.Content,
		PostID:       e.PostID,
		AuthorID:     e.AuthorID,
		AuthorName:   e.AuthorName,
		AuthorAvatar: e.AuthorAvatar,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:       m.ID,
		Title:    m.Title,
		AuthorID: m.AuthorID,
	}
}
