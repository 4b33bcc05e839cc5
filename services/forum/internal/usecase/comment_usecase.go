package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"geekplay/pkg/logger"
	"geekplay/pkg/notify"
	"geekplay/services/forum/internal/entity"
	"geekplay/services/forum/internal/repo/cache"
	"geekplay/services/forum/internal/repo/persistent"
)

const (
	commentNotificationTitle    = "Nuevo comentario en tu post"
	commentNotificationTemplate = "%s comentó en tu publicación '%s'"
)

type CreateCommentInput struct {
	PostID       int64
	Content      string
	AuthorID     int64
	AuthorName   string
	AuthorAvatar string
}

type CommentUseCase interface {
	ListComments(ctx context.Context, postID int64) ([]*entity.Comment, error)
	CreateComment(ctx context.Context, in CreateCommentInput) (*entity.Comment, error)
	UpdateComment(ctx context.Context, commentID int64, content string, actingUserID int64, actingRole string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, commentID int64, actingUserID int64, actingRole string) error
	CountComments(ctx context.Context, postID int64) (int64, error)
}

type commentUseCase struct {
	commentRepo persistent.CommentRepository
	postRepo    persistent.PostRepository
	countCache  cache.CommentCountCache
	notifier    notify.Dispatcher
	logger      *logger.Logger
	now         func() time.Time
}

// NewCommentUseCase accepts a nil countCache; counts then always hit the
// database.
func NewCommentUseCase(
	commentRepo persistent.CommentRepository,
	postRepo persistent.PostRepository,
	countCache cache.CommentCountCache,
	notifier notify.Dispatcher,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		countCache:  countCache,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *commentUseCase) ListComments(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	comments, err := uc.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		uc.logger.Error("Failed to list comments for post %d: %v", postID, err)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (uc *commentUseCase) CreateComment(ctx context.Context, in CreateCommentInput) (*entity.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post, err := uc.postRepo.GetByID(ctx, in.PostID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		uc.logger.Error("Failed to load post %d: %v", in.PostID, err)
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := &entity.Comment{
		Content:      content,
		PostID:       post.ID,
		AuthorID:     in.AuthorID,
		AuthorName:   in.AuthorName,
		AuthorAvatar: in.AuthorAvatar,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		uc.logger.Error("Failed to create comment on post %d: %v", post.ID, err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if post.AuthorID != in.AuthorID {
		uc.notifier.Dispatch(post.AuthorID, notify.KindComment, commentNotificationTitle,
			fmt.Sprintf(commentNotificationTemplate, in.AuthorName, post.Title))
	}

	uc.invalidateCount(ctx, post.ID)
	return comment, nil
}

func (uc *commentUseCase) UpdateComment(ctx context.Context, commentID int64, content string, actingUserID int64, actingRole string) (*entity.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment, err := uc.load(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !CanModify(actingUserID, actingRole, comment.AuthorID) {
		uc.logger.Warn("User %d denied editing comment %d", actingUserID, commentID)
		return nil, ErrEditForbidden
	}

	comment.Content = content
	comment.UpdatedAt = uc.now()
	if err := uc.commentRepo.UpdateContent(ctx, comment); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		uc.logger.Error("Failed to update comment %d: %v", commentID, err)
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

func (uc *commentUseCase) DeleteComment(ctx context.Context, commentID int64, actingUserID int64, actingRole string) error {
	comment, err := uc.load(ctx, commentID)
	if err != nil {
		return err
	}

	if !CanModify(actingUserID, actingRole, comment.AuthorID) {
		uc.logger.Warn("User %d denied deleting comment %d", actingUserID, commentID)
		return ErrDeleteForbidden
	}

	if err := uc.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrCommentNotFound
		}
		uc.logger.Error("Failed to delete comment %d: %v", commentID, err)
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	uc.invalidateCount(ctx, comment.PostID)
	return nil
}

func (uc *commentUseCase) CountComments(ctx context.Context, postID int64) (int64, error) {
	var (
		fill    bool
		version int64
	)
	if uc.countCache != nil {
		entry, err := uc.countCache.Get(ctx, postID)
		if err != nil {
			uc.logger.Warn("[CACHE] Failed to read comment count for post %d: %v", postID, err)
		} else if entry.Hit {
			return entry.Count, nil
		} else {
			fill, version = true, entry.Version
		}
	}

	count, err := uc.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		uc.logger.Error("Failed to count comments for post %d: %v", postID, err)
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}

	// Fill is refused if a create or delete invalidated the count while the
	// database was being read.
	if fill {
		stored, err := uc.countCache.Fill(ctx, postID, count, version)
		if err != nil {
			uc.logger.Warn("[CACHE] Failed to store comment count for post %d: %v", postID, err)
		} else if !stored {
			uc.logger.Debug("[CACHE] Comment count for post %d changed during read, not cached", postID)
		}
	}
	return count, nil
}

func (uc *commentUseCase) load(ctx context.Context, commentID int64) (*entity.Comment, error) {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		uc.logger.Error("Failed to load comment %d: %v", commentID, err)
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return comment, nil
}

func (uc *commentUseCase) invalidateCount(ctx context.Context, postID int64) {
	if uc.countCache == nil {
		return
	}
	if err := uc.countCache.Invalidate(ctx, postID); err != nil {
		uc.logger.Warn("[CACHE] Failed to invalidate comment count for post %d: %v", postID, err)
	}
}
