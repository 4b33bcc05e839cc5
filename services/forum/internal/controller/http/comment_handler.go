package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"geekplay/pkg/httperr"
	"geekplay/pkg/logger"
	"geekplay/pkg/middleware"
	"geekplay/services/forum/internal/entity"
	"geekplay/services/forum/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, log *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
		logger:         log,
	}
}

type CommentRequest struct {
	Content string `json:"contenido" binding:"required,max=5000"`
}

type CommentResponse struct {
	ID           int64     `json:"id"`
	Content      string    `json:"contenido"`
	PostID       int64     `json:"postId"`
	AuthorID     int64     `json:"autorId"`
	AuthorName   string    `json:"autorNombre"`
	AuthorAvatar string    `json:"autorAvatar"`
	CreatedAt    time.Time `json:"creadoEn"`
}

type CountResponse struct {
	PostID int64 `json:"postId"`
	Count  int64 `json:"count"`
}

func toCommentResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		Content:      c.Content,
		PostID:       c.PostID,
		AuthorID:     c.AuthorID,
		AuthorName:   c.AuthorName,
		AuthorAvatar: c.AuthorAvatar,
		CreatedAt:    c.CreatedAt,
	}
}

// ListComments godoc
// @Summary      List comments of a post, newest first
// @Tags         comments
// @Produce      json
// @Param        post_id path int true "Post ID"
// @Success      200  {array}   CommentResponse
// @Router       /posts/{post_id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	comments, err := h.commentUseCase.ListComments(c.Request.Context(), postID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		resp[i] = toCommentResponse(comment)
	}
	c.JSON(http.StatusOK, resp)
}

// CountComments godoc
// @Summary      Count comments of a post
// @Tags         comments
// @Produce      json
// @Param        post_id path int true "Post ID"
// @Success      200  {object}  CountResponse
// @Router       /posts/{post_id}/comments/count [get]
func (h *CommentHandler) CountComments(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	count, err := h.commentUseCase.CountComments(c.Request.Context(), postID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, CountResponse{PostID: postID, Count: count})
}

// CreateComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path int true "Post ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  CommentResponse
// @Failure      404  {object}  httperr.Response
// @Router       /posts/{post_id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Unauthorized")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, err.Error())
		return
	}

	comment, err := h.commentUseCase.CreateComment(c.Request.Context(), usecase.CreateCommentInput{
		PostID:       postID,
		Content:      req.Content,
		AuthorID:     userID,
		AuthorName:   c.GetString(middleware.ContextUserName),
		AuthorAvatar: c.GetString(middleware.ContextUserAvatar),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// UpdateComment godoc
// @Summary      Edit a comment (author or admin)
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id path int true "Comment ID"
// @Param        request body CommentRequest true "Comment"
// @Success      200  {object}  CommentResponse
// @Failure      403  {object}  httperr.Response
// @Failure      404  {object}  httperr.Response
// @Router       /comments/{comment_id} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Unauthorized")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, err.Error())
		return
	}

	comment, err := h.commentUseCase.UpdateComment(c.Request.Context(), commentID, req.Content, userID, c.GetString(middleware.ContextUserRole))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DeleteComment godoc
// @Summary      Delete a comment (author or admin)
// @Tags         comments
// @Security     BearerAuth
// @Param        comment_id path int true "Comment ID"
// @Success      204
// @Failure      403  {object}  httperr.Response
// @Failure      404  {object}  httperr.Response
// @Router       /comments/{comment_id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Unauthorized")
		return
	}

	if err := h.commentUseCase.DeleteComment(c.Request.Context(), commentID, userID, c.GetString(middleware.ContextUserRole)); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid "+param)
		return 0, false
	}
	return id, true
}

func (h *CommentHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPostNotFound), errors.Is(err, usecase.ErrCommentNotFound):
		httperr.Abort(c, http.StatusNotFound, httperr.CodeNotFound, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		httperr.Abort(c, http.StatusForbidden, httperr.CodeForbidden, err.Error())
	case errors.Is(err, usecase.ErrEmptyContent):
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, err.Error())
	default:
		h.logger.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		httperr.Abort(c, http.StatusInternalServerError, httperr.CodeInternal, "Internal server error")
	}
}
