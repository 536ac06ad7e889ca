package handlers

import (
	"net/http"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"github.com/chrischiuowo/space-room-api/internal/service"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentHandler handles comment and reply HTTP requests
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	profiles          *service.ProfileService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, profiles *service.ProfileService) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		profiles:          profiles,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comments/:post_id", h.GetComments)
	g.POST("/comment/1/:post_id", h.CreateComment)
	g.PATCH("/comment/1/:comment_id", h.UpdateComment)
	g.DELETE("/comment/1/:comment_id", h.DeleteComment)
	g.POST("/comment/reply/1/:post_id/:comment_id", h.CreateReply)
	g.PATCH("/comment/reply/1/:reply_id", h.UpdateReply)
	g.DELETE("/comment/reply/1/:reply_id", h.DeleteReply)
}

// GetComments returns the comment threads of a post, oldest first, with
// authors and replies joined in.
func (h *CommentHandler) GetComments(c echo.Context) error {
	postOID, err := primitive.ObjectIDFromHex(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, postOID)
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	populated, err := h.profiles.Populate(ctx, []models.Post{*post}, true)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "comments fetched", populated[0].Comments)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postOID, err := primitive.ObjectIDFromHex(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	userOID, err := primitive.ObjectIDFromHex(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.postRepository.GetPostByID(ctx, postOID); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := &models.Comment{
		User:    userOID,
		Post:    postOID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, "comment created", comment)
}

// UpdateComment updates a comment's content. Only the author may update.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	commentOID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, commentOID)
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.User.Hex() != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the comment author")
	}

	updated, err := h.commentRepository.UpdateComment(ctx, commentOID, req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "comment updated", updated)
}

// DeleteComment removes a comment. Only the author may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentOID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, commentOID)
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.User.Hex() != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the comment author")
	}

	if err := h.commentRepository.DeleteComment(ctx, commentOID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "comment deleted", nil)
}

// CreateReply adds a reply under an existing comment
func (h *CommentHandler) CreateReply(c echo.Context) error {
	postOID, err := primitive.ObjectIDFromHex(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	commentOID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}
	userOID, err := primitive.ObjectIDFromHex(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, commentOID)
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.Post != postOID {
		return echo.NewHTTPError(http.StatusBadRequest, "comment does not belong to this post")
	}

	reply := &models.CommentReply{
		User:    userOID,
		Post:    postOID,
		Comment: commentOID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateReply(ctx, reply); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusCreated, "reply created", reply)
}

// UpdateReply updates a reply's content. Only the author may update.
func (h *CommentHandler) UpdateReply(c echo.Context) error {
	replyOID, err := primitive.ObjectIDFromHex(c.Param("reply_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reply id")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	reply, err := h.commentRepository.GetReplyByID(ctx, replyOID)
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusNotFound, "reply not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reply.User.Hex() != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the reply author")
	}

	updated, err := h.commentRepository.UpdateReply(ctx, replyOID, req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "reply updated", updated)
}

// DeleteReply removes a reply. Only the author may delete.
func (h *CommentHandler) DeleteReply(c echo.Context) error {
	replyOID, err := primitive.ObjectIDFromHex(c.Param("reply_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reply id")
	}

	ctx := c.Request().Context()
	reply, err := h.commentRepository.GetReplyByID(ctx, replyOID)
	if err == mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusNotFound, "reply not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reply.User.Hex() != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the reply author")
	}

	if err := h.commentRepository.DeleteReply(ctx, replyOID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "reply deleted", nil)
}
