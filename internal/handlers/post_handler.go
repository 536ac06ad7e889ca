package handlers

import (
	"net/http"
	"strconv"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"github.com/chrischiuowo/space-room-api/internal/service"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultPageSize = 8

// PostHandler handles post CRUD and listing HTTP requests
type PostHandler struct {
	postRepository repositories.PostRepository
	profiles       *service.ProfileService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, profiles *service.ProfileService) *PostHandler {
	return &PostHandler{postRepository: postRepo, profiles: profiles}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/post/1/:post_id", h.GetOnlyPost)
	g.GET("/posts/user/:user_id", h.GetUserPosts)
	g.GET("/posts/likes/:user_id", h.GetPostLikes)
	g.GET("/posts/comments/:user_id", h.GetPostComments)
	g.POST("/post/1", h.CreatePost)
	g.PATCH("/post/1/:post_id", h.UpdatePost)
	g.DELETE("/post/1/:post_id", h.DeleteOnlyPost)
	g.DELETE("/posts/user/:user_id", h.DeleteUserPosts)
	g.DELETE("/posts", h.DeletePosts)
}

// queryFromParams maps the listing query params onto a PostQuery:
// q keyword, s sort (hot|old|new), p page, l limit, cs comment sort.
func queryFromParams(c echo.Context) models.PostQuery {
	q := models.PostQuery{
		Keyword:     c.QueryParam("q"),
		Sort:        models.PostSortNew,
		CommentsAsc: c.QueryParam("cs") == "old",
	}
	switch c.QueryParam("s") {
	case "hot":
		q.Sort = models.PostSortHot
	case "old":
		q.Sort = models.PostSortOld
	}
	if page, err := strconv.ParseInt(c.QueryParam("p"), 10, 64); err == nil && page > 0 {
		q.Page = page
		q.Limit = defaultPageSize
	} else if limit, err := strconv.ParseInt(c.QueryParam("l"), 10, 64); err == nil && limit > 0 {
		q.Limit = limit
	}
	return q
}

func (h *PostHandler) populated(c echo.Context, posts []models.Post, asc bool) error {
	data, err := h.profiles.Populate(c.Request().Context(), posts, asc)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "posts fetched", data)
}

// GetPosts lists posts with search, sort and pagination
func (h *PostHandler) GetPosts(c echo.Context) error {
	q := queryFromParams(c)
	posts, err := h.postRepository.ListPosts(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.populated(c, posts, q.CommentsAsc)
}

// GetOnlyPost returns a single post with its comment thread
func (h *PostHandler) GetOnlyPost(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.populated(c, []models.Post{*post}, false)
}

// GetUserPosts lists posts owned by a user
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	q := queryFromParams(c)
	posts, err := h.postRepository.GetPostsByUser(c.Request().Context(), oid, q)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.populated(c, posts, q.CommentsAsc)
}

// GetPostLikes lists posts the user has liked
func (h *PostHandler) GetPostLikes(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	posts, err := h.postRepository.GetPostsLikedBy(c.Request().Context(), oid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.populated(c, posts, false)
}

// GetPostComments lists the user's posts with their comment threads
func (h *PostHandler) GetPostComments(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	posts, err := h.postRepository.GetPostsByUser(c.Request().Context(), oid, models.PostQuery{Sort: models.PostSortNew})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.populated(c, posts, false)
}

// CreatePost creates a post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	actorID := currentUserID(c)
	actorOID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		User:    actorOID,
		Content: req.Content,
		Images:  req.Images,
	}
	ctx := c.Request().Context()
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	service.InvalidateRecentPosts(ctx)

	return respond(c, http.StatusCreated, "post created", post)
}

// UpdatePost updates a post's content and images. Only the owner may update.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.User.Hex() != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the post owner")
	}

	updated, err := h.postRepository.UpdatePost(ctx, oid, req.Content, req.Images)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "post updated", updated)
}

// DeleteOnlyPost deletes a single post. Only the owner may delete.
func (h *PostHandler) DeleteOnlyPost(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.User.Hex() != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not the post owner")
	}

	if err := h.postRepository.DeletePost(ctx, oid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	service.InvalidateRecentPosts(ctx)
	return respond(c, http.StatusOK, "post deleted", nil)
}

// DeleteUserPosts bulk-deletes all posts owned by a user
func (h *PostHandler) DeleteUserPosts(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	ctx := c.Request().Context()
	deleted, err := h.postRepository.DeletePostsByUser(ctx, oid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	service.InvalidateRecentPosts(ctx)
	return respond(c, http.StatusOK, "user posts deleted", echo.Map{"deleted": deleted})
}

// DeletePosts bulk-deletes every post
func (h *PostHandler) DeletePosts(c echo.Context) error {
	ctx := c.Request().Context()
	deleted, err := h.postRepository.DeleteAllPosts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	service.InvalidateRecentPosts(ctx)
	return respond(c, http.StatusOK, "all posts deleted", echo.Map{"deleted": deleted})
}
