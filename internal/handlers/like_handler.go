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

// LikeHandler handles post-like HTTP requests. Like sets live on the post
// document and are mutated with the same conditional-update guard as follow
// edges.
type LikeHandler struct {
	postRepository repositories.PostRepository
	profiles       *service.ProfileService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository, profiles *service.ProfileService) *LikeHandler {
	return &LikeHandler{postRepository: postRepo, profiles: profiles}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.GET("/likes", h.GetPostLikes)
	g.PATCH("/likes", h.TogglePostLikes)
}

// GetPostLikes lists the posts liked by user_id, defaulting to the
// authenticated user.
func (h *LikeHandler) GetPostLikes(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = currentUserID(c)
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	posts, err := h.postRepository.GetPostsLikedBy(c.Request().Context(), oid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	data, err := h.profiles.Populate(c.Request().Context(), posts, false)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "liked posts fetched", data)
}

// TogglePostLikes likes or unlikes post_id for the authenticated user
func (h *LikeHandler) TogglePostLikes(c echo.Context) error {
	postID := c.QueryParam("post_id")
	mode := models.LikeMode(c.QueryParam("like_mode"))
	if postID == "" || (mode != models.LikeModeLike && mode != models.LikeModeUnlike) {
		return echo.NewHTTPError(http.StatusBadRequest, "post_id and like_mode are required")
	}

	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	userOID, err := primitive.ObjectIDFromHex(currentUserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}

	ctx := c.Request().Context()
	var updated *models.Post
	if mode == models.LikeModeLike {
		updated, err = h.postRepository.AddLike(ctx, postOID, userOID)
	} else {
		updated, err = h.postRepository.RemoveLike(ctx, postOID, userOID)
	}
	if err == mongo.ErrNoDocuments {
		// Guard miss: the post is gone or the like set is already in the
		// requested state.
		if _, lookErr := h.postRepository.GetPostByID(ctx, postOID); lookErr == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		if mode == models.LikeModeLike {
			return echo.NewHTTPError(http.StatusBadRequest, "already liked this post")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "have not liked this post")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := "post liked"
	if mode == models.LikeModeUnlike {
		message = "post unliked"
	}
	return respond(c, http.StatusOK, message, updated)
}
