package handlers

import (
	"net/http"

	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/service"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow-graph HTTP requests
type FollowHandler struct {
	follows *service.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *service.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.GET("/follows_list", h.GetFollowsList)
	g.PATCH("/follows", h.ToggleFollows)
}

// GetFollowsList returns both sides of a user's graph, populated
func (h *FollowHandler) GetFollowsList(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	lists, err := h.follows.GetFollowLists(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "follow lists fetched", lists)
}

// ToggleFollows follows or unfollows user_id on behalf of the authenticated
// user. A target_id query param, when present, overrides the acting user.
func (h *FollowHandler) ToggleFollows(c echo.Context) error {
	followeeID := c.QueryParam("user_id")
	mode := c.QueryParam("follow_mode")
	if followeeID == "" || mode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and follow_mode are required")
	}

	actorID := c.QueryParam("target_id")
	if actorID == "" {
		actorID = currentUserID(c)
	}
	if actorID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}

	updated, err := h.follows.ToggleFollow(c.Request().Context(), actorID, followeeID, models.FollowMode(mode))
	if err != nil {
		return httpError(err)
	}

	message := "followed"
	if models.FollowMode(mode) == models.FollowModeUnfollow {
		message = "unfollowed"
	}
	return respond(c, http.StatusOK, message, updated)
}
