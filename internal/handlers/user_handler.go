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

const randomUsersLimit = 5

// UserHandler handles HTTP requests related to users, including the notice
// digest and the profile wall.
type UserHandler struct {
	userRepository repositories.UserRepository
	notices        *service.NoticeService
	profiles       *service.ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, notices *service.NoticeService, profiles *service.ProfileService) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		notices:        notices,
		profiles:       profiles,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/user/notice", h.GetUserNotice)
	g.GET("/user/profile/:user_id", h.GetUserProfile)
	g.GET("/random_users", h.GetRandomUsers)
	g.GET("/users", h.GetUsers)
	g.GET("/user/:user_id", h.GetUserInfo)
	g.PATCH("/user/:user_id", h.UpdateUserInfo)
	g.DELETE("/user/:user_id", h.DeleteUserInfo)
}

// GetUserNotice returns the authenticated user's notice digest
func (h *UserHandler) GetUserNotice(c echo.Context) error {
	actorID := currentUserID(c)
	if actorID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	}

	notice, err := h.notices.BuildNotice(c.Request().Context(), actorID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "notice fetched", notice)
}

// GetUserProfile returns a user's record and post wall
func (h *UserHandler) GetUserProfile(c echo.Context) error {
	user, posts, err := h.profiles.GetProfile(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, "profile fetched", echo.Map{
		"user": user,
		"post": posts,
	})
}

// GetRandomUsers returns a small random window of users
func (h *UserHandler) GetRandomUsers(c echo.Context) error {
	users, err := h.userRepository.GetRandomUsers(c.Request().Context(), randomUsersLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "random users fetched", users)
}

// GetUsers searches users by name; an empty query returns everyone
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "users fetched", users)
}

// GetUserInfo returns a single user record
func (h *UserHandler) GetUserInfo(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "user fetched", user)
}

// UpdateUserInfo updates a user's name and avatar
func (h *UserHandler) UpdateUserInfo(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "user updated", user)
}

// DeleteUserInfo deletes a user record. Follow edges pointing at the deleted
// user are not retracted.
func (h *UserHandler) DeleteUserInfo(c echo.Context) error {
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.userRepository.DeleteUser(c.Request().Context(), oid); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, "user deleted", nil)
}
