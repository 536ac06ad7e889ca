package handlers

import (
	"errors"
	"net/http"

	"github.com/chrischiuowo/space-room-api/internal/apperrors"
	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user's ID from the JWT claims the
// auth middleware stored on the context. Empty when unauthenticated.
func currentUserID(c echo.Context) string {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// respond writes the standard success envelope
func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// httpError maps an application error to a transport error. Each error code
// has exactly one status; anything untyped is a 500.
func httpError(err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrValidation, apperrors.ErrSelfFollow, apperrors.ErrAlreadyFollowing, apperrors.ErrNotFollowing:
		status = http.StatusBadRequest
	case apperrors.ErrUnauthorized, apperrors.ErrInvalidCredentials:
		status = http.StatusUnauthorized
	case apperrors.ErrUserNotFound, apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrDuplicate:
		status = http.StatusConflict
	}
	return echo.NewHTTPError(status, appErr.Message)
}
