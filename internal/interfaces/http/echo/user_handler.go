package echo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
)

type UserHandler struct {
	getUser     app.GetUserByID
	searchUsers app.SearchUsers
}

func NewUserHandler(getUser app.GetUserByID, searchUsers app.SearchUsers) *UserHandler {
	return &UserHandler{getUser: getUser, searchUsers: searchUsers}
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	out, err := h.getUser.Execute(c.Request().Context(), app.GetUserByIDInput{
		ID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidUserID) {
			return c.JSON(http.StatusBadRequest, errorResponse("invalid_user_id", "id must not be empty"))
		}
		if errors.Is(err, app.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse("not_found", "user not found"))
		}

		return c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "failed to get user"))
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, errorResponse("invalid_limit", "limit must be a non-negative integer"))
		}
		limit = parsed
	}

	out, err := h.searchUsers.Execute(c.Request().Context(), app.SearchUsersInput{
		Query: c.QueryParam("q"),
		Limit: limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "failed to search users"))
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
