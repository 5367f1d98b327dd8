package echo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
)

type ImportHandler struct {
	useCase     app.ImportUsersFromJSON
	skipInvalid bool
}

type importUsersRequest struct {
	SourcePath string `json:"source_path"`
	DryRun     bool   `json:"dry_run"`
}

func NewImportHandler(useCase app.ImportUsersFromJSON, skipInvalid bool) *ImportHandler {
	return &ImportHandler{useCase: useCase, skipInvalid: skipInvalid}
}

// ImportUsers runs an import to completion within the request.
func (h *ImportHandler) ImportUsers(c echo.Context) error {
	var req importUsersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("bad_request", "invalid request body"))
	}

	sourcePath := strings.TrimSpace(req.SourcePath)
	if err := app.ValidateServerSourcePath(sourcePath); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse("invalid_source", "source_path must be a relative .json file"))
	}

	out, err := h.useCase.Execute(c.Request().Context(), app.ImportUsersFromJSONInput{
		SourcePaths: []string{sourcePath},
		SkipInvalid: h.skipInvalid,
		DryRun:      req.DryRun,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, errorResponse("invalid_input", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "failed to import users"))
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
