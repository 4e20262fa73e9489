package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/core/ports"
)

// ActivityHandler serves a user's task history.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List handles GET /activity?limit=. Returns the caller's recent task events,
// newest first.
//
// @Summary      List the caller's recent task activity
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries to return (capped at 100)"
// @Success      200    {array}   domain.Activity
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /activity [get]
func (h *ActivityHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.service.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
