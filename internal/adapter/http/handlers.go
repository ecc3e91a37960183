package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	// reports whether the external valuation calculator answers; nil to skip
	valuatorHealth func(ctx context.Context) bool
}

func NewHandler(valuatorHealth func(ctx context.Context) bool) *Handler {
	return &Handler{valuatorHealth: valuatorHealth}
}

func (h *Handler) Health(c echo.Context) error {
	body := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.valuatorHealth != nil {
		body["valuator"] = h.valuatorHealth(c.Request().Context())
	}
	return c.JSON(http.StatusOK, body)
}
