package handler

import (
	"context"
	"time"

	"resume-sync/internal/database"
	"resume-sync/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db database.DB
}

func NewHealthHandler(db database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := map[string]any{"database": "ok"}
	status := fiber.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := pingDB(ctx, h.db); err != nil {
			data["database"] = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	}

	return response.Success(c, status, response.MessageOK, data)
}

func pingDB(ctx context.Context, db database.DB) error {
	row := db.QueryRow(ctx, "SELECT 1")
	var one int
	return row.Scan(&one)
}
