package handler

import (
	"errors"

	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/pkg/response"
	"resume-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SyncHandler struct {
	uc usecase.SyncUsecase
}

type enableSyncRequest struct {
	GithubHandle string `json:"github_handle"`
}

func NewSyncHandler(uc usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

func (h *SyncHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/enable", h.Enable)
	r.Post("/disable", h.Disable)
	r.Post("/run", h.RunOnce)
	r.Get("/status", h.Status)
}

func (h *SyncHandler) Enable(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req enableSyncRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	counts, err := h.uc.Enable(c.Context(), userID, req.GithubHandle)
	if err != nil {
		return mapSyncUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "continuous sync enabled", counts)
}

func (h *SyncHandler) Disable(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.uc.Disable(c.Context(), userID); err != nil {
		return mapSyncUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "continuous sync disabled", nil)
}

func (h *SyncHandler) RunOnce(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	counts, err := h.uc.RunOnce(c.Context(), userID)
	if err != nil {
		return mapSyncUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, counts)
}

func (h *SyncHandler) Status(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	status, err := h.uc.Status(c.Context(), userID)
	if err != nil {
		return mapSyncUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, status)
}

func mapSyncUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidHandle):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid github handle", nil, err)
	case errors.Is(err, usecase.ErrNoGithubHandle):
		return middleware.NewAppError(fiber.StatusBadRequest, "No github handle on profile", nil, err)
	case errors.Is(err, usecase.ErrSyncNotEnabled):
		return middleware.NewAppError(fiber.StatusNotFound, "Continuous sync not enabled", nil, err)
	case errors.Is(err, usecase.ErrSyncUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
