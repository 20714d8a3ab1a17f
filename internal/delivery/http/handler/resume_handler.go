package handler

import (
	"errors"

	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/pkg/response"
	"resume-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

func (h *ResumeHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req usecase.CreateResumeInput
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.uc.Create(c.Context(), userID, req)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, created)
}

func (h *ResumeHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	list, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, list)
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid resume id", nil, err)
	}

	detail, err := h.uc.Get(c.Context(), userID, resumeID)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, detail)
}

func mapResumeUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrResumeForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidResume):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
