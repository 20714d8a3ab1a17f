package handler

import (
	"errors"

	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/pkg/response"
	"resume-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CredentialHandler struct {
	uc usecase.CredentialUsecase
}

type addCredentialRequest struct {
	URL string `json:"url"`
}

type importCredentialsRequest struct {
	Handle string `json:"handle"`
}

func NewCredentialHandler(uc usecase.CredentialUsecase) *CredentialHandler {
	return &CredentialHandler{uc: uc}
}

func (h *CredentialHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Add)
	r.Post("/import", h.Import)
}

func (h *CredentialHandler) Add(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req addCredentialRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result, err := h.uc.AddByURL(c.Context(), userID, req.URL)
	if err != nil {
		if errors.Is(err, usecase.ErrCredentialExists) {
			// Conflict still returns the existing course so the client can
			// link to it.
			return middleware.NewAppError(fiber.StatusConflict, "Credential already added", result.Course, err)
		}
		return mapCredentialUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, result)
}

func (h *CredentialHandler) Import(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req importCredentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result, err := h.uc.ImportFromProfile(c.Context(), userID, req.Handle)
	if err != nil {
		return mapCredentialUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func mapCredentialUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentialURL):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid credential url", nil, err)
	case errors.Is(err, usecase.ErrCredentialNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Credential not found on provider", nil, err)
	case errors.Is(err, usecase.ErrCredentialUnverified):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Credential could not be verified", nil, err)
	case errors.Is(err, usecase.ErrCredlyProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Credly profile not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
