package handler

import (
	"errors"

	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/pkg/response"
	"resume-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body,
// prefixed with "sha256=".
const SignatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	uc usecase.WebhookUsecase
}

type simulateRequest struct {
	Platform string `json:"platform"`
	Event    string `json:"event"`
}

func NewWebhookHandler(uc usecase.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// RegisterRoutes wires the unauthenticated receiver; the simulate endpoint
// is registered separately behind auth.
func (h *WebhookHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/:platform", h.Receive)
}

func (h *WebhookHandler) RegisterSimulateRoute(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/simulate", h.Simulate)
}

func (h *WebhookHandler) Receive(c fiber.Ctx) error {
	platform := c.Params("platform")

	// Body() is the raw payload; the signature is computed over these exact
	// bytes, so no re-marshalling before verification.
	result, err := h.uc.Process(c.Context(), platform, c.Body(), c.Get(SignatureHeader))
	if err != nil {
		return mapWebhookUsecaseError(err)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, response.MessageOK, result)
}

func (h *WebhookHandler) Simulate(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req simulateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	result, err := h.uc.Simulate(c.Context(), req.Platform, req.Event, userID)
	if err != nil {
		return mapWebhookUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func mapWebhookUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrMissingSignature), errors.Is(err, usecase.ErrInvalidSignature):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid signature", nil, err)
	case errors.Is(err, usecase.ErrUnknownPlatform):
		return middleware.NewAppError(fiber.StatusNotFound, "Unknown platform", nil, err)
	case errors.Is(err, usecase.ErrUnknownEvent):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown event type", nil, err)
	case errors.Is(err, usecase.ErrWebhookUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "No matching user", nil, err)
	case errors.Is(err, usecase.ErrInvalidPayload):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid payload", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
