package handler

import (
	"resume-sync/internal/delivery/http/middleware"
	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/pkg/response"
	"resume-sync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AchievementHandler struct {
	uc *usecase.Achievements
}

func NewAchievementHandler(uc *usecase.Achievements) *AchievementHandler {
	return &AchievementHandler{uc: uc}
}

func (h *AchievementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/projects", h.ListProjects)
	r.Get("/courses", h.ListCourses)
	r.Get("/internships", h.ListInternships)
	r.Get("/hackathons", h.ListHackathons)
}

func (h *AchievementHandler) ListProjects(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	list, err := h.uc.ListProjects(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, list)
}

func (h *AchievementHandler) ListCourses(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	list, err := h.uc.ListCourses(c.Context(), userID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, list)
}

func (h *AchievementHandler) ListInternships(c fiber.Ctx) error {
	return h.listEngagements(c, achievement.KindInternship)
}

func (h *AchievementHandler) ListHackathons(c fiber.Ctx) error {
	return h.listEngagements(c, achievement.KindHackathon)
}

func (h *AchievementHandler) listEngagements(c fiber.Ctx, kind achievement.Kind) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	list, err := h.uc.ListEngagements(c.Context(), userID, kind)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, list)
}
