package usecase

import (
	"context"

	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/repository"

	"github.com/google/uuid"
)

// Achievements is the profile listing surface over the four item kinds.
type Achievements struct {
	projects    repository.ProjectRepository
	courses     repository.CourseRepository
	engagements repository.EngagementRepository
}

func NewAchievementUsecase(projects repository.ProjectRepository, courses repository.CourseRepository, engagements repository.EngagementRepository) *Achievements {
	return &Achievements{projects: projects, courses: courses, engagements: engagements}
}

func (a *Achievements) ListProjects(ctx context.Context, userID uuid.UUID) ([]achievement.Project, error) {
	out, err := a.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (a *Achievements) ListCourses(ctx context.Context, userID uuid.UUID) ([]achievement.Course, error) {
	out, err := a.courses.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (a *Achievements) ListEngagements(ctx context.Context, userID uuid.UUID, kind achievement.Kind) ([]achievement.Engagement, error) {
	if kind != achievement.KindInternship && kind != achievement.KindHackathon {
		return nil, ErrInvalidPayload
	}
	out, err := a.engagements.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}
