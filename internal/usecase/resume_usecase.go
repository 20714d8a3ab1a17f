package usecase

import (
	"context"
	"errors"
	"strings"

	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/domain/resume"
	"resume-sync/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrResumeNotFound  = errors.New("resume not found")
	ErrResumeForbidden = errors.New("resume belongs to another user")
	ErrInvalidResume   = errors.New("invalid resume input")
)

type CreateResumeInput struct {
	Title      string `json:"title"`
	Headline   string `json:"headline"`
	Summary    string `json:"summary"`
	Visibility string `json:"visibility"`
}

// ResumeItems groups the attached achievement ids by kind.
type ResumeItems struct {
	Projects    []uuid.UUID `json:"projects"`
	Courses     []uuid.UUID `json:"courses"`
	Internships []uuid.UUID `json:"internships"`
	Hackathons  []uuid.UUID `json:"hackathons"`
}

type ResumeDetail struct {
	Resume resume.Resume `json:"resume"`
	Items  ResumeItems   `json:"items"`
}

type ResumeUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateResumeInput) (resume.Resume, error)
	Get(ctx context.Context, userID, resumeID uuid.UUID) (ResumeDetail, error)
	List(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error)
}

type Resume struct {
	resumes repository.ResumeRepository
}

func NewResumeUsecase(resumes repository.ResumeRepository) *Resume {
	return &Resume{resumes: resumes}
}

func (r *Resume) Create(ctx context.Context, userID uuid.UUID, in CreateResumeInput) (resume.Resume, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return resume.Resume{}, ErrInvalidResume
	}

	visibility := strings.TrimSpace(in.Visibility)
	if visibility != "" && visibility != "public" && visibility != "private" {
		return resume.Resume{}, ErrInvalidResume
	}

	created, err := r.resumes.Create(ctx, resume.Resume{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      title,
		Headline:   strings.TrimSpace(in.Headline),
		Summary:    strings.TrimSpace(in.Summary),
		Visibility: visibility,
	})
	if err != nil {
		return resume.Resume{}, ErrInternal
	}
	return created, nil
}

func (r *Resume) Get(ctx context.Context, userID, resumeID uuid.UUID) (ResumeDetail, error) {
	rs, err := r.resumes.GetByID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return ResumeDetail{}, ErrResumeNotFound
		}
		return ResumeDetail{}, ErrInternal
	}
	if rs.UserID != userID {
		return ResumeDetail{}, ErrResumeForbidden
	}

	detail := ResumeDetail{Resume: rs}
	for kind, dst := range map[achievement.Kind]*[]uuid.UUID{
		achievement.KindProject:    &detail.Items.Projects,
		achievement.KindCourse:     &detail.Items.Courses,
		achievement.KindInternship: &detail.Items.Internships,
		achievement.KindHackathon:  &detail.Items.Hackathons,
	} {
		ids, err := r.resumes.ListItemIDs(ctx, resumeID, kind)
		if err != nil {
			return ResumeDetail{}, ErrInternal
		}
		*dst = ids
	}
	return detail, nil
}

func (r *Resume) List(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	list, err := r.resumes.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return list, nil
}
