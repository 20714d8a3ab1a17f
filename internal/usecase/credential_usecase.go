package usecase

import (
	"context"
	"errors"

	"resume-sync/internal/credential"
	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/repository"
	"resume-sync/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentialURL  = errors.New("invalid credential url")
	ErrCredentialNotFound    = errors.New("credential not found on provider")
	ErrCredentialUnverified  = errors.New("credential could not be verified")
	ErrCredentialExists      = errors.New("credential already added")
	ErrCredlyProfileNotFound = errors.New("credly profile not found")
)

// BadgeVerifier is the slice of the credly client the usecase needs.
type BadgeVerifier interface {
	Verify(ctx context.Context, badgeID string) (credential.BadgeDetails, error)
	ListProfileBadges(ctx context.Context, handle string) ([]credential.BadgeDetails, error)
}

type CredentialResult struct {
	Course         achievement.Course `json:"course"`
	AddedToResumes int                `json:"added_to_resumes"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type CredentialUsecase interface {
	AddByURL(ctx context.Context, userID uuid.UUID, badgeURL string) (CredentialResult, error)
	ImportFromProfile(ctx context.Context, userID uuid.UUID, handle string) (ImportResult, error)
}

type Credential struct {
	verifier BadgeVerifier
	courses  repository.CourseRepository
	resumes  repository.ResumeRepository
	log      *logrus.Logger
}

func NewCredentialUsecase(verifier BadgeVerifier, courses repository.CourseRepository, resumes repository.ResumeRepository, log *logrus.Logger) *Credential {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Credential{verifier: verifier, courses: courses, resumes: resumes, log: log}
}

// AddByURL validates the link, checks the badge is not already on file, then
// verifies it against the provider before persisting. Dedup runs before
// verification so duplicates cost no network round trip.
func (c *Credential) AddByURL(ctx context.Context, userID uuid.UUID, badgeURL string) (CredentialResult, error) {
	badgeID, err := credential.ParseBadgeURL(badgeURL)
	if err != nil {
		return CredentialResult{}, ErrInvalidCredentialURL
	}

	if existing, err := c.courses.FindByCredentialID(ctx, userID, badgeID); err == nil {
		return CredentialResult{Course: existing}, ErrCredentialExists
	} else if !errors.Is(err, repository.ErrCourseNotFound) {
		return CredentialResult{}, ErrInternal
	}

	details, err := c.verifier.Verify(ctx, badgeID)
	if err != nil {
		switch {
		case errors.Is(err, credential.ErrBadgeNotFound):
			return CredentialResult{}, ErrCredentialNotFound
		case errors.Is(err, credential.ErrUnverifiable):
			return CredentialResult{}, ErrCredentialUnverified
		default:
			return CredentialResult{}, ErrInternal
		}
	}

	return c.persist(ctx, userID, details)
}

// ImportFromProfile pulls every public badge from a Credly profile and adds
// the ones not already on file.
func (c *Credential) ImportFromProfile(ctx context.Context, userID uuid.UUID, handle string) (ImportResult, error) {
	badges, err := c.verifier.ListProfileBadges(ctx, handle)
	if err != nil {
		if errors.Is(err, credential.ErrProfileNotFound) {
			return ImportResult{}, ErrCredlyProfileNotFound
		}
		return ImportResult{}, ErrInternal
	}

	var res ImportResult
	for _, d := range badges {
		if _, err := c.courses.FindByCredentialID(ctx, userID, d.BadgeID); err == nil {
			res.Skipped++
			continue
		} else if !errors.Is(err, repository.ErrCourseNotFound) {
			return res, ErrInternal
		}

		if _, err := c.persist(ctx, userID, d); err != nil {
			c.log.WithError(err).WithField("badge_id", d.BadgeID).Warn("badge import failed")
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (c *Credential) persist(ctx context.Context, userID uuid.UUID, d credential.BadgeDetails) (CredentialResult, error) {
	created, err := c.courses.Create(ctx, achievement.Course{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              d.Title,
		Issuer:             d.Issuer,
		CredentialID:       d.BadgeID,
		CredentialURL:      d.URL,
		IssuedAt:           d.IssuedAt,
		Verified:           true,
		VerificationStatus: achievement.StatusAutoVerified,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCourseExists) {
			existing, findErr := c.courses.FindByCredentialID(ctx, userID, d.BadgeID)
			if findErr != nil {
				return CredentialResult{}, ErrInternal
			}
			return CredentialResult{Course: existing}, ErrCredentialExists
		}
		return CredentialResult{}, ErrInternal
	}

	added, err := c.resumes.AttachItemToAll(ctx, userID, achievement.KindCourse, created.ID)
	if err != nil {
		c.log.WithError(err).WithField("course_id", created.ID).Error("resume fan-out failed")
		return CredentialResult{Course: created}, nil
	}

	ws.NotifyItemAdded(userID, string(achievement.KindCourse), created.Title)
	return CredentialResult{Course: created, AddedToResumes: added}, nil
}
