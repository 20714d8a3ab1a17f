package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"resume-sync/internal/adapter"
	"resume-sync/internal/config"
	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/domain/user"
	"resume-sync/internal/repository"
	"resume-sync/internal/ws"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMissingSignature    = errors.New("missing webhook signature")
	ErrUnknownEvent        = errors.New("unknown event type")
	ErrUnknownPlatform     = errors.New("unknown platform")
	ErrWebhookUserNotFound = errors.New("no user matches the webhook identifier")
	ErrInvalidPayload      = errors.New("payload missing required fields")
)

const signaturePrefix = "sha256="

// WebhookEnvelope is the common outer shape every platform delivery carries:
// event_type, user_identifier and the platform-shaped data object, which
// stays opaque until an adapter normalizes it.
type WebhookEnvelope struct {
	Event      string          `json:"event_type"`
	Identifier string          `json:"user_identifier"`
	Payload    adapter.Payload `json:"data"`
}

type WebhookResult struct {
	ItemID         uuid.UUID        `json:"itemId"`
	ItemKind       achievement.Kind `json:"itemKind"`
	Created        bool             `json:"created"`
	AddedToResumes int              `json:"addedToResumes"`
}

type WebhookUsecase interface {
	Process(ctx context.Context, platform string, body []byte, signature string) (WebhookResult, error)
	Simulate(ctx context.Context, platform, event string, userID uuid.UUID) (WebhookResult, error)
}

type Webhook struct {
	cfg         config.WebhookConfig
	registry    *adapter.Registry
	users       user.Repository
	engagements repository.EngagementRepository
	courses     repository.CourseRepository
	resumes     repository.ResumeRepository
	log         *logrus.Logger
}

func NewWebhookUsecase(
	cfg config.WebhookConfig,
	registry *adapter.Registry,
	users user.Repository,
	engagements repository.EngagementRepository,
	courses repository.CourseRepository,
	resumes repository.ResumeRepository,
	log *logrus.Logger,
) *Webhook {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Webhook{
		cfg:         cfg,
		registry:    registry,
		users:       users,
		engagements: engagements,
		courses:     courses,
		resumes:     resumes,
		log:         log,
	}
}

// Process runs a raw delivery through the full inbound path: signature check,
// user lookup, normalization, dedup, create, resume fan-out. Duplicate
// deliveries are acknowledged with the existing item and no resume writes.
func (w *Webhook) Process(ctx context.Context, platform string, body []byte, signature string) (WebhookResult, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))

	if err := w.verifySignature(platform, body, signature); err != nil {
		return WebhookResult{}, err
	}

	var env WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return WebhookResult{}, ErrInvalidPayload
	}
	if env.Identifier == "" || env.Event == "" {
		return WebhookResult{}, ErrInvalidPayload
	}

	usr, err := w.users.FindByIdentifier(ctx, platform, strings.TrimSpace(env.Identifier))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return WebhookResult{}, ErrWebhookUserNotFound
		}
		return WebhookResult{}, ErrInternal
	}

	return w.dispatch(ctx, usr.ID, platform, env.Event, env.Payload)
}

// verifySignature checks the hex HMAC-SHA256 of the raw body against the
// platform's shared secret. Comparison is constant time.
func (w *Webhook) verifySignature(platform string, body []byte, signature string) error {
	secret, ok := w.cfg.Secrets[platform]
	if !ok {
		if w.cfg.AllowUnsigned {
			return nil
		}
		return ErrMissingSignature
	}

	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrMissingSignature
	}
	signature = strings.TrimPrefix(signature, signaturePrefix)

	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}

func (w *Webhook) dispatch(ctx context.Context, userID uuid.UUID, platform, event string, payload adapter.Payload) (WebhookResult, error) {
	switch event {
	case "internship.started", "internship.completed":
		attrs, err := w.registry.NormalizeInternship(platform, payload)
		if err != nil {
			return WebhookResult{}, mapAdapterError(err)
		}
		return w.upsertEngagement(ctx, userID, achievement.KindInternship, platform, attrs)

	case "hackathon.participated", "hackathon.won":
		attrs, err := w.registry.NormalizeHackathon(platform, payload)
		if err != nil {
			return WebhookResult{}, mapAdapterError(err)
		}
		if event == "hackathon.won" && attrs.Description != "" {
			attrs.Description = attrs.Description + " (winner)"
		}
		return w.upsertEngagement(ctx, userID, achievement.KindHackathon, platform, attrs)

	case "course.completed":
		attrs, err := w.registry.NormalizeCourse(platform, payload)
		if err != nil {
			return WebhookResult{}, mapAdapterError(err)
		}
		return w.upsertCourse(ctx, userID, platform, attrs)
	}

	return WebhookResult{}, ErrUnknownEvent
}

func (w *Webhook) upsertEngagement(ctx context.Context, userID uuid.UUID, kind achievement.Kind, platform string, attrs adapter.EngagementAttrs) (WebhookResult, error) {
	if attrs.Company == "" || attrs.Role == "" {
		return WebhookResult{}, ErrInvalidPayload
	}

	existing, err := w.engagements.FindByNaturalKey(ctx, userID, kind, attrs.Company, attrs.Role)
	if err == nil {
		return WebhookResult{ItemID: existing.ID, ItemKind: kind}, nil
	}
	if !errors.Is(err, repository.ErrEngagementNotFound) {
		return WebhookResult{}, ErrInternal
	}

	created, err := w.engagements.Create(ctx, achievement.Engagement{
		ID:             uuid.New(),
		UserID:         userID,
		Kind:           kind,
		Company:        attrs.Company,
		Role:           attrs.Role,
		StartDate:      attrs.StartDate,
		EndDate:        attrs.EndDate,
		Description:    attrs.Description,
		Verified:       true,
		SourcePlatform: platform,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEngagementExists) {
			// Lost the race to a concurrent delivery; converge on the winner.
			existing, findErr := w.engagements.FindByNaturalKey(ctx, userID, kind, attrs.Company, attrs.Role)
			if findErr != nil {
				return WebhookResult{}, ErrInternal
			}
			return WebhookResult{ItemID: existing.ID, ItemKind: kind}, nil
		}
		return WebhookResult{}, ErrInternal
	}

	return w.fanOut(ctx, userID, kind, created.ID, attrs.Company+" "+attrs.Role)
}

func (w *Webhook) upsertCourse(ctx context.Context, userID uuid.UUID, platform string, attrs adapter.CourseAttrs) (WebhookResult, error) {
	if attrs.Title == "" {
		return WebhookResult{}, ErrInvalidPayload
	}

	if attrs.CredentialID != "" {
		existing, err := w.courses.FindByCredentialID(ctx, userID, attrs.CredentialID)
		if err == nil {
			return WebhookResult{ItemID: existing.ID, ItemKind: achievement.KindCourse}, nil
		}
		if !errors.Is(err, repository.ErrCourseNotFound) {
			return WebhookResult{}, ErrInternal
		}
	}

	created, err := w.courses.Create(ctx, achievement.Course{
		ID:                 uuid.New(),
		UserID:             userID,
		Title:              attrs.Title,
		Issuer:             attrs.Issuer,
		CredentialID:       attrs.CredentialID,
		CredentialURL:      attrs.CredentialURL,
		IssuedAt:           attrs.IssuedAt,
		Verified:           true,
		VerificationStatus: achievement.StatusAutoVerified,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCourseExists) && attrs.CredentialID != "" {
			existing, findErr := w.courses.FindByCredentialID(ctx, userID, attrs.CredentialID)
			if findErr != nil {
				return WebhookResult{}, ErrInternal
			}
			return WebhookResult{ItemID: existing.ID, ItemKind: achievement.KindCourse}, nil
		}
		return WebhookResult{}, ErrInternal
	}

	return w.fanOut(ctx, userID, achievement.KindCourse, created.ID, attrs.Title)
}

func (w *Webhook) fanOut(ctx context.Context, userID uuid.UUID, kind achievement.Kind, itemID uuid.UUID, title string) (WebhookResult, error) {
	added, err := w.resumes.AttachItemToAll(ctx, userID, kind, itemID)
	if err != nil {
		// The item exists either way; report it with a zero fan-out rather
		// than failing the whole delivery.
		w.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "item_id": itemID}).Error("resume fan-out failed")
		return WebhookResult{ItemID: itemID, ItemKind: kind, Created: true}, nil
	}

	ws.NotifyItemAdded(userID, string(kind), title)
	return WebhookResult{ItemID: itemID, ItemKind: kind, Created: true, AddedToResumes: added}, nil
}

func mapAdapterError(err error) error {
	switch {
	case errors.Is(err, adapter.ErrUnknownPlatform):
		return ErrUnknownPlatform
	case errors.Is(err, adapter.ErrUnknownEvent):
		return ErrUnknownEvent
	default:
		return ErrInternal
	}
}
