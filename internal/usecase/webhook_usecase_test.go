package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"resume-sync/internal/adapter"
	"resume-sync/internal/config"
	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/domain/resume"
	"resume-sync/internal/domain/user"
	"resume-sync/internal/repository"

	"github.com/google/uuid"
)

type stubUserRepo struct {
	byIdentifier map[string]user.User
	byID         map[uuid.UUID]user.User
}

func (s *stubUserRepo) Create(context.Context, user.User) error { return nil }
func (s *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (s *stubUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (s *stubUserRepo) FindByIdentifier(_ context.Context, _ string, identifier string) (user.User, error) {
	if u, ok := s.byIdentifier[identifier]; ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}
func (s *stubUserRepo) UpdateGithubHandle(context.Context, uuid.UUID, string) error { return nil }
func (s *stubUserRepo) ListWithGithubHandle(context.Context) ([]user.User, error)   { return nil, nil }

type stubEngagementRepo struct {
	existing []achievement.Engagement
	created  []achievement.Engagement
}

func (s *stubEngagementRepo) Create(_ context.Context, e achievement.Engagement) (achievement.Engagement, error) {
	for _, ex := range s.existing {
		if ex.UserID == e.UserID && ex.Kind == e.Kind && ex.Company == e.Company && ex.Role == e.Role {
			return achievement.Engagement{}, repository.ErrEngagementExists
		}
	}
	s.existing = append(s.existing, e)
	s.created = append(s.created, e)
	return e, nil
}

func (s *stubEngagementRepo) FindByNaturalKey(_ context.Context, userID uuid.UUID, kind achievement.Kind, company, role string) (achievement.Engagement, error) {
	for _, ex := range s.existing {
		if ex.UserID == userID && ex.Kind == kind && ex.Company == company && ex.Role == role {
			return ex, nil
		}
	}
	return achievement.Engagement{}, repository.ErrEngagementNotFound
}

func (s *stubEngagementRepo) ListByUser(context.Context, uuid.UUID, achievement.Kind) ([]achievement.Engagement, error) {
	return s.existing, nil
}

type stubCourseRepo struct {
	existing []achievement.Course
	created  []achievement.Course
}

func (s *stubCourseRepo) Create(_ context.Context, c achievement.Course) (achievement.Course, error) {
	for _, ex := range s.existing {
		if ex.UserID == c.UserID && ex.CredentialID != "" && ex.CredentialID == c.CredentialID {
			return achievement.Course{}, repository.ErrCourseExists
		}
	}
	s.existing = append(s.existing, c)
	s.created = append(s.created, c)
	return c, nil
}

func (s *stubCourseRepo) FindByCredentialID(_ context.Context, userID uuid.UUID, credentialID string) (achievement.Course, error) {
	for _, ex := range s.existing {
		if ex.UserID == userID && ex.CredentialID == credentialID {
			return ex, nil
		}
	}
	return achievement.Course{}, repository.ErrCourseNotFound
}

func (s *stubCourseRepo) ListByUser(context.Context, uuid.UUID) ([]achievement.Course, error) {
	return s.existing, nil
}

type stubResumeRepo struct {
	resumeCount int
	attachCalls int
}

func (s *stubResumeRepo) Create(_ context.Context, rs resume.Resume) (resume.Resume, error) {
	return rs, nil
}
func (s *stubResumeRepo) GetByID(context.Context, uuid.UUID) (resume.Resume, error) {
	return resume.Resume{}, repository.ErrResumeNotFound
}
func (s *stubResumeRepo) ListByUser(context.Context, uuid.UUID) ([]resume.Resume, error) {
	return nil, nil
}
func (s *stubResumeRepo) AttachItemToAll(context.Context, uuid.UUID, achievement.Kind, uuid.UUID) (int, error) {
	s.attachCalls++
	return s.resumeCount, nil
}
func (s *stubResumeRepo) DetachItemFromAll(context.Context, uuid.UUID, achievement.Kind, uuid.UUID) (int, error) {
	return 0, nil
}
func (s *stubResumeRepo) ListItemIDs(context.Context, uuid.UUID, achievement.Kind) ([]uuid.UUID, error) {
	return nil, nil
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func envelope(t *testing.T, event, identifier string, payload adapter.Payload) []byte {
	t.Helper()
	b, err := json.Marshal(WebhookEnvelope{Event: event, Identifier: identifier, Payload: payload})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func newWebhookFixture(resumeCount int) (*Webhook, *stubEngagementRepo, *stubCourseRepo, *stubResumeRepo, user.User) {
	usr := user.User{ID: uuid.New(), Email: "dev@example.com"}
	users := &stubUserRepo{
		byIdentifier: map[string]user.User{usr.Email: usr},
		byID:         map[uuid.UUID]user.User{usr.ID: usr},
	}
	engagements := &stubEngagementRepo{}
	courses := &stubCourseRepo{}
	resumes := &stubResumeRepo{resumeCount: resumeCount}

	cfg := config.WebhookConfig{Secrets: map[string]string{
		"internshala": "intern-secret",
		"devpost":     "devpost-secret",
		"coursera":    "coursera-secret",
	}}
	uc := NewWebhookUsecase(cfg, adapter.NewRegistry(), users, engagements, courses, resumes, nil)
	return uc, engagements, courses, resumes, usr
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	uc, _, _, _, _ := newWebhookFixture(1)
	body := envelope(t, "internship.started", "dev@example.com", adapter.Payload{
		"company_name": "Acme", "position": "Intern",
	})

	_, err := uc.Process(context.Background(), "internshala", body, sign("wrong-secret", body))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	_, err = uc.Process(context.Background(), "internshala", body, "")
	if !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestWebhook_UnsignedRejectedByDefaultForUnconfiguredPlatform(t *testing.T) {
	uc, _, _, _, _ := newWebhookFixture(1)
	body := envelope(t, "internship.started", "dev@example.com", adapter.Payload{
		"companyName": "Globex", "title": "Intern",
	})

	// linkedin has no secret configured and AllowUnsigned is off.
	_, err := uc.Process(context.Background(), "linkedin", body, "")
	if !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestWebhook_AllowUnsignedGate(t *testing.T) {
	usr := user.User{ID: uuid.New(), Email: "dev@example.com"}
	users := &stubUserRepo{byIdentifier: map[string]user.User{usr.Email: usr}}
	uc := NewWebhookUsecase(
		config.WebhookConfig{AllowUnsigned: true},
		adapter.NewRegistry(), users, &stubEngagementRepo{}, &stubCourseRepo{}, &stubResumeRepo{resumeCount: 1}, nil,
	)

	body := envelope(t, "internship.started", usr.Email, adapter.Payload{
		"companyName": "Globex", "title": "Intern",
	})
	result, err := uc.Process(context.Background(), "linkedin", body, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created {
		t.Fatal("expected item created")
	}
}

func TestWebhook_CreatePathFansOutToAllResumes(t *testing.T) {
	uc, engagements, _, resumes, usr := newWebhookFixture(3)
	body := envelope(t, "internship.started", usr.Email, adapter.Payload{
		"company_name": "Acme", "position": "Backend Intern",
	})

	result, err := uc.Process(context.Background(), "internshala", body, sign("intern-secret", body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created {
		t.Fatal("expected a new item")
	}
	if result.ItemKind != achievement.KindInternship {
		t.Fatalf("unexpected kind: %s", result.ItemKind)
	}
	if result.AddedToResumes != 3 {
		t.Fatalf("expected fan-out to all 3 resumes, got %d", result.AddedToResumes)
	}
	if len(engagements.created) != 1 {
		t.Fatalf("expected one engagement created, got %d", len(engagements.created))
	}
	if got := engagements.created[0]; !got.Verified || got.SourcePlatform != "internshala" {
		t.Fatalf("webhook items must be verified with their source recorded, got %+v", got)
	}
	if resumes.attachCalls != 1 {
		t.Fatalf("expected one fan-out call, got %d", resumes.attachCalls)
	}
}

func TestWebhook_DuplicateDeliveryIsIdempotent(t *testing.T) {
	uc, engagements, _, _, usr := newWebhookFixture(2)
	body := envelope(t, "internship.started", usr.Email, adapter.Payload{
		"company_name": "Acme", "position": "Backend Intern",
	})
	sig := sign("intern-secret", body)

	first, err := uc.Process(context.Background(), "internshala", body, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.Process(context.Background(), "internshala", body, sig)
	if err != nil {
		t.Fatalf("duplicate delivery must be acknowledged, got %v", err)
	}
	if second.Created {
		t.Fatal("duplicate must not create")
	}
	if second.ItemID != first.ItemID {
		t.Fatal("duplicate must resolve to the existing item")
	}
	if second.AddedToResumes != 0 {
		t.Fatalf("duplicate must not touch resumes, got %d", second.AddedToResumes)
	}
	if len(engagements.created) != 1 {
		t.Fatalf("expected a single engagement, got %d", len(engagements.created))
	}
}

func TestWebhook_CourseDedupByCredentialID(t *testing.T) {
	uc, _, courses, _, usr := newWebhookFixture(1)
	body := envelope(t, "course.completed", usr.Email, adapter.Payload{
		"course_name": "Distributed Systems", "certificate_id": "C-42",
	})
	sig := sign("coursera-secret", body)

	first, err := uc.Process(context.Background(), "coursera", body, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ItemKind != achievement.KindCourse || !first.Created {
		t.Fatalf("unexpected result: %+v", first)
	}
	if got := courses.created[0]; got.VerificationStatus != achievement.StatusAutoVerified {
		t.Fatalf("webhook courses must be auto verified, got %s", got.VerificationStatus)
	}

	second, err := uc.Process(context.Background(), "coursera", body, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Created || second.ItemID != first.ItemID {
		t.Fatalf("expected dedup on credential id, got %+v", second)
	}
}

func TestWebhook_UnknownEvent(t *testing.T) {
	uc, _, _, _, usr := newWebhookFixture(1)
	body := envelope(t, "internship.resigned", usr.Email, adapter.Payload{})

	_, err := uc.Process(context.Background(), "internshala", body, sign("intern-secret", body))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestWebhook_EventKindMismatch(t *testing.T) {
	uc, _, _, _, usr := newWebhookFixture(1)
	// devpost is registered for hackathons only.
	body := envelope(t, "internship.started", usr.Email, adapter.Payload{
		"company_name": "Acme", "position": "Intern",
	})

	_, err := uc.Process(context.Background(), "devpost", body, sign("devpost-secret", body))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestWebhook_UnknownUser(t *testing.T) {
	uc, _, _, _, _ := newWebhookFixture(1)
	body := envelope(t, "internship.started", "stranger@example.com", adapter.Payload{
		"company_name": "Acme", "position": "Intern",
	})

	_, err := uc.Process(context.Background(), "internshala", body, sign("intern-secret", body))
	if !errors.Is(err, ErrWebhookUserNotFound) {
		t.Fatalf("expected ErrWebhookUserNotFound, got %v", err)
	}
}

func TestWebhook_PayloadMissingNaturalKey(t *testing.T) {
	uc, _, _, _, usr := newWebhookFixture(1)
	body := envelope(t, "internship.started", usr.Email, adapter.Payload{
		"position": "Intern",
	})

	_, err := uc.Process(context.Background(), "internshala", body, sign("intern-secret", body))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestWebhook_SimulateRunsFullPipeline(t *testing.T) {
	uc, _, _, _, usr := newWebhookFixture(2)

	result, err := uc.Simulate(context.Background(), "devpost", "hackathon.won", usr.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created || result.ItemKind != achievement.KindHackathon {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.AddedToResumes != 2 {
		t.Fatalf("expected fan-out to both resumes, got %d", result.AddedToResumes)
	}
}

func TestWebhook_DeliveryWireFormat(t *testing.T) {
	uc, _, _, _, usr := newWebhookFixture(1)

	// Hand-written body pins the documented field names independently of the
	// envelope struct tags.
	body := []byte(`{
		"event_type": "internship.started",
		"user_identifier": "` + usr.Email + `",
		"data": {"company_name": "Acme", "position": "Intern"}
	}`)

	result, err := uc.Process(context.Background(), "internshala", body, sign("intern-secret", body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created || result.AddedToResumes != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"itemId"`, `"itemKind"`, `"addedToResumes"`} {
		if !strings.Contains(string(out), key) {
			t.Fatalf("result json missing %s: %s", key, out)
		}
	}
}
