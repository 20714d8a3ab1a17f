package usecase

import (
	"context"
	"errors"
	"testing"

	"resume-sync/internal/credential"
	"resume-sync/internal/domain/achievement"

	"github.com/google/uuid"
)

type stubVerifier struct {
	badges  map[string]credential.BadgeDetails
	profile []credential.BadgeDetails
	err     error
}

func (s *stubVerifier) Verify(_ context.Context, badgeID string) (credential.BadgeDetails, error) {
	if s.err != nil {
		return credential.BadgeDetails{}, s.err
	}
	if d, ok := s.badges[badgeID]; ok {
		return d, nil
	}
	return credential.BadgeDetails{}, credential.ErrBadgeNotFound
}

func (s *stubVerifier) ListProfileBadges(context.Context, string) ([]credential.BadgeDetails, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func badge(id, title string) credential.BadgeDetails {
	return credential.BadgeDetails{BadgeID: id, Title: title, Issuer: "CNCF", URL: "https://www.credly.com/badges/" + id}
}

func TestCredentialAddByURL_Success(t *testing.T) {
	courses := &stubCourseRepo{}
	resumes := &stubResumeRepo{resumeCount: 2}
	verifier := &stubVerifier{badges: map[string]credential.BadgeDetails{"abc-123": badge("abc-123", "CKA")}}
	uc := NewCredentialUsecase(verifier, courses, resumes, nil)
	userID := uuid.New()

	result, err := uc.AddByURL(context.Background(), userID, "https://www.credly.com/badges/abc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Course.Title != "CKA" {
		t.Fatalf("unexpected title: %q", result.Course.Title)
	}
	if result.Course.VerificationStatus != achievement.StatusAutoVerified || !result.Course.Verified {
		t.Fatalf("verified badge must be auto verified, got %+v", result.Course)
	}
	if result.AddedToResumes != 2 {
		t.Fatalf("expected fan-out to both resumes, got %d", result.AddedToResumes)
	}
}

func TestCredentialAddByURL_InvalidURL(t *testing.T) {
	uc := NewCredentialUsecase(&stubVerifier{}, &stubCourseRepo{}, &stubResumeRepo{}, nil)

	_, err := uc.AddByURL(context.Background(), uuid.New(), "https://example.com/badges/x")
	if !errors.Is(err, ErrInvalidCredentialURL) {
		t.Fatalf("expected ErrInvalidCredentialURL, got %v", err)
	}
}

func TestCredentialAddByURL_DuplicateSkipsVerification(t *testing.T) {
	courses := &stubCourseRepo{}
	resumes := &stubResumeRepo{resumeCount: 1}
	verifier := &stubVerifier{badges: map[string]credential.BadgeDetails{"abc-123": badge("abc-123", "CKA")}}
	uc := NewCredentialUsecase(verifier, courses, resumes, nil)
	userID := uuid.New()

	if _, err := uc.AddByURL(context.Background(), userID, "https://www.credly.com/badges/abc-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second add hits dedup before the verifier; break the verifier to prove
	// it is not consulted.
	verifier.err = errors.New("network down")
	result, err := uc.AddByURL(context.Background(), userID, "https://www.credly.com/badges/abc-123")
	if !errors.Is(err, ErrCredentialExists) {
		t.Fatalf("expected ErrCredentialExists, got %v", err)
	}
	if result.Course.CredentialID != "abc-123" {
		t.Fatal("conflict must carry the existing course")
	}
}

func TestCredentialAddByURL_NotFoundOnProvider(t *testing.T) {
	uc := NewCredentialUsecase(&stubVerifier{badges: map[string]credential.BadgeDetails{}}, &stubCourseRepo{}, &stubResumeRepo{}, nil)

	_, err := uc.AddByURL(context.Background(), uuid.New(), "https://www.credly.com/badges/missing")
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}

func TestCredentialAddByURL_Unverifiable(t *testing.T) {
	uc := NewCredentialUsecase(&stubVerifier{err: credential.ErrUnverifiable}, &stubCourseRepo{}, &stubResumeRepo{}, nil)

	_, err := uc.AddByURL(context.Background(), uuid.New(), "https://www.credly.com/badges/abc-123")
	if !errors.Is(err, ErrCredentialUnverified) {
		t.Fatalf("expected ErrCredentialUnverified, got %v", err)
	}
}

func TestCredentialImportFromProfile(t *testing.T) {
	courses := &stubCourseRepo{}
	resumes := &stubResumeRepo{resumeCount: 1}
	verifier := &stubVerifier{profile: []credential.BadgeDetails{
		badge("b-1", "Badge One"),
		badge("b-2", "Badge Two"),
		badge("b-3", "Badge Three"),
	}}
	uc := NewCredentialUsecase(verifier, courses, resumes, nil)
	userID := uuid.New()

	// b-2 already on file.
	if _, err := courses.Create(context.Background(), achievement.Course{ID: uuid.New(), UserID: userID, Title: "Badge Two", CredentialID: "b-2"}); err != nil {
		t.Fatal(err)
	}

	result, err := uc.ImportFromProfile(context.Background(), userID, "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(courses.existing) != 3 {
		t.Fatalf("expected 3 courses on file, got %d", len(courses.existing))
	}
}

func TestCredentialImportFromProfile_ProfileMissing(t *testing.T) {
	uc := NewCredentialUsecase(&stubVerifier{err: credential.ErrProfileNotFound}, &stubCourseRepo{}, &stubResumeRepo{}, nil)

	_, err := uc.ImportFromProfile(context.Background(), uuid.New(), "nosuchuser")
	if !errors.Is(err, ErrCredlyProfileNotFound) {
		t.Fatalf("expected ErrCredlyProfileNotFound, got %v", err)
	}
}
