package adapter

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeInternship_Internshala_FieldFallbacks(t *testing.T) {
	r := NewRegistry()

	attrs, err := r.NormalizeInternship("internshala", Payload{
		"employer":         "Acme Labs",
		"role":             "Backend Intern",
		"work_description": "Built tooling",
		"start_date":       "2026-01-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.Company != "Acme Labs" {
		t.Fatalf("expected fallback employer field, got %q", attrs.Company)
	}
	if attrs.Role != "Backend Intern" {
		t.Fatalf("expected fallback role field, got %q", attrs.Role)
	}
	if attrs.Description != "Built tooling" {
		t.Fatalf("expected fallback work_description field, got %q", attrs.Description)
	}
	if attrs.StartDate == nil || !attrs.StartDate.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date: %v", attrs.StartDate)
	}
}

func TestNormalizeInternship_PrimaryFieldWinsOverFallback(t *testing.T) {
	r := NewRegistry()

	attrs, err := r.NormalizeInternship("internshala", Payload{
		"company_name": "Primary Co",
		"employer":     "Fallback Co",
		"position":     "Intern",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.Company != "Primary Co" {
		t.Fatalf("expected primary field to win, got %q", attrs.Company)
	}
}

func TestNormalizeInternship_Angellist_NestedCompanyAndDefaultDescription(t *testing.T) {
	r := NewRegistry()

	attrs, err := r.NormalizeInternship("angellist", Payload{
		"company": map[string]any{"name": "Nimbus"},
		"title":   "Platform Intern",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.Company != "Nimbus" {
		t.Fatalf("expected nested company name, got %q", attrs.Company)
	}
	if attrs.Description != "Internship at Nimbus" {
		t.Fatalf("expected synthesized description, got %q", attrs.Description)
	}
}

func TestNormalizeInternship_Linkedin_YearMonthDates(t *testing.T) {
	r := NewRegistry()

	attrs, err := r.NormalizeInternship("linkedin", Payload{
		"companyName": "Globex",
		"title":       "SWE Intern",
		"startDate":   map[string]any{"year": 2026, "month": 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.StartDate == nil {
		t.Fatal("expected start date from {year, month}")
	}
	if attrs.StartDate.Year() != 2026 || attrs.StartDate.Month() != time.February {
		t.Fatalf("unexpected start date: %v", attrs.StartDate)
	}
}

func TestNormalizeHackathon_Devpost_SubmissionDateIsBothBounds(t *testing.T) {
	r := NewRegistry()

	attrs, err := r.NormalizeHackathon("devpost", Payload{
		"challenge_name":  "Space Apps",
		"title":           "Change detector",
		"submission_date": "2026-04-20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.StartDate == nil || attrs.EndDate == nil {
		t.Fatal("expected both dates set from submission_date")
	}
	if !attrs.StartDate.Equal(*attrs.EndDate) {
		t.Fatalf("expected identical bounds, got %v and %v", attrs.StartDate, attrs.EndDate)
	}
}

func TestNormalizeHackathon_MLH_DefaultEventName(t *testing.T) {
	r := NewRegistry()

	attrs, err := r.NormalizeHackathon("mlh", Payload{"project_name": "Badge wall"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.Company != "MLH Hackathon" {
		t.Fatalf("expected default event name, got %q", attrs.Company)
	}
}

func TestNormalizeCourse_FixedIssuers(t *testing.T) {
	r := NewRegistry()

	coursera, err := r.NormalizeCourse("coursera", Payload{"course_name": "Distributed Systems", "certificate_id": "C-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coursera.Issuer != "Coursera" {
		t.Fatalf("expected Coursera issuer, got %q", coursera.Issuer)
	}

	udemy, err := r.NormalizeCourse("udemy", Payload{"course_title": "Advanced PostgreSQL", "cert_id": "U-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if udemy.Issuer != "Udemy" {
		t.Fatalf("expected Udemy issuer, got %q", udemy.Issuer)
	}
}

func TestRegistry_UnknownPlatform(t *testing.T) {
	r := NewRegistry()

	_, err := r.NormalizeInternship("nosuch", Payload{})
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestRegistry_KnownPlatformWrongKind(t *testing.T) {
	r := NewRegistry()

	// devpost is a hackathon platform, so routing an internship event to it
	// is an event mismatch, not an unknown platform.
	_, err := r.NormalizeInternship("devpost", Payload{})
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestRegistry_PlatformNameIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()

	if _, err := r.NormalizeCourse(" Coursera ", Payload{"course_name": "X"}); err != nil {
		t.Fatalf("expected trimmed lowercase match, got %v", err)
	}
}
