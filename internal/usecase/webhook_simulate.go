package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"resume-sync/internal/adapter"
	"resume-sync/internal/domain/user"

	"github.com/google/uuid"
)

// samplePayloads holds one representative platform-shaped payload per
// platform, used by the simulate endpoint to exercise the live pipeline.
var samplePayloads = map[string]adapter.Payload{
	"internshala": {
		"company_name":     "Acme Labs",
		"position":         "Backend Intern",
		"start_date":       "2026-01-05",
		"end_date":         "2026-06-30",
		"responsibilities": "Built internal tooling for the data team",
	},
	"angellist": {
		"company":    map[string]any{"name": "Nimbus"},
		"title":      "Platform Intern",
		"started_at": "2026-02-01",
	},
	"linkedin": {
		"companyName": "Globex",
		"title":       "Software Engineering Intern",
		"startDate":   map[string]any{"year": 2026, "month": 1},
	},
	"devfolio": {
		"hackathon_name":      "HackTheNorth",
		"project_title":       "Realtime carpooling matcher",
		"start_date":          "2026-03-14",
		"end_date":            "2026-03-16",
		"project_description": "Matches riders to drivers as routes change",
	},
	"devpost": {
		"challenge_name":  "Space Apps Challenge",
		"title":           "Change detector",
		"submission_date": "2026-04-20",
		"tagline":         "Satellite imagery change detection",
	},
	"mlh": {
		"event_name":   "Local Hack Day",
		"project_name": "Badge wall",
		"event_start":  "2026-05-09",
	},
	"coursera": {
		"course_name":     "Distributed Systems",
		"certificate_id":  "CERT-SIM-0001",
		"certificate_url": "https://coursera.org/verify/CERT-SIM-0001",
		"completion_date": "2026-02-11",
	},
	"udemy": {
		"course_title": "Advanced PostgreSQL",
		"cert_id":      "UC-SIM-0002",
		"cert_link":    "https://udemy.com/certificate/UC-SIM-0002",
		"completed_at": "2026-03-02",
	},
}

// Simulate builds a canned delivery for the platform, signs it like the real
// sender would, and pushes it through Process. The caller's email is used as
// the delivery identifier.
func (w *Webhook) Simulate(ctx context.Context, platform, event string, userID uuid.UUID) (WebhookResult, error) {
	payload, ok := samplePayloads[platform]
	if !ok {
		return WebhookResult{}, ErrUnknownPlatform
	}

	usr, err := w.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return WebhookResult{}, ErrWebhookUserNotFound
		}
		return WebhookResult{}, ErrInternal
	}

	body, err := json.Marshal(WebhookEnvelope{
		Event:      event,
		Identifier: usr.Email,
		Payload:    payload,
	})
	if err != nil {
		return WebhookResult{}, ErrInternal
	}

	signature := ""
	if secret, ok := w.cfg.Secrets[platform]; ok {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		signature = signaturePrefix + hex.EncodeToString(mac.Sum(nil))
	}

	return w.Process(ctx, platform, body, signature)
}
