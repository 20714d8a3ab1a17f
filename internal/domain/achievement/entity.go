package achievement

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the four achievement variants a resume can reference.
type Kind string

const (
	KindProject    Kind = "project"
	KindCourse     Kind = "course"
	KindInternship Kind = "internship"
	KindHackathon  Kind = "hackathon"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProject, KindCourse, KindInternship, KindHackathon:
		return true
	}
	return false
}

type VerificationStatus string

const (
	StatusUnverified       VerificationStatus = "unverified"
	StatusSubmitted        VerificationStatus = "submitted"
	StatusAutoVerified     VerificationStatus = "auto_verified"
	StatusManuallyVerified VerificationStatus = "manually_verified"
	StatusRejected         VerificationStatus = "rejected"
)

// Project is a portfolio entry. Projects created by the repository sync carry
// a non-empty RepoURL, which doubles as their natural key.
type Project struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description,omitempty"`
	Description      string     `json:"description,omitempty"`
	TechStack        []string   `json:"tech_stack"`
	Contributions    []string   `json:"contributions"`
	RepoURL          string     `json:"repo_url,omitempty"`
	LiveURL          string     `json:"live_url,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Visibility       string     `json:"visibility"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Course is a credential (certificate/badge). CredentialID is its natural key.
type Course struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	Title              string             `json:"title"`
	Issuer             string             `json:"issuer,omitempty"`
	CredentialID       string             `json:"credential_id,omitempty"`
	CredentialURL      string             `json:"credential_url,omitempty"`
	IssuedAt           *time.Time         `json:"issued_at,omitempty"`
	ExpiresAt          *time.Time         `json:"expires_at,omitempty"`
	Verified           bool               `json:"verified"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Notes              string             `json:"notes,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Engagement covers internships and hackathons, which share a shape and the
// {company, role} natural key. Kind is KindInternship or KindHackathon.
type Engagement struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Kind           Kind       `json:"kind"`
	Company        string     `json:"company"`
	Role           string     `json:"role"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Description    string     `json:"description,omitempty"`
	Verified       bool       `json:"verified"`
	SourcePlatform string     `json:"source_platform,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
