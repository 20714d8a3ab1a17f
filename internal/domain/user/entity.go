package user

import (
	"time"

	"github.com/google/uuid"
)

// Socials holds the user's external platform handles. The github handle is
// written back by the sync engine when continuous sync is enabled.
type Socials struct {
	Github    string `json:"github,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Headline     string    `json:"headline,omitempty"`
	Socials      Socials   `json:"socials"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
