package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindByIdentifier resolves a user by email or by the platform's stored
	// handle, whichever matches first.
	FindByIdentifier(ctx context.Context, platform, identifier string) (User, error)

	UpdateGithubHandle(ctx context.Context, id uuid.UUID, handle string) error

	// ListWithGithubHandle returns every user whose github handle is set,
	// used to repopulate the sync scheduler after a restart.
	ListWithGithubHandle(ctx context.Context) ([]User, error)
}
