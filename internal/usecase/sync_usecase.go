package usecase

import (
	"context"
	"errors"
	"strings"

	"resume-sync/internal/domain/user"
	appsync "resume-sync/internal/sync"

	"github.com/google/uuid"
)

var (
	ErrSyncNotEnabled   = errors.New("continuous sync not enabled")
	ErrInvalidHandle    = errors.New("invalid github handle")
	ErrNoGithubHandle   = errors.New("no github handle on profile")
	ErrSyncUserNotFound = errors.New("user not found")
)

type SyncStatus struct {
	Active bool   `json:"active"`
	Handle string `json:"handle,omitempty"`
}

type SyncUsecase interface {
	Enable(ctx context.Context, userID uuid.UUID, handle string) (appsync.Counts, error)
	Disable(ctx context.Context, userID uuid.UUID) error
	RunOnce(ctx context.Context, userID uuid.UUID) (appsync.Counts, error)
	Status(ctx context.Context, userID uuid.UUID) (SyncStatus, error)
}

type Sync struct {
	users     user.Repository
	scheduler *appsync.Scheduler
	runner    appsync.Runner
}

func NewSyncUsecase(users user.Repository, scheduler *appsync.Scheduler, runner appsync.Runner) *Sync {
	return &Sync{users: users, scheduler: scheduler, runner: runner}
}

// Enable stores the handle on the profile and starts the recurring task. The
// first pass runs inline so the caller gets the initial counts back.
func (s *Sync) Enable(ctx context.Context, userID uuid.UUID, handle string) (appsync.Counts, error) {
	handle = strings.TrimSpace(handle)
	if !isValidHandle(handle) {
		return appsync.Counts{}, ErrInvalidHandle
	}

	if err := s.users.UpdateGithubHandle(ctx, userID, handle); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return appsync.Counts{}, ErrSyncUserNotFound
		}
		return appsync.Counts{}, ErrInternal
	}

	return s.scheduler.Enable(ctx, userID, handle), nil
}

func (s *Sync) Disable(ctx context.Context, userID uuid.UUID) error {
	if !s.scheduler.Disable(userID) {
		return ErrSyncNotEnabled
	}
	return nil
}

// RunOnce triggers a single reconciliation pass using the stored handle,
// independent of whether continuous sync is active.
func (s *Sync) RunOnce(ctx context.Context, userID uuid.UUID) (appsync.Counts, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return appsync.Counts{}, ErrSyncUserNotFound
		}
		return appsync.Counts{}, ErrInternal
	}
	if u.Socials.Github == "" {
		return appsync.Counts{}, ErrNoGithubHandle
	}

	return s.runner.Run(ctx, userID, u.Socials.Github)
}

func (s *Sync) Status(ctx context.Context, userID uuid.UUID) (SyncStatus, error) {
	handle, active := s.scheduler.Status(userID)
	return SyncStatus{Active: active, Handle: handle}, nil
}

// isValidHandle follows github's username rules: alphanumerics and single
// hyphens, no leading or trailing hyphen, at most 39 chars.
func isValidHandle(handle string) bool {
	if handle == "" || len(handle) > 39 {
		return false
	}
	prevHyphen := false
	for i, r := range handle {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			prevHyphen = false
		case r == '-':
			if i == 0 || i == len(handle)-1 || prevHyphen {
				return false
			}
			prevHyphen = true
		default:
			return false
		}
	}
	return true
}
