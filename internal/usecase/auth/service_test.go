package auth

import (
	"context"
	"errors"
	"testing"

	"resume-sync/internal/domain/user"

	"github.com/google/uuid"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[uuid.UUID]user.User{},
		byEmail: map[string]user.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) FindByIdentifier(_ context.Context, _, identifier string) (user.User, error) {
	return f.GetByEmail(context.Background(), identifier)
}

func (f *fakeUserRepo) UpdateGithubHandle(_ context.Context, id uuid.UUID, handle string) error {
	u, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Socials.Github = handle
	f.byID[id] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) ListWithGithubHandle(context.Context) ([]user.User, error) {
	return nil, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	created, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Ada Lovelace ",
		Email:    "Ada@Example.COM",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "ada@example.com" || created.Name != "Ada Lovelace" {
		t.Fatalf("input not normalized: %+v", created)
	}
	if created.PasswordHash != "" {
		t.Fatal("password hash leaked in response")
	}

	logged, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != created.ID {
		t.Fatal("login returned a different user")
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	cases := []RegisterInput{
		{Name: "", Email: "a@b.com", Password: "longenough"},
		{Name: "Ada", Email: "   ", Password: "longenough"},
		{Name: "Ada", Email: "a@b.com", Password: "short"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	in := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "battery staple"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	if _, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
