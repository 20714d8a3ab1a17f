package sync

import (
	"context"
	"errors"
	"testing"

	"resume-sync/internal/domain/user"

	"github.com/google/uuid"
)

type fakeTaskScheduler struct {
	next      TaskID
	active    map[TaskID]func()
	cancelled []TaskID
	stopped   bool
}

func newFakeTaskScheduler() *fakeTaskScheduler {
	return &fakeTaskScheduler{active: make(map[TaskID]func())}
}

func (f *fakeTaskScheduler) Schedule(fn func()) TaskID {
	f.next++
	f.active[f.next] = fn
	return f.next
}

func (f *fakeTaskScheduler) Cancel(id TaskID) {
	delete(f.active, id)
	f.cancelled = append(f.cancelled, id)
}

func (f *fakeTaskScheduler) Stop() { f.stopped = true }

// tick fires every active task once, as a period elapsing would.
func (f *fakeTaskScheduler) tick() {
	for _, fn := range f.active {
		fn()
	}
}

type fakeRunner struct {
	counts Counts
	err    error
	calls  []string
}

func (f *fakeRunner) Run(_ context.Context, _ uuid.UUID, handle string) (Counts, error) {
	f.calls = append(f.calls, handle)
	return f.counts, f.err
}

type fakeUserRepo struct {
	withHandle []user.User
	err        error
}

func (f *fakeUserRepo) Create(context.Context, user.User) error { return nil }
func (f *fakeUserRepo) GetByID(context.Context, uuid.UUID) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (f *fakeUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (f *fakeUserRepo) FindByIdentifier(context.Context, string, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (f *fakeUserRepo) UpdateGithubHandle(context.Context, uuid.UUID, string) error { return nil }
func (f *fakeUserRepo) ListWithGithubHandle(context.Context) ([]user.User, error) {
	return f.withHandle, f.err
}

func TestScheduler_EnableRunsImmediatePassAndSchedules(t *testing.T) {
	tasks := newFakeTaskScheduler()
	runner := &fakeRunner{counts: Counts{Created: 3}}
	s := NewScheduler(tasks, runner, &fakeUserRepo{}, nil)

	counts := s.Enable(context.Background(), uuid.New(), "octocat")
	if counts.Created != 3 {
		t.Fatalf("expected immediate pass counts, got %+v", counts)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected exactly one immediate pass, got %d", len(runner.calls))
	}
	if len(tasks.active) != 1 {
		t.Fatalf("expected one scheduled task, got %d", len(tasks.active))
	}

	tasks.tick()
	if len(runner.calls) != 2 {
		t.Fatalf("expected tick to run a pass, got %d calls", len(runner.calls))
	}
}

func TestScheduler_EnableReplacesExistingTask(t *testing.T) {
	tasks := newFakeTaskScheduler()
	runner := &fakeRunner{}
	s := NewScheduler(tasks, runner, &fakeUserRepo{}, nil)
	userID := uuid.New()

	s.Enable(context.Background(), userID, "old-handle")
	s.Enable(context.Background(), userID, "new-handle")

	if len(tasks.active) != 1 {
		t.Fatalf("re-enable must replace, not duplicate; %d tasks active", len(tasks.active))
	}
	if len(tasks.cancelled) != 1 {
		t.Fatalf("old task must be cancelled, got %d cancellations", len(tasks.cancelled))
	}

	handle, active := s.Status(userID)
	if !active || handle != "new-handle" {
		t.Fatalf("status should reflect the new handle, got %q active=%v", handle, active)
	}
}

func TestScheduler_EnableKeepsTaskWhenImmediatePassFails(t *testing.T) {
	tasks := newFakeTaskScheduler()
	runner := &fakeRunner{err: errors.New("github down")}
	s := NewScheduler(tasks, runner, &fakeUserRepo{}, nil)

	s.Enable(context.Background(), uuid.New(), "octocat")
	if len(tasks.active) != 1 {
		t.Fatal("a failed immediate pass must not unschedule the task")
	}
}

func TestScheduler_Disable(t *testing.T) {
	tasks := newFakeTaskScheduler()
	s := NewScheduler(tasks, &fakeRunner{}, &fakeUserRepo{}, nil)
	userID := uuid.New()

	s.Enable(context.Background(), userID, "octocat")
	if !s.Disable(userID) {
		t.Fatal("disable should report an existing task")
	}
	if len(tasks.active) != 0 {
		t.Fatal("task must be cancelled")
	}
	if _, active := s.Status(userID); active {
		t.Fatal("status must report inactive after disable")
	}

	if s.Disable(userID) {
		t.Fatal("second disable should report no task")
	}
}

func TestScheduler_RestartAllSchedulesWithoutImmediatePass(t *testing.T) {
	tasks := newFakeTaskScheduler()
	runner := &fakeRunner{}
	users := &fakeUserRepo{withHandle: []user.User{
		{ID: uuid.New(), Socials: user.Socials{Github: "alice"}},
		{ID: uuid.New(), Socials: user.Socials{Github: "bob"}},
	}}
	s := NewScheduler(tasks, runner, users, nil)

	if err := s.RestartAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks.active) != 2 {
		t.Fatalf("expected a task per stored handle, got %d", len(tasks.active))
	}
	if len(runner.calls) != 0 {
		t.Fatalf("restart must not run immediate passes, got %d", len(runner.calls))
	}

	tasks.tick()
	if len(runner.calls) != 2 {
		t.Fatalf("expected both restored tasks to fire, got %d", len(runner.calls))
	}
}

func TestScheduler_StopCancelsEverything(t *testing.T) {
	tasks := newFakeTaskScheduler()
	s := NewScheduler(tasks, &fakeRunner{}, &fakeUserRepo{}, nil)

	s.Enable(context.Background(), uuid.New(), "alice")
	s.Enable(context.Background(), uuid.New(), "bob")

	s.Stop()
	if len(tasks.active) != 0 {
		t.Fatal("stop must cancel all tasks")
	}
	if !tasks.stopped {
		t.Fatal("stop must shut the timer down")
	}
}
