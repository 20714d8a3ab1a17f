package sync

import (
	"context"
	"sync"
	"time"

	"resume-sync/internal/domain/user"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// TaskID identifies a scheduled recurring task.
type TaskID int

// TaskScheduler abstracts the recurring-timer primitive so the scheduler can
// be tested without real timers.
type TaskScheduler interface {
	Schedule(fn func()) TaskID
	Cancel(id TaskID)
	Stop()
}

// CronScheduler runs each task on a fixed period using robfig/cron.
type CronScheduler struct {
	c        *cron.Cron
	interval time.Duration
}

func NewCronScheduler(interval time.Duration) *CronScheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	c := cron.New()
	c.Start()
	return &CronScheduler{c: c, interval: interval}
}

func (s *CronScheduler) Schedule(fn func()) TaskID {
	id := s.c.Schedule(cron.Every(s.interval), cron.FuncJob(fn))
	return TaskID(id)
}

func (s *CronScheduler) Cancel(id TaskID) {
	s.c.Remove(cron.EntryID(id))
}

func (s *CronScheduler) Stop() {
	s.c.Stop()
}

// Runner is one reconciliation pass.
type Runner interface {
	Run(ctx context.Context, userID uuid.UUID, handle string) (Counts, error)
}

type task struct {
	id     TaskID
	handle string
}

// Scheduler owns the per-user recurring sync tasks. The task table is
// process-local derived state; the source of truth is the github handle
// stored on each user, which RestartAll reads after a process restart.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]task

	sched  TaskScheduler
	runner Runner
	users  user.Repository
	log    *logrus.Logger
}

func NewScheduler(sched TaskScheduler, runner Runner, users user.Repository, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		tasks:  make(map[uuid.UUID]task),
		sched:  sched,
		runner: runner,
		users:  users,
		log:    log,
	}
}

// Enable starts continuous sync for the user, replacing any existing task,
// and runs one pass immediately before the first tick. A failed immediate
// pass is logged; the task stays scheduled and retries on the next tick.
func (s *Scheduler) Enable(ctx context.Context, userID uuid.UUID, handle string) Counts {
	s.schedule(userID, handle)

	counts, err := s.runner.Run(ctx, userID, handle)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "handle": handle}).Warn("initial sync pass failed, will retry on next tick")
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "handle": handle}).Info("continuous sync enabled")
	return counts
}

// Disable cancels the user's recurring task. An in-flight pass is allowed to
// finish; no new ticks fire. Reports whether a task existed.
func (s *Scheduler) Disable(userID uuid.UUID) bool {
	s.mu.Lock()
	t, ok := s.tasks[userID]
	if ok {
		delete(s.tasks, userID)
	}
	s.mu.Unlock()

	if ok {
		s.sched.Cancel(t.id)
		s.log.WithField("user_id", userID).Info("continuous sync disabled")
	}
	return ok
}

// Status reports whether continuous sync is active for the user and with
// which handle.
func (s *Scheduler) Status(userID uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[userID]
	return t.handle, ok
}

// RestartAll recreates a task for every user with a stored github handle.
// Called once at boot; unlike Enable it does not run an immediate pass.
func (s *Scheduler) RestartAll(ctx context.Context) error {
	users, err := s.users.ListWithGithubHandle(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		s.schedule(u.ID, u.Socials.Github)
	}

	s.log.WithField("count", len(users)).Info("sync tasks restored")
	return nil
}

// Stop cancels every task and shuts the underlying timer down.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, t := range s.tasks {
		s.sched.Cancel(t.id)
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	s.sched.Stop()
}

func (s *Scheduler) schedule(userID uuid.UUID, handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[userID]; ok {
		s.sched.Cancel(old.id)
	}

	id := s.sched.Schedule(func() {
		if _, err := s.runner.Run(context.Background(), userID, handle); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "handle": handle}).Warn("scheduled sync pass failed")
		}
	})
	s.tasks[userID] = task{id: id, handle: handle}
}
