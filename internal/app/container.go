package app

import (
	"context"
	"errors"
	"time"

	"resume-sync/internal/config"
	"resume-sync/internal/credential"
	"resume-sync/internal/database"
	"resume-sync/internal/database/migration"
	dbpostgres "resume-sync/internal/database/postgres"
	"resume-sync/internal/infrastructure/cache"
	"resume-sync/internal/repository"
	appsync "resume-sync/internal/sync"
	"resume-sync/internal/ws"

	"github.com/sirupsen/logrus"
)

// Container owns every long-lived dependency: the pool, the cache, the
// websocket hub and the per-user sync scheduler.
type Container struct {
	Config config.Config
	Log    *logrus.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Users       *repository.PostgresUserRepository
	Projects    *repository.PostgresProjectRepository
	Courses     *repository.PostgresCourseRepository
	Engagements *repository.PostgresEngagementRepository
	Resumes     *repository.PostgresResumeRepository

	Github     *appsync.GithubClient
	Reconciler *appsync.Reconciler
	Scheduler  *appsync.Scheduler
	Verifier   *credential.Verifier
}

func NewContainer(cfg config.Config, log *logrus.Logger) (*Container, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Log: log, DB: db}

	c.Cache = cache.NewRedis(cfg.Redis, log)

	c.Hub = ws.NewHub(log)
	ws.SetDefaultHub(c.Hub)

	c.Users = repository.NewPostgresUserRepository(db)
	c.Projects = repository.NewPostgresProjectRepository(db)
	c.Courses = repository.NewPostgresCourseRepository(db)
	c.Engagements = repository.NewPostgresEngagementRepository(db)
	c.Resumes = repository.NewPostgresResumeRepository(db)

	c.Github = appsync.NewGithubClient(cfg.Sync, c.Cache)
	c.Reconciler = appsync.NewReconciler(c.Github, c.Projects, c.Resumes, log)
	c.Scheduler = appsync.NewScheduler(appsync.NewCronScheduler(cfg.Sync.Interval), c.Reconciler, c.Users, log)

	c.Verifier = credential.NewVerifier(log)

	return c, nil
}

// Migrate applies pending schema migrations, holding the advisory lock so
// concurrent instances do not race.
func (c *Container) Migrate(ctx context.Context) error {
	sqlDB := c.DB.SQLDB()
	if sqlDB == nil {
		return errors.New("migrations need a sql-compatible pool")
	}
	return migration.Runner{Dir: c.Config.Database.MigrationsDir}.Run(ctx, sqlDB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Cache != nil {
		c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
