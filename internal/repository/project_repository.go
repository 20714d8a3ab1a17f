package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resume-sync/internal/database"
	"resume-sync/internal/domain/achievement"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
)

type ProjectRepository interface {
	Create(ctx context.Context, p achievement.Project) (achievement.Project, error)
	FindByRepoURL(ctx context.Context, userID uuid.UUID, repoURL string) (achievement.Project, error)
	// ListSynced returns the user's projects that carry a repository URL,
	// i.e. the local side of a reconciliation diff.
	ListSynced(ctx context.Context, userID uuid.UUID) ([]achievement.Project, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]achievement.Project, error)
	UpdateSyncStats(ctx context.Context, id uuid.UUID, contributions []string, endDate *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const projectColumns = `id, user_id, title,
	COALESCE(short_description, ''), COALESCE(description, ''),
	tech_stack, contributions,
	COALESCE(repo_url, ''), COALESCE(live_url, ''),
	start_date, end_date, visibility, created_at, updated_at`

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

func (r *PostgresProjectRepository) Create(ctx context.Context, p achievement.Project) (achievement.Project, error) {
	if p.Visibility == "" {
		p.Visibility = "public"
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO projects (id, user_id, title, short_description, description, tech_stack, contributions, repo_url, live_url, start_date, end_date, visibility)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.UserID, p.Title,
		nullableText(p.ShortDescription), nullableText(p.Description),
		textArray(p.TechStack), textArray(p.Contributions),
		nullableText(p.RepoURL), nullableText(p.LiveURL),
		p.StartDate, p.EndDate, p.Visibility,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return achievement.Project{}, ErrProjectExists
		}
		return achievement.Project{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, p.ID)
	return scanProject(row)
}

func (r *PostgresProjectRepository) FindByRepoURL(ctx context.Context, userID uuid.UUID, repoURL string) (achievement.Project, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE user_id = $1 AND repo_url = $2
		 ORDER BY created_at ASC LIMIT 1`,
		userID, repoURL,
	)
	return scanProject(row)
}

func (r *PostgresProjectRepository) ListSynced(ctx context.Context, userID uuid.UUID) ([]achievement.Project, error) {
	return r.list(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE user_id = $1 AND repo_url IS NOT NULL AND repo_url LIKE '%github.com%'
		 ORDER BY created_at ASC`,
		userID,
	)
}

func (r *PostgresProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]achievement.Project, error) {
	return r.list(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *PostgresProjectRepository) UpdateSyncStats(ctx context.Context, id uuid.UUID, contributions []string, endDate *time.Time) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE projects SET contributions = $2, end_date = $3, updated_at = now() WHERE id = $1`,
		id, textArray(contributions), endDate,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *PostgresProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *PostgresProjectRepository) list(ctx context.Context, query string, args ...any) ([]achievement.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]achievement.Project, 0)
	for rows.Next() {
		var p achievement.Project
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title,
			&p.ShortDescription, &p.Description,
			&p.TechStack, &p.Contributions,
			&p.RepoURL, &p.LiveURL,
			&p.StartDate, &p.EndDate, &p.Visibility, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProject(row database.Row) (achievement.Project, error) {
	var p achievement.Project
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title,
		&p.ShortDescription, &p.Description,
		&p.TechStack, &p.Contributions,
		&p.RepoURL, &p.LiveURL,
		&p.StartDate, &p.EndDate, &p.Visibility, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return achievement.Project{}, ErrProjectNotFound
		}
		return achievement.Project{}, err
	}
	return p, nil
}

func textArray(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
