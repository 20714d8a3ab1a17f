package repository

import (
	"context"
	"database/sql"
	"errors"

	"resume-sync/internal/database"
	"resume-sync/internal/domain/achievement"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrEngagementNotFound = errors.New("engagement not found")
	ErrEngagementExists   = errors.New("engagement already exists")
)

type EngagementRepository interface {
	Create(ctx context.Context, e achievement.Engagement) (achievement.Engagement, error)
	// FindByNaturalKey looks up by (user, kind, company, role). When
	// historical duplicates exist the oldest row wins; extras are left alone.
	FindByNaturalKey(ctx context.Context, userID uuid.UUID, kind achievement.Kind, company, role string) (achievement.Engagement, error)
	ListByUser(ctx context.Context, userID uuid.UUID, kind achievement.Kind) ([]achievement.Engagement, error)
}

const engagementColumns = `id, user_id, kind, company, role, start_date, end_date,
	COALESCE(description, ''), verified, COALESCE(source_platform, ''), created_at, updated_at`

type PostgresEngagementRepository struct {
	db database.DB
}

func NewPostgresEngagementRepository(db database.DB) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{db: db}
}

func (r *PostgresEngagementRepository) Create(ctx context.Context, e achievement.Engagement) (achievement.Engagement, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO engagements (id, user_id, kind, company, role, start_date, end_date, description, verified, source_platform)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.UserID, string(e.Kind), e.Company, e.Role,
		e.StartDate, e.EndDate, nullableText(e.Description), e.Verified, nullableText(e.SourcePlatform),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return achievement.Engagement{}, ErrEngagementExists
		}
		return achievement.Engagement{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+engagementColumns+` FROM engagements WHERE id = $1`, e.ID)
	return scanEngagement(row)
}

func (r *PostgresEngagementRepository) FindByNaturalKey(ctx context.Context, userID uuid.UUID, kind achievement.Kind, company, role string) (achievement.Engagement, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+engagementColumns+` FROM engagements
		 WHERE user_id = $1 AND kind = $2 AND company = $3 AND role = $4
		 ORDER BY created_at ASC LIMIT 1`,
		userID, string(kind), company, role,
	)
	return scanEngagement(row)
}

func (r *PostgresEngagementRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind achievement.Kind) ([]achievement.Engagement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+engagementColumns+` FROM engagements
		 WHERE user_id = $1 AND kind = $2
		 ORDER BY start_date DESC NULLS LAST, created_at DESC`,
		userID, string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]achievement.Engagement, 0)
	for rows.Next() {
		var e achievement.Engagement
		var kind string
		if err := rows.Scan(
			&e.ID, &e.UserID, &kind, &e.Company, &e.Role, &e.StartDate, &e.EndDate,
			&e.Description, &e.Verified, &e.SourcePlatform, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Kind = achievement.Kind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEngagement(row database.Row) (achievement.Engagement, error) {
	var e achievement.Engagement
	var kind string
	err := row.Scan(
		&e.ID, &e.UserID, &kind, &e.Company, &e.Role, &e.StartDate, &e.EndDate,
		&e.Description, &e.Verified, &e.SourcePlatform, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return achievement.Engagement{}, ErrEngagementNotFound
		}
		return achievement.Engagement{}, err
	}
	e.Kind = achievement.Kind(kind)
	return e, nil
}
