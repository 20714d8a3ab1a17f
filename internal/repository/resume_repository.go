package repository

import (
	"context"
	"database/sql"
	"errors"

	"resume-sync/internal/database"
	"resume-sync/internal/domain/achievement"
	"resume-sync/internal/domain/resume"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrResumeNotFound  = errors.New("resume not found")
	ErrResumeForbidden = errors.New("forbidden")
)

type ResumeRepository interface {
	Create(ctx context.Context, rs resume.Resume) (resume.Resume, error)
	GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error)

	// AttachItemToAll adds the item to every resume owned by userID that does
	// not already reference it, stamps last_synced_at on the mutated rows,
	// and returns how many resumes were actually mutated.
	AttachItemToAll(ctx context.Context, userID uuid.UUID, kind achievement.Kind, itemID uuid.UUID) (int, error)

	// DetachItemFromAll removes the item from every resume owned by userID
	// and returns how many resumes referenced it.
	DetachItemFromAll(ctx context.Context, userID uuid.UUID, kind achievement.Kind, itemID uuid.UUID) (int, error)

	ListItemIDs(ctx context.Context, resumeID uuid.UUID, kind achievement.Kind) ([]uuid.UUID, error)
}

const resumeColumns = `id, user_id, title, COALESCE(headline, ''), COALESCE(summary, ''),
	visibility, last_synced_at, created_at, updated_at`

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Create(ctx context.Context, rs resume.Resume) (resume.Resume, error) {
	if rs.Visibility == "" {
		rs.Visibility = "private"
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, headline, summary, visibility)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rs.ID, rs.UserID, rs.Title, nullableText(rs.Headline), nullableText(rs.Summary), rs.Visibility,
	)
	if err != nil {
		return resume.Resume{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, rs.ID)
	return scanResume(row)
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (resume.Resume, error) {
	row := r.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	return scanResume(row)
}

func (r *PostgresResumeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resume.Resume, 0)
	for rows.Next() {
		var rs resume.Resume
		if err := rows.Scan(
			&rs.ID, &rs.UserID, &rs.Title, &rs.Headline, &rs.Summary,
			&rs.Visibility, &rs.LastSyncedAt, &rs.CreatedAt, &rs.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResumeRepository) AttachItemToAll(ctx context.Context, userID uuid.UUID, kind achievement.Kind, itemID uuid.UUID) (int, error) {
	affected, err := r.db.Exec(ctx,
		`WITH ins AS (
			INSERT INTO resume_items (resume_id, item_kind, item_id)
			SELECT r.id, $2, $3 FROM resumes r WHERE r.user_id = $1
			ON CONFLICT (resume_id, item_kind, item_id) DO NOTHING
			RETURNING resume_id
		 )
		 UPDATE resumes SET last_synced_at = now(), updated_at = now()
		 WHERE id IN (SELECT resume_id FROM ins)`,
		userID, string(kind), itemID,
	)
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *PostgresResumeRepository) DetachItemFromAll(ctx context.Context, userID uuid.UUID, kind achievement.Kind, itemID uuid.UUID) (int, error) {
	affected, err := r.db.Exec(ctx,
		`WITH del AS (
			DELETE FROM resume_items ri
			USING resumes r
			WHERE ri.resume_id = r.id AND r.user_id = $1 AND ri.item_kind = $2 AND ri.item_id = $3
			RETURNING ri.resume_id
		 )
		 UPDATE resumes SET last_synced_at = now(), updated_at = now()
		 WHERE id IN (SELECT resume_id FROM del)`,
		userID, string(kind), itemID,
	)
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (r *PostgresResumeRepository) ListItemIDs(ctx context.Context, resumeID uuid.UUID, kind achievement.Kind) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_id FROM resume_items WHERE resume_id = $1 AND item_kind = $2 ORDER BY position ASC, added_at ASC`,
		resumeID, string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanResume(row database.Row) (resume.Resume, error) {
	var rs resume.Resume
	err := row.Scan(
		&rs.ID, &rs.UserID, &rs.Title, &rs.Headline, &rs.Summary,
		&rs.Visibility, &rs.LastSyncedAt, &rs.CreatedAt, &rs.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, ErrResumeNotFound
		}
		return resume.Resume{}, err
	}
	return rs, nil
}
