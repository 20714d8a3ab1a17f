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
	ErrCourseNotFound = errors.New("course not found")
	ErrCourseExists   = errors.New("course already exists")
)

type CourseRepository interface {
	Create(ctx context.Context, c achievement.Course) (achievement.Course, error)
	FindByCredentialID(ctx context.Context, userID uuid.UUID, credentialID string) (achievement.Course, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]achievement.Course, error)
}

const courseColumns = `id, user_id, title,
	COALESCE(issuer, ''), COALESCE(credential_id, ''), COALESCE(credential_url, ''),
	issued_at, expires_at, verified, verification_status, COALESCE(notes, ''),
	created_at, updated_at`

type PostgresCourseRepository struct {
	db database.DB
}

func NewPostgresCourseRepository(db database.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

func (r *PostgresCourseRepository) Create(ctx context.Context, c achievement.Course) (achievement.Course, error) {
	if c.VerificationStatus == "" {
		c.VerificationStatus = achievement.StatusUnverified
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO courses (id, user_id, title, issuer, credential_id, credential_url, issued_at, expires_at, verified, verification_status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.UserID, c.Title,
		nullableText(c.Issuer), nullableText(c.CredentialID), nullableText(c.CredentialURL),
		c.IssuedAt, c.ExpiresAt, c.Verified, string(c.VerificationStatus), nullableText(c.Notes),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return achievement.Course{}, ErrCourseExists
		}
		return achievement.Course{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, c.ID)
	return scanCourse(row)
}

func (r *PostgresCourseRepository) FindByCredentialID(ctx context.Context, userID uuid.UUID, credentialID string) (achievement.Course, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses
		 WHERE user_id = $1 AND credential_id = $2
		 ORDER BY created_at ASC LIMIT 1`,
		userID, credentialID,
	)
	return scanCourse(row)
}

func (r *PostgresCourseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]achievement.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE user_id = $1 ORDER BY issued_at DESC NULLS LAST, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]achievement.Course, 0)
	for rows.Next() {
		var c achievement.Course
		var status string
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Title,
			&c.Issuer, &c.CredentialID, &c.CredentialURL,
			&c.IssuedAt, &c.ExpiresAt, &c.Verified, &status, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.VerificationStatus = achievement.VerificationStatus(status)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanCourse(row database.Row) (achievement.Course, error) {
	var c achievement.Course
	var status string
	err := row.Scan(
		&c.ID, &c.UserID, &c.Title,
		&c.Issuer, &c.CredentialID, &c.CredentialURL,
		&c.IssuedAt, &c.ExpiresAt, &c.Verified, &status, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return achievement.Course{}, ErrCourseNotFound
		}
		return achievement.Course{}, err
	}
	c.VerificationStatus = achievement.VerificationStatus(status)
	return c, nil
}
