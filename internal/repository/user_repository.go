package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"resume-sync/internal/database"
	"resume-sync/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash,
	COALESCE(phone, ''), COALESCE(location, ''), COALESCE(headline, ''),
	COALESCE(github_handle, ''), COALESCE(linkedin_handle, ''), COALESCE(portfolio_url, ''),
	created_at, updated_at`

// socialColumns maps webhook platform names to the user column holding that
// platform's handle. Platforms without a stored handle resolve by email only.
var socialColumns = map[string]string{
	"github":   "github_handle",
	"linkedin": "linkedin_handle",
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, phone, location, headline, github_handle, linkedin_handle, portfolio_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Email, u.PasswordHash,
		nullableText(u.Phone), nullableText(u.Location), nullableText(u.Headline),
		nullableText(u.Socials.Github), nullableText(u.Socials.Linkedin), nullableText(u.Socials.Portfolio),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) FindByIdentifier(ctx context.Context, platform, identifier string) (user.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return user.User{}, user.ErrNotFound
	}

	col, ok := socialColumns[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, identifier)
		return scanUser(row)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR `+col+` = $1 ORDER BY created_at ASC LIMIT 1`,
		identifier,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) UpdateGithubHandle(ctx context.Context, id uuid.UUID, handle string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET github_handle = $2, updated_at = now() WHERE id = $1`,
		id, nullableText(handle),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListWithGithubHandle(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_handle IS NOT NULL AND github_handle <> '' ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUserFromRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Phone, &u.Location, &u.Headline,
		&u.Socials.Github, &u.Socials.Linkedin, &u.Socials.Portfolio,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanUserFromRows(rows database.Rows) (user.User, error) {
	var u user.User
	err := rows.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Phone, &u.Location, &u.Headline,
		&u.Socials.Github, &u.Socials.Linkedin, &u.Socials.Portfolio,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func nullableText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
