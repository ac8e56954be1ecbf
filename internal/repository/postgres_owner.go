package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/atinyakov/ownerhub/internal/models"
)

// PostgreSQL error codes the repository maps to sentinels.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresOwnerRepository implements owner and session persistence using
// a PostgreSQL database.
type PostgresOwnerRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresOwnerRepository creates a repository over db, which must be
// connected to a PostgreSQL instance migrated by db.MigratePostgres.
func NewPostgresOwnerRepository(db *sql.DB) *PostgresOwnerRepository {
	return &PostgresOwnerRepository{DB: db}
}

// UserExists checks whether an owner with the given username exists.
func (r *PostgresOwnerRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM owners WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateOwner inserts o with its password hash. A taken username yields
// ErrDuplicate.
func (r *PostgresOwnerRepository) CreateOwner(ctx context.Context, o models.Owner, passwordHash []byte) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO owners (id, username, password_hash) VALUES ($1, $2, $3)`,
		o.ID, o.Username, passwordHash,
	)
	if pqCode(err) == pqUniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

// CreateSession binds token to ownerID until expiresAt. An unknown owner
// yields ErrNotFound.
func (r *PostgresOwnerRepository) CreateSession(ctx context.Context, token, ownerID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO owner_sessions (token, owner_id, expires_at) VALUES ($1, $2, $3)`,
		token, ownerID, expiresAt,
	)
	if pqCode(err) == pqForeignKeyViolation {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// OwnerByToken returns the owner of a session live at now.
func (r *PostgresOwnerRepository) OwnerByToken(ctx context.Context, token string, now time.Time) (models.Owner, error) {
	o := models.Owner{Token: token}
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT o.id, o.username, s.expires_at
		   FROM owner_sessions s
		   JOIN owners o ON o.id = s.owner_id
		  WHERE s.token = $1 AND s.expires_at > $2`,
		token, now,
	).Scan(&o.ID, &o.Username, &o.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Owner{}, ErrNotFound
	}
	if err != nil {
		return models.Owner{}, fmt.Errorf("select session: %w", err)
	}
	o.ExpiresAt = o.ExpiresAt.UTC()
	return o, nil
}

// PurgeExpiredSessions deletes sessions expired at now and returns how
// many were removed.
func (r *PostgresOwnerRepository) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM owner_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return res.RowsAffected()
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
