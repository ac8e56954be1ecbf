package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/ownerhub/internal/models"
)

// SQLStore keeps the owner in the single-row owner_session table. The
// token is sealed before it is written.
type SQLStore struct {
	// DB is the local database handle.
	DB     *sql.DB
	sealer *Sealer
	now    func() time.Time
}

// NewSQLStore returns a store over db sealing tokens with sealer.
func NewSQLStore(db *sql.DB, sealer *Sealer) *SQLStore {
	return &SQLStore{DB: db, sealer: sealer, now: time.Now}
}

// Load returns the stored owner or ErrNoSession.
func (s *SQLStore) Load(ctx context.Context) (models.Owner, error) {
	var (
		o         models.Owner
		sealed    string
		expiresAt int64
	)
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT owner_id, username, token, expires_at FROM owner_session WHERE slot = 1`,
	).Scan(&o.ID, &o.Username, &sealed, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Owner{}, ErrNoSession
	}
	if err != nil {
		return models.Owner{}, fmt.Errorf("load session: %w", err)
	}

	token, err := s.sealer.Open(sealed)
	if err != nil {
		return models.Owner{}, fmt.Errorf("open session token: %w", err)
	}
	o.Token = string(token)
	if expiresAt > 0 {
		o.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	}
	return o, nil
}

// Save upserts o.
func (s *SQLStore) Save(ctx context.Context, o models.Owner) error {
	sealed, err := s.sealer.Seal([]byte(o.Token))
	if err != nil {
		return fmt.Errorf("seal session token: %w", err)
	}
	var expiresAt int64
	if !o.ExpiresAt.IsZero() {
		expiresAt = o.ExpiresAt.Unix()
	}
	_, err = s.DB.ExecContext(
		ctx,
		`INSERT INTO owner_session (slot, owner_id, username, token, expires_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   owner_id = excluded.owner_id,
		   username = excluded.username,
		   token = excluded.token,
		   expires_at = excluded.expires_at,
		   updated_at = excluded.updated_at`,
		o.ID, o.Username, sealed, expiresAt, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the stored owner, if any.
func (s *SQLStore) Delete(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM owner_session`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
