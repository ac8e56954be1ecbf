// Package service provides the owner registration logic of the identity
// stub, delegating persistence to an OwnerRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/ownerhub/internal/models"
	"github.com/atinyakov/ownerhub/internal/repository"
)

// ErrOwnerExists is returned when the username is already registered.
var ErrOwnerExists = errors.New("owner already exists")

// ErrInvalidToken is returned when a token matches no live session.
var ErrInvalidToken = errors.New("invalid token")

// DefaultSessionTTL is how long an issued token stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// OwnerRepository defines the persistence operations
// required by the authentication service.
type OwnerRepository interface {
	// UserExists returns true if an owner with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// CreateOwner stores a new owner with its password hash.
	CreateOwner(ctx context.Context, o models.Owner, passwordHash []byte) error
	// CreateSession binds a token to an owner until expiresAt.
	CreateSession(ctx context.Context, token, ownerID string, expiresAt time.Time) error
	// OwnerByToken resolves a live session token.
	OwnerByToken(ctx context.Context, token string, now time.Time) (models.Owner, error)
}

// Service implements owner registration by delegating
// to an OwnerRepository.
type Service struct {
	repo OwnerRepository
	ttl  time.Duration
	cost int
	now  func() time.Time
}

// NewAuthService constructs a Service issuing tokens valid for ttl.
// A non-positive ttl selects DefaultSessionTTL.
func NewAuthService(repo OwnerRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{repo: repo, ttl: ttl, cost: bcrypt.DefaultCost, now: time.Now}
}

// RegisterOwner creates the owner, hashes its password and issues a
// session token.
func (s *Service) RegisterOwner(ctx context.Context, username, password string) (models.Owner, error) {
	exists, err := s.repo.UserExists(ctx, username)
	if err != nil {
		return models.Owner{}, fmt.Errorf("check owner: %w", err)
	}
	if exists {
		return models.Owner{}, ErrOwnerExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Owner{}, fmt.Errorf("hash password: %w", err)
	}

	o := models.Owner{ID: uuid.NewString(), Username: username}
	if err := s.repo.CreateOwner(ctx, o, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Owner{}, ErrOwnerExists
		}
		return models.Owner{}, fmt.Errorf("create owner: %w", err)
	}

	o.Token = uuid.NewString()
	o.ExpiresAt = s.now().Add(s.ttl).UTC().Truncate(time.Second)
	if err := s.repo.CreateSession(ctx, o.Token, o.ID, o.ExpiresAt); err != nil {
		return models.Owner{}, fmt.Errorf("create session: %w", err)
	}
	return o, nil
}

// OwnerByToken returns the owner of a live token.
func (s *Service) OwnerByToken(ctx context.Context, token string) (models.Owner, error) {
	o, err := s.repo.OwnerByToken(ctx, token, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return models.Owner{}, ErrInvalidToken
	}
	return o, err
}

// Purger drops expired sessions.
type Purger interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// StartSessionPurger purges expired sessions every interval until ctx
// is cancelled.
func StartSessionPurger(ctx context.Context, p Purger, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := p.PurgeExpiredSessions(ctx, time.Now())
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Error("failed to purge expired sessions", zap.Error(err))
					continue
				}
				if n > 0 {
					log.Info("purged expired sessions", zap.Int64("removed", n))
				}
			}
		}
	}()
}
