// Package repository provides the persistence of the identity stub: a
// PostgreSQL store and an in-memory fallback.
package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atinyakov/ownerhub/internal/models"
)

var (
	// ErrDuplicate is returned when the username is already registered.
	ErrDuplicate = errors.New("owner already registered")
	// ErrNotFound is returned when no live session matches a token.
	ErrNotFound = errors.New("not found")
)

type ownerRecord struct {
	owner        models.Owner
	passwordHash []byte
}

type sessionRecord struct {
	ownerID   string
	expiresAt time.Time
}

// MemoryOwnerRepository keeps owners and their session tokens in maps.
// It is safe for concurrent use.
type MemoryOwnerRepository struct {
	mu       sync.RWMutex
	byName   map[string]*ownerRecord
	byID     map[string]*ownerRecord
	sessions map[string]sessionRecord
}

// NewMemoryOwnerRepository returns an empty repository.
func NewMemoryOwnerRepository() *MemoryOwnerRepository {
	return &MemoryOwnerRepository{
		byName:   make(map[string]*ownerRecord),
		byID:     make(map[string]*ownerRecord),
		sessions: make(map[string]sessionRecord),
	}
}

// UserExists reports whether username is registered.
func (r *MemoryOwnerRepository) UserExists(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[username]
	return ok, nil
}

// CreateOwner stores o with its password hash. The username must be free.
func (r *MemoryOwnerRepository) CreateOwner(ctx context.Context, o models.Owner, passwordHash []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[o.Username]; ok {
		return ErrDuplicate
	}
	o.Token, o.ExpiresAt = "", time.Time{}
	rec := &ownerRecord{owner: o, passwordHash: passwordHash}
	r.byName[o.Username] = rec
	r.byID[o.ID] = rec
	return nil
}

// CreateSession binds token to ownerID until expiresAt.
func (r *MemoryOwnerRepository) CreateSession(ctx context.Context, token, ownerID string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ownerID]; !ok {
		return ErrNotFound
	}
	r.sessions[token] = sessionRecord{ownerID: ownerID, expiresAt: expiresAt}
	return nil
}

// OwnerByToken returns the owner of a session live at now.
func (r *MemoryOwnerRepository) OwnerByToken(ctx context.Context, token string, now time.Time) (models.Owner, error) {
	if err := ctx.Err(); err != nil {
		return models.Owner{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok || !now.Before(s.expiresAt) {
		return models.Owner{}, ErrNotFound
	}
	rec, ok := r.byID[s.ownerID]
	if !ok {
		return models.Owner{}, ErrNotFound
	}
	o := rec.owner
	o.Token, o.ExpiresAt = token, s.expiresAt
	return o, nil
}

// PurgeExpiredSessions drops sessions expired at now and returns how
// many were removed.
func (r *MemoryOwnerRepository) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if !now.Before(s.expiresAt) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}
