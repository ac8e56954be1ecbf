// Package session holds the process-wide authenticated owner.
//
// A Context is created once at start up and passed by reference to the
// screens that need it. Replace is the only way to install a new owner;
// everything else reads through Current.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/models"
)

// ErrNoSession is returned by a Store that holds no owner.
var ErrNoSession = errors.New("no stored session")

// Store persists the current owner between runs.
type Store interface {
	Load(ctx context.Context) (models.Owner, error)
	Save(ctx context.Context, o models.Owner) error
	Delete(ctx context.Context) error
}

// Verifier reports whether the identity service still accepts o.
// An error means the check could not be made.
type Verifier func(ctx context.Context, o models.Owner) (bool, error)

// Context is the single authenticated-owner slot of the process.
type Context struct {
	mu    sync.RWMutex
	owner models.Owner
	set   bool

	store Store
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Context.
type Option func(*Context)

// WithStore persists every replacement to s.
func WithStore(s Store) Option {
	return func(c *Context) { c.store = s }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) { c.log = l }
}

// NewContext returns an empty Context.
func NewContext(opts ...Option) *Context {
	c := &Context{log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Current returns the owner and whether one is set.
func (c *Context) Current() (models.Owner, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner, c.set
}

// Replace installs o, replacing any prior owner. A failed save is logged;
// the in-memory owner is authoritative.
func (c *Context) Replace(ctx context.Context, o models.Owner) {
	c.mu.Lock()
	c.owner, c.set = o, true
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, o); err != nil {
		c.log.Warn("failed to persist session", zap.String("owner_id", o.ID), zap.Error(err))
	}
}

// Clear drops the current owner and its stored copy.
func (c *Context) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.owner, c.set = models.Owner{}, false
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	return c.store.Delete(ctx)
}

// Restore loads the stored owner into the Context. Expired records and
// records verify rejects are deleted. When verify cannot reach the
// service the stored owner is kept. It reports whether an owner was
// restored.
func (c *Context) Restore(ctx context.Context, verify Verifier) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	o, err := c.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if o.Expired(c.now()) {
		c.log.Info("stored session expired", zap.String("owner_id", o.ID))
		return false, c.store.Delete(ctx)
	}

	if verify != nil {
		ok, err := verify(ctx, o)
		switch {
		case err != nil:
			c.log.Warn("could not verify stored session, keeping it", zap.Error(err))
		case !ok:
			c.log.Info("stored session rejected by identity service", zap.String("owner_id", o.ID))
			return false, c.store.Delete(ctx)
		}
	}

	c.mu.Lock()
	c.owner, c.set = o, true
	c.mu.Unlock()
	return true, nil
}
