package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/ownerhub/internal/models"
)

type memStore struct {
	owner   *models.Owner
	saveErr error
	loadErr error
	saves   int
	deletes int
}

func (m *memStore) Load(ctx context.Context) (models.Owner, error) {
	if m.loadErr != nil {
		return models.Owner{}, m.loadErr
	}
	if m.owner == nil {
		return models.Owner{}, ErrNoSession
	}
	return *m.owner, nil
}

func (m *memStore) Save(ctx context.Context, o models.Owner) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.owner = &o
	return nil
}

func (m *memStore) Delete(ctx context.Context) error {
	m.deletes++
	m.owner = nil
	return nil
}

func TestContext_ReplaceAndCurrent(t *testing.T) {
	c := NewContext()
	_, ok := c.Current()
	assert.False(t, ok)

	c.Replace(context.Background(), models.Owner{ID: "1", Username: "a@x.io"})
	c.Replace(context.Background(), models.Owner{ID: "2", Username: "b@x.io"})

	got, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "2", got.ID)
}

func TestContext_ReplacePersists(t *testing.T) {
	store := &memStore{}
	c := NewContext(WithStore(store))
	c.Replace(context.Background(), models.Owner{ID: "1"})

	assert.Equal(t, 1, store.saves)
	require.NotNil(t, store.owner)
	assert.Equal(t, "1", store.owner.ID)
}

func TestContext_ReplaceSaveFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &memStore{saveErr: errors.New("disk full")}
	c := NewContext(WithStore(store), WithLogger(zap.New(core)))

	c.Replace(context.Background(), models.Owner{ID: "1"})

	got, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist session").Len())
}

func TestContext_Clear(t *testing.T) {
	store := &memStore{}
	c := NewContext(WithStore(store))
	c.Replace(context.Background(), models.Owner{ID: "1"})

	require.NoError(t, c.Clear(context.Background()))
	_, ok := c.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, store.deletes)
}

func TestContext_Restore(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	valid := models.Owner{ID: "1", Username: "a@x.io", Token: "t", ExpiresAt: now.Add(time.Hour)}
	expired := models.Owner{ID: "2", ExpiresAt: now.Add(-time.Hour)}

	accept := func(context.Context, models.Owner) (bool, error) { return true, nil }
	reject := func(context.Context, models.Owner) (bool, error) { return false, nil }
	offline := func(context.Context, models.Owner) (bool, error) { return false, errors.New("dial tcp") }

	tests := []struct {
		name        string
		stored      *models.Owner
		loadErr     error
		verify      Verifier
		wantOK      bool
		wantErr     bool
		wantDeletes int
	}{
		{name: "nothing stored", verify: accept},
		{name: "load error", loadErr: errors.New("corrupt"), wantErr: true},
		{name: "expired", stored: &expired, verify: accept, wantDeletes: 1},
		{name: "accepted", stored: &valid, verify: accept, wantOK: true},
		{name: "no verifier", stored: &valid, wantOK: true},
		{name: "rejected", stored: &valid, verify: reject, wantDeletes: 1},
		{name: "service unreachable", stored: &valid, verify: offline, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{owner: tt.stored, loadErr: tt.loadErr}
			c := NewContext(WithStore(store))
			c.now = func() time.Time { return now }

			ok, err := c.Restore(context.Background(), tt.verify)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDeletes, store.deletes)

			_, set := c.Current()
			assert.Equal(t, tt.wantOK, set)
		})
	}
}

func TestContext_RestoreWithoutStore(t *testing.T) {
	ok, err := NewContext().Restore(context.Background(), nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}
