package authflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	authflow "github.com/safecheck/go-authflow"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := authflow.NewMemoryStore()

	empty, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, empty)

	identity := testIdentity()
	assert.NoError(t, store.Write(ctx, &identity))

	got, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, &identity, got)

	assert.NoError(t, store.Clear(ctx))

	cleared, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, cleared)
}

func newSQLiteStore(t *testing.T) *authflow.SessionStore {
	t.Helper()

	db, err := authflow.OpenSQLite("file::memory:?cache=shared")
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := authflow.NewSessionStore(db)
	assert.NoError(t, store.Init(context.Background()))
	assert.NoError(t, store.Clear(context.Background()))
	return store
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	empty, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, empty)

	identity := testIdentity()
	assert.NoError(t, store.Write(ctx, &identity))

	got, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, &identity, got)
}

func TestSessionStoreWriteReplaces(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	first := testIdentity()
	assert.NoError(t, store.Write(ctx, &first))

	second := authflow.Identity{
		ID:          "2",
		Name:        "B",
		Email:       "b@x.com",
		DateOfBirth: "1990-05-05",
	}
	assert.NoError(t, store.Write(ctx, &second))

	got, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, &second, got)
}

func TestSessionStoreClear(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	identity := testIdentity()
	assert.NoError(t, store.Write(ctx, &identity))
	assert.NoError(t, store.Clear(ctx))

	got, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreNilWriteClears(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	identity := testIdentity()
	assert.NoError(t, store.Write(ctx, &identity))
	assert.NoError(t, store.Write(ctx, nil))

	got, err := store.Read(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
