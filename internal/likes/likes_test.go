package likes

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, "5", CanonicalID(5))
	assert.Equal(t, "5", CanonicalID(int64(5)))
	assert.Equal(t, "5", CanonicalID(uint32(5)))
	assert.Equal(t, "5", CanonicalID("5"))
	assert.Equal(t, "5", CanonicalID(" 5 "))
	assert.Equal(t, "5", CanonicalID(json.Number("5")))
	assert.Equal(t, "", CanonicalID(nil))
}

func TestStore_AddThenIsLiked(t *testing.T) {
	ctx := context.Background()
	store := NewRepository(NewMemoryBackend()).For("visitor-a")

	require.NoError(t, store.Add(ctx, 5))

	liked, err := store.IsLiked(ctx, "5")
	require.NoError(t, err)
	assert.True(t, liked, "numeric string should match numeric id")

	liked, err = store.IsLiked(ctx, 5)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, store.Add(ctx, "7"))
	liked, err = store.IsLiked(ctx, 7)
	require.NoError(t, err)
	assert.True(t, liked, "number should match string id")

	liked, err = store.IsLiked(ctx, 8)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestStore_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewRepository(backend).For("visitor-a")

	require.NoError(t, store.Add(ctx, 12))
	before, err := store.LikedIDs(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, "12"))
	after, err := store.LikedIDs(ctx)
	require.NoError(t, err)

	assert.Equal(t, before.Len(), after.Len())
	assert.Equal(t, 1, after.Len())

	raw, err := backend.Load(ctx, store.Key())
	require.NoError(t, err)
	assert.JSONEq(t, `["12"]`, string(raw))
}

func TestStore_RejectsEmptyID(t *testing.T) {
	store := NewRepository(NewMemoryBackend()).For("")
	assert.ErrorIs(t, store.Add(context.Background(), "  "), ErrEmptyID)
	assert.Equal(t, StorageKey, store.Key())
}

func TestStore_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryBackend())
	a, b := repo.For("a"), repo.For("b")

	require.NoError(t, a.Add(ctx, 1))

	liked, err := b.IsLiked(ctx, 1)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, "likedRecitations:a", a.Key())
}

func TestStore_ConcurrentAddsKeepEveryID(t *testing.T) {
	ctx := context.Background()
	store := NewRepository(NewMemoryBackend()).For("busy")

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, store.Add(ctx, id))
		}(i)
	}
	wg.Wait()

	set, err := store.LikedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, set.Len())
}

func TestStore_CorruptDataIsAnError(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, StorageKey, []byte("{not json")))

	_, err := NewRepository(backend).For("").LikedIDs(ctx)
	assert.Error(t, err)
}

func TestStore_ClaimNeverOverlapsForOneID(t *testing.T) {
	repo := NewRepository(NewMemoryBackend())

	var running, maxRunning atomic.Int32
	like := func() (any, error) {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return "ok", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := any(5)
			if i%2 == 0 {
				id = " 5 "
			}
			v, err := repo.For("visitor").Claim(id, like)
			assert.NoError(t, err)
			assert.Equal(t, "ok", v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestStore_ClaimRejectsEmptyID(t *testing.T) {
	store := NewRepository(NewMemoryBackend()).For("visitor")
	_, err := store.Claim("  ", func() (any, error) {
		t.Error("like must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrEmptyID)
}
