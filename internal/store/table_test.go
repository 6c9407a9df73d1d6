package store

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
}

// backendSuite runs the shared contract against any Backend.
func backendSuite(t *testing.T, backend Backend) {
	ctx := context.Background()
	notes := NewTable[note](backend, "notes")

	t.Run("get absent is not an error", func(t *testing.T) {
		_, found, err := notes.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("put then get", func(t *testing.T) {
		in := note{ID: "a", Email: "a@x.io", Body: "first", Tags: []string{"go"}, CreatedAt: "2024-01-01T00:00:00.000Z"}
		require.NoError(t, notes.Put(ctx, in.ID, in))
		got, found, err := notes.Get(ctx, "a")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, in, got)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, notes.Put(ctx, "a", note{ID: "a", Email: "a@x.io", Body: "replaced", CreatedAt: "2024-01-01T00:00:00.000Z"}))
		got, _, err := notes.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "replaced", got.Body)
		assert.Empty(t, got.Tags)
	})

	t.Run("update touches only named attributes", func(t *testing.T) {
		require.NoError(t, notes.Put(ctx, "b", note{ID: "b", Email: "b@x.io", Body: "keep", Tags: []string{"x", "y"}, CreatedAt: "2024-01-02T00:00:00.000Z"}))
		require.NoError(t, notes.Update(ctx, "b", Attributes{"email": "new@x.io"}))
		got, _, err := notes.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "new@x.io", got.Email)
		assert.Equal(t, "keep", got.Body)
		assert.Equal(t, []string{"x", "y"}, got.Tags)
	})

	t.Run("update absent key", func(t *testing.T) {
		err := notes.Update(ctx, "nope", Attributes{"body": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
		_, found, err := notes.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("scan is ordered by key and filterable", func(t *testing.T) {
		require.NoError(t, notes.Put(ctx, "c", note{ID: "c", Email: "a@x.io", CreatedAt: "2024-01-03T00:00:00.000Z"}))

		all, err := notes.Scan(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

		byEmail, err := notes.Scan(ctx, Equals{Attribute: "email", Value: "a@x.io"})
		require.NoError(t, err)
		require.Len(t, byEmail, 2)
		assert.Equal(t, "a", byEmail[0].ID)
		assert.Equal(t, "c", byEmail[1].ID)

		window, err := notes.Scan(ctx, Between{Attribute: "createdAt", Lower: "2024-01-02T00:00:00.000Z", Upper: "2024-01-03T00:00:00.000Z"})
		require.NoError(t, err)
		require.Len(t, window, 2)
		assert.Equal(t, "b", window[0].ID)
		assert.Equal(t, "c", window[1].ID)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, notes.Delete(ctx, "c"))
		require.NoError(t, notes.Delete(ctx, "c"))
		_, found, err := notes.Get(ctx, "c")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("tables are independent", func(t *testing.T) {
		other := NewTable[note](backend, "other")
		all, err := other.Scan(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestMemoryBackend(t *testing.T) {
	backendSuite(t, NewMemory())
}

func TestMemory_KeysDoNotAliasCallerBuffers(t *testing.T) {
	ctx := context.Background()

	// aliased returns a key backed by a buffer the caller rewrites afterwards.
	aliased := func(s string) (string, []byte) {
		buf := []byte(s)
		return unsafe.String(&buf[0], len(buf)), buf
	}

	t.Run("update", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Put(ctx, "notes", "a", []byte(`{"id":"a","body":"x"}`)))

		key, buf := aliased("a")
		require.NoError(t, m.Update(ctx, "notes", key, Attributes{"body": "y"}))
		buf[0] = 'q'

		doc, found, err := m.Get(ctx, "notes", "a")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `{"id":"a","body":"y"}`, string(doc))

		all, err := m.Scan(ctx, "notes", nil)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("put over existing key", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Put(ctx, "notes", "a", []byte(`{"id":"a","body":"x"}`)))

		key, buf := aliased("a")
		require.NoError(t, m.Put(ctx, "notes", key, []byte(`{"id":"a","body":"z"}`)))
		buf[0] = 'q'

		doc, found, err := m.Get(ctx, "notes", "a")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `{"id":"a","body":"z"}`, string(doc))
	})
}

func TestTimestamp_SortsChronologically(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3*3600))
	earlier := Timestamp(base)
	later := Timestamp(base.Add(10 * time.Millisecond))

	assert.Equal(t, "2024-03-01T07:00:00.000Z", earlier)
	assert.Equal(t, "2024-03-01T07:00:00.010Z", later)
	assert.Less(t, earlier, later)
}

func TestBetween_Inclusive(t *testing.T) {
	f := Between{Attribute: "createdAt", Lower: "b", Upper: "d"}
	assert.True(t, f.Match(map[string]any{"createdAt": "b"}))
	assert.True(t, f.Match(map[string]any{"createdAt": "d"}))
	assert.False(t, f.Match(map[string]any{"createdAt": "e"}))
	assert.False(t, f.Match(map[string]any{"createdAt": 3.0}))
}
