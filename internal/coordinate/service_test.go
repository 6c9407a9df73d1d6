package coordinate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/vts-portal-api/internal/store"
	"github.com/wichananm65/vts-portal-api/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStoreRepository(store.NewMemory(), "coords"), testutil.NoopLogger())
}

func at(minute int) time.Time {
	return time.Date(2024, 6, 1, 10, minute, 0, 0, time.UTC)
}

func TestService_BetweenIsInclusive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for i, minute := range []int{0, 5, 10, 15} {
		_, err := svc.Create(ctx, Coordinate{ID: string(rune('a' + i)), CreatedAt: store.Timestamp(at(minute)), Lat: 1, Lng: 2})
		require.NoError(t, err)
	}

	got, err := svc.Between(ctx, at(5), at(10))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	got, err = svc.Between(ctx, at(5), at(5))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = svc.Between(ctx, at(16), at(30))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.Between(ctx, at(10), at(5))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestService_BetweenNormalizesZones(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, Coordinate{ID: "a", CreatedAt: store.Timestamp(at(0))})
	require.NoError(t, err)

	bangkok := time.FixedZone("ICT", 7*3600)
	got, err := svc.Between(ctx, at(0).In(bangkok), at(1).In(bangkok))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_ReplaceAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, Coordinate{ID: "a", CreatedAt: "2024-06-01T10:00:00.000Z", Lat: 1, Lng: 1})
	require.NoError(t, err)

	got, err := svc.Replace(ctx, "a", 13.75, 100.5)
	require.NoError(t, err)
	assert.Equal(t, Coordinate{ID: "a", CreatedAt: "2024-06-01T10:00:00.000Z", Lat: 13.75, Lng: 100.5}, got)

	_, err = svc.Replace(ctx, "missing", 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "a"))
	require.NoError(t, svc.Delete(ctx, "a"))
	_, err = svc.GetByID(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
