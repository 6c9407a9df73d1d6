package post

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/vts-portal-api/internal/store"
	"github.com/wichananm65/vts-portal-api/internal/testutil"
	"github.com/wichananm65/vts-portal-api/internal/user"
)

type fakeAuthors struct {
	props map[string]user.AuthorProps
	err   error
	calls int
}

func (f *fakeAuthors) AuthorProfile(_ context.Context, id string) (user.AuthorProps, error) {
	f.calls++
	if f.err != nil {
		return user.AuthorProps{}, f.err
	}
	p, ok := f.props[id]
	if !ok {
		return user.AuthorProps{}, user.ErrNotFound
	}
	return p, nil
}

func newTestService(t *testing.T, authors AuthorResolver) *Service {
	t.Helper()
	return NewService(NewStoreRepository(store.NewMemory(), "posts"), authors, testutil.NoopLogger())
}

func seed(t *testing.T, svc *Service, posts ...Post) {
	t.Helper()
	for _, p := range posts {
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}
}

func TestService_AdjacentPostsWrapAround(t *testing.T) {
	svc := newTestService(t, &fakeAuthors{})
	// keys deliberately out of chronological order
	seed(t, svc,
		Post{ID: "z", Title: "A", CreatedAt: "2024-01-01T00:00:00.000Z"},
		Post{ID: "a", Title: "B", CreatedAt: "2024-01-02T00:00:00.000Z"},
		Post{ID: "m", Title: "C", CreatedAt: "2024-01-03T00:00:00.000Z"},
	)
	ctx := context.Background()

	tests := []struct {
		id, prev, next string
	}{
		{"z", "m", "a"},
		{"a", "z", "m"},
		{"m", "a", "z"},
	}
	for _, tt := range tests {
		adj, err := svc.AdjacentPosts(ctx, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.prev, adj.PrevPost.ID, "prev of %s", tt.id)
		assert.Equal(t, tt.next, adj.NextPost.ID, "next of %s", tt.id)
	}

	_, err := svc.AdjacentPosts(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_AdjacentPostsSingleAndTies(t *testing.T) {
	svc := newTestService(t, &fakeAuthors{})
	ctx := context.Background()
	seed(t, svc, Post{ID: "only", CreatedAt: "2024-01-01T00:00:00.000Z"})

	adj, err := svc.AdjacentPosts(ctx, "only")
	require.NoError(t, err)
	assert.Equal(t, "only", adj.PrevPost.ID)
	assert.Equal(t, "only", adj.NextPost.ID)

	// equal timestamps keep key order
	seed(t, svc, Post{ID: "p", CreatedAt: "2024-01-01T00:00:00.000Z"})
	adj, err = svc.AdjacentPosts(ctx, "only")
	require.NoError(t, err)
	assert.Equal(t, "p", adj.NextPost.ID)
	assert.Equal(t, "p", adj.PrevPost.ID)
}

func TestService_PartialImageUpdateLeavesRest(t *testing.T) {
	svc := newTestService(t, &fakeAuthors{})
	ctx := context.Background()
	seed(t, svc, Post{ID: "p1", Title: "T", Content: "C", Description: "D", Tags: []string{"go", "kv"}, Image: "old.png", CreatedAt: "2024-01-01T00:00:00.000Z"})

	require.NoError(t, svc.UpdateFields(ctx, "p1", store.Attributes{"image": "new.png"}))

	got, err := svc.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "new.png", got.Image)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, "D", got.Description)
	assert.Equal(t, []string{"go", "kv"}, got.Tags)

	assert.ErrorIs(t, svc.UpdateFields(ctx, "missing", store.Attributes{"image": "x"}), ErrNotFound)
}

func TestService_ReplaceKeepsIdentity(t *testing.T) {
	svc := newTestService(t, &fakeAuthors{})
	ctx := context.Background()
	seed(t, svc, Post{ID: "p1", Title: "T", Tags: []string{"a"}, CreatedAt: "2024-01-01T00:00:00.000Z"})

	got, err := svc.Replace(ctx, "p1", Post{ID: "hijack", Title: "New", CreatedAt: "1999-01-01T00:00:00.000Z"})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", got.CreatedAt)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, []string{}, got.Tags)

	_, err = svc.Replace(ctx, "missing", Post{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByID(ctx, "hijack")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteTwice(t *testing.T) {
	svc := newTestService(t, &fakeAuthors{})
	ctx := context.Background()
	seed(t, svc, Post{ID: "p1"})

	require.NoError(t, svc.Delete(ctx, "p1"))
	require.NoError(t, svc.Delete(ctx, "p1"))
	_, err := svc.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Cards(t *testing.T) {
	authors := &fakeAuthors{props: map[string]user.AuthorProps{
		"u1": {Name: "Ana", Avatar: "ana.png", SocialMedia: []user.SocialMedia{}},
	}}
	svc := newTestService(t, authors)
	ctx := context.Background()
	seed(t, svc,
		Post{ID: "p1", Title: "One", Content: "body", AuthorID: "u1", CreatedAt: "2024-01-01T00:00:00.000Z"},
		Post{ID: "p2", Title: "Two", Content: "body", AuthorID: "u1", CreatedAt: "2024-01-02T00:00:00.000Z"},
		Post{ID: "p3", Title: "Three", Content: "body", AuthorID: "gone", CreatedAt: "2024-01-03T00:00:00.000Z"},
	)

	cards, err := svc.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	require.NotNil(t, cards[0].AuthorProps)
	assert.Equal(t, "Ana", cards[0].AuthorProps.Name)
	assert.Equal(t, []string{}, cards[0].Tags)
	assert.Nil(t, cards[2].AuthorProps)
	// one lookup per distinct author
	assert.Equal(t, 2, authors.calls)

	card, err := svc.Card(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Two", card.Title)
	assert.Empty(t, card.ID)
	assert.Empty(t, card.CreatedAt)
	require.NotNil(t, card.AuthorProps)
	assert.Equal(t, "p1", cards[0].ID)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", cards[0].CreatedAt)

	_, err = svc.Card(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	authors.err = errors.New("store down")
	_, err = svc.Cards(ctx)
	assert.EqualError(t, err, "store down")
}
