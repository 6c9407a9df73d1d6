package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/vts-portal-api/internal/store"
)

var ErrNotFound = errors.New("post not found")

type Repository interface {
	List(ctx context.Context) ([]Post, error)
	GetByID(ctx context.Context, id string) (Post, error)
	Save(ctx context.Context, post Post) error
	UpdateFields(ctx context.Context, id string, attrs store.Attributes) error
	Delete(ctx context.Context, id string) error
}

type StoreRepository struct {
	table *store.Table[Post]
}

var _ Repository = (*StoreRepository)(nil)

func NewStoreRepository(backend store.Backend, table string) *StoreRepository {
	return &StoreRepository{table: store.NewTable[Post](backend, table)}
}

func (r *StoreRepository) List(ctx context.Context) ([]Post, error) {
	posts, err := r.table.Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (Post, error) {
	post, found, err := r.table.Get(ctx, id)
	if err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	if !found {
		return Post{}, ErrNotFound
	}
	return post, nil
}

func (r *StoreRepository) Save(ctx context.Context, post Post) error {
	if err := r.table.Put(ctx, post.ID, post); err != nil {
		return fmt.Errorf("put post %s: %w", post.ID, err)
	}
	return nil
}

func (r *StoreRepository) UpdateFields(ctx context.Context, id string, attrs store.Attributes) error {
	err := r.table.Update(ctx, id, attrs)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update post %s: %w", id, err)
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
