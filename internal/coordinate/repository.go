package coordinate

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/vts-portal-api/internal/store"
)

var ErrNotFound = errors.New("coordinate not found")

type Repository interface {
	List(ctx context.Context) ([]Coordinate, error)
	// Between returns coordinates whose createdAt lies in [start, end].
	Between(ctx context.Context, start, end string) ([]Coordinate, error)
	GetByID(ctx context.Context, id string) (Coordinate, error)
	Save(ctx context.Context, coord Coordinate) error
	Delete(ctx context.Context, id string) error
}

type StoreRepository struct {
	table *store.Table[Coordinate]
}

var _ Repository = (*StoreRepository)(nil)

func NewStoreRepository(backend store.Backend, table string) *StoreRepository {
	return &StoreRepository{table: store.NewTable[Coordinate](backend, table)}
}

func (r *StoreRepository) List(ctx context.Context) ([]Coordinate, error) {
	coords, err := r.table.Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scan coordinates: %w", err)
	}
	return coords, nil
}

func (r *StoreRepository) Between(ctx context.Context, start, end string) ([]Coordinate, error) {
	coords, err := r.table.Scan(ctx, store.Between{Attribute: "createdAt", Lower: start, Upper: end})
	if err != nil {
		return nil, fmt.Errorf("scan coordinates between %s and %s: %w", start, end, err)
	}
	return coords, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (Coordinate, error) {
	coord, found, err := r.table.Get(ctx, id)
	if err != nil {
		return Coordinate{}, fmt.Errorf("get coordinate %s: %w", id, err)
	}
	if !found {
		return Coordinate{}, ErrNotFound
	}
	return coord, nil
}

func (r *StoreRepository) Save(ctx context.Context, coord Coordinate) error {
	if err := r.table.Put(ctx, coord.ID, coord); err != nil {
		return fmt.Errorf("put coordinate %s: %w", coord.ID, err)
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete coordinate %s: %w", id, err)
	}
	return nil
}
