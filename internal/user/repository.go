package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/vts-portal-api/internal/store"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrIdentityNotFound   = errors.New("no user with that email")
	ErrCredentialMismatch = errors.New("password does not match")
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// FindByEmail returns the lowest-id user with the email.
	FindByEmail(ctx context.Context, email string) (User, error)
	Save(ctx context.Context, user User) error
	UpdateFields(ctx context.Context, id string, attrs store.Attributes) error
	Delete(ctx context.Context, id string) error
}

// StoreRepository keeps users in one table of a store backend.
type StoreRepository struct {
	table *store.Table[User]
}

var _ Repository = (*StoreRepository)(nil)

func NewStoreRepository(backend store.Backend, table string) *StoreRepository {
	return &StoreRepository{table: store.NewTable[User](backend, table)}
}

func (r *StoreRepository) List(ctx context.Context) ([]User, error) {
	users, err := r.table.Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (User, error) {
	user, found, err := r.table.Get(ctx, id)
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	if !found {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *StoreRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	users, err := r.table.Scan(ctx, store.Equals{Attribute: "email", Value: email})
	if err != nil {
		return User{}, fmt.Errorf("scan users by email: %w", err)
	}
	if len(users) == 0 {
		return User{}, ErrNotFound
	}
	return users[0], nil
}

func (r *StoreRepository) Save(ctx context.Context, user User) error {
	if err := r.table.Put(ctx, user.ID, user); err != nil {
		return fmt.Errorf("put user %s: %w", user.ID, err)
	}
	return nil
}

func (r *StoreRepository) UpdateFields(ctx context.Context, id string, attrs store.Attributes) error {
	err := r.table.Update(ctx, id, attrs)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
