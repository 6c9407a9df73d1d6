package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/vts-portal-api/internal/logger"
	"github.com/wichananm65/vts-portal-api/internal/store"
)

type Service struct {
	repo Repository
	cost int
	log  *logger.Logger

	// compared against for unknown emails
	dummyHash []byte
}

func NewService(repo Repository, cost int, log *logger.Logger) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("vts-portal-placeholder"), cost)
	return &Service{repo: repo, cost: cost, log: log, dummyHash: dummy}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("User service: list failed", "error", err)
		return nil, err
	}
	for i := range users {
		users[i] = sanitizeUser(users[i])
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	return sanitizeUser(user), nil
}

// Create hashes the password and stores the user. ID and CreatedAt are
// assigned by the caller.
func (s *Service) Create(ctx context.Context, user User) (User, error) {
	hashed, err := s.hash(user.Password)
	if err != nil {
		return User{}, err
	}
	user.Password = hashed

	if err := s.repo.Save(ctx, user); err != nil {
		s.log.Error("User service: create failed", "id", user.ID, "error", err)
		return User{}, err
	}
	s.log.Info("User service: user created", "id", user.ID)
	return sanitizeUser(user), nil
}

// Authenticate finds the user by email and verifies the password. Both
// failure outcomes cost one bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.log.Info("User service: login failed", "reason", "unknown email")
		return User{}, ErrIdentityNotFound
	}
	if err != nil {
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.log.Info("User service: login failed", "id", user.ID, "reason", "password mismatch")
		return User{}, ErrCredentialMismatch
	}
	return sanitizeUser(user), nil
}

// CheckPassword returns nil on a match, ErrNotFound or ErrCredentialMismatch
// otherwise.
func (s *Service) CheckPassword(ctx context.Context, id, password string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return ErrCredentialMismatch
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id string, details Details) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	user.Name = details.Name
	user.Email = details.Email
	user.Phone = details.Phone
	user.Avatar = details.Avatar

	if err := s.repo.Save(ctx, user); err != nil {
		s.log.Error("User service: update failed", "id", id, "error", err)
		return User{}, err
	}
	return sanitizeUser(user), nil
}

func (s *Service) UpdateEmail(ctx context.Context, id, email string) error {
	return s.updateField(ctx, id, "email", email)
}

func (s *Service) UpdatePhone(ctx context.Context, id, phone string) error {
	return s.updateField(ctx, id, "phone", phone)
}

func (s *Service) UpdateRole(ctx context.Context, id, role string) error {
	return s.updateField(ctx, id, "role", role)
}

func (s *Service) UpdatePassword(ctx context.Context, id, password string) error {
	hashed, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.updateField(ctx, id, "password", hashed)
}

func (s *Service) updateField(ctx context.Context, id, field string, value any) error {
	if err := s.repo.UpdateFields(ctx, id, store.Attributes{field: value}); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("User service: field update failed", "id", id, "field", field, "error", err)
		}
		return err
	}
	s.log.Info("User service: field updated", "id", id, "field", field)
	return nil
}

// Delete succeeds whether or not the user exists.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("User service: delete failed", "id", id, "error", err)
		return err
	}
	s.log.Info("User service: user deleted", "id", id)
	return nil
}

// SaveResume sets the resume on an existing user.
func (s *Service) SaveResume(ctx context.Context, id string, resume Resume) (Profile, error) {
	if err := s.repo.UpdateFields(ctx, id, store.Attributes{"resume": resume}); err != nil {
		return Profile{}, err
	}
	return s.Profile(ctx, id)
}

func (s *Service) Profile(ctx context.Context, id string) (Profile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return user.profile(), nil
}

// AuthorProfile resolves a post's authorId into its public byline.
func (s *Service) AuthorProfile(ctx context.Context, id string) (AuthorProps, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AuthorProps{}, err
	}
	return user.authorProps(), nil
}

func (s *Service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
