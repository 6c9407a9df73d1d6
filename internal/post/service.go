package post

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/wichananm65/vts-portal-api/internal/logger"
	"github.com/wichananm65/vts-portal-api/internal/store"
	"github.com/wichananm65/vts-portal-api/internal/user"
)

// AuthorResolver looks up the byline for an authorId.
type AuthorResolver interface {
	AuthorProfile(ctx context.Context, id string) (user.AuthorProps, error)
}

type Service struct {
	repo    Repository
	authors AuthorResolver
	log     *logger.Logger
}

func NewService(repo Repository, authors AuthorResolver, log *logger.Logger) *Service {
	return &Service{repo: repo, authors: authors, log: log}
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, post Post) (Post, error) {
	post.Tags = normalizeTags(post.Tags)
	if err := s.repo.Save(ctx, post); err != nil {
		s.log.Error("Post service: create failed", "id", post.ID, "error", err)
		return Post{}, err
	}
	s.log.Info("Post service: post created", "id", post.ID, "authorId", post.AuthorID)
	return post, nil
}

// Replace overwrites every mutable field of an existing post. ID and
// CreatedAt are kept.
func (s *Service) Replace(ctx context.Context, id string, post Post) (Post, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Post{}, err
	}
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	post.Tags = normalizeTags(post.Tags)

	if err := s.repo.Save(ctx, post); err != nil {
		s.log.Error("Post service: replace failed", "id", id, "error", err)
		return Post{}, err
	}
	return post, nil
}

// UpdateFields sets only the named attributes.
func (s *Service) UpdateFields(ctx context.Context, id string, attrs store.Attributes) error {
	if err := s.repo.UpdateFields(ctx, id, attrs); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error("Post service: partial update failed", "id", id, "error", err)
		}
		return err
	}
	return nil
}

// Delete succeeds whether or not the post exists.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("Post service: delete failed", "id", id, "error", err)
		return err
	}
	s.log.Info("Post service: post deleted", "id", id)
	return nil
}

// AdjacentPosts orders all posts by createdAt and returns the neighbours of
// id, wrapping at both ends. A lone post is its own neighbour.
func (s *Service) AdjacentPosts(ctx context.Context, id string) (Adjacent, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return Adjacent{}, err
	}
	slices.SortStableFunc(posts, func(a, b Post) int {
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	})

	i := slices.IndexFunc(posts, func(p Post) bool { return p.ID == id })
	if i < 0 {
		return Adjacent{}, ErrNotFound
	}
	n := len(posts)
	return Adjacent{
		PrevPost: posts[(i-1+n)%n],
		NextPost: posts[(i+1)%n],
	}, nil
}

func (s *Service) Card(ctx context.Context, id string) (Card, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Card{}, err
	}
	card, err := s.withAuthor(ctx, post.card(), map[string]*user.AuthorProps{})
	if err != nil {
		return Card{}, err
	}
	card.ID, card.CreatedAt = "", ""
	return card, nil
}

func (s *Service) Cards(ctx context.Context) ([]Card, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]*user.AuthorProps{}
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		card, err := s.withAuthor(ctx, p.card(), seen)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// withAuthor attaches the author's byline. A dangling authorId leaves it nil.
func (s *Service) withAuthor(ctx context.Context, card Card, seen map[string]*user.AuthorProps) (Card, error) {
	if card.AuthorID == "" {
		return card, nil
	}
	if props, ok := seen[card.AuthorID]; ok {
		card.AuthorProps = props
		return card, nil
	}
	props, err := s.authors.AuthorProfile(ctx, card.AuthorID)
	if errors.Is(err, user.ErrNotFound) {
		seen[card.AuthorID] = nil
		return card, nil
	}
	if err != nil {
		return Card{}, err
	}
	seen[card.AuthorID] = &props
	card.AuthorProps = &props
	return card, nil
}
