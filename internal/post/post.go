package post

import "github.com/wichananm65/vts-portal-api/internal/user"

type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	AuthorID    string   `json:"authorId"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
}

// Card is the teaser projection of a post with its author's byline. The
// author is exposed only through AuthorProps. Single-card lookups leave out
// ID and CreatedAt, which the caller already has.
type Card struct {
	ID          string            `json:"id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Tags        []string          `json:"tags"`
	AuthorID    string            `json:"-"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	AuthorProps *user.AuthorProps `json:"authorProps"`
}

type Adjacent struct {
	PrevPost Post `json:"prevPost"`
	NextPost Post `json:"nextPost"`
}

func (p Post) card() Card {
	return Card{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Tags:        normalizeTags(p.Tags),
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
	}
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
