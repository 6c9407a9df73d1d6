package post

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/vts-portal-api/internal/request"
	"github.com/wichananm65/vts-portal-api/internal/store"
)

type Handler struct {
	service *Service
	now     func() time.Time
	newID   func() string
}

type postRequest struct {
	Title       string   `json:"title" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Description string   `json:"description"`
	AuthorID    string   `json:"authorId"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags" validate:"dive,required"`
}

type titleRequest struct {
	Title string `json:"title" validate:"required"`
}

type descriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

type contentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type imageRequest struct {
	Image string `json:"image" validate:"required"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now, newID: uuid.NewString}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/posts", h.getPosts)
	app.Get("/posts/card", h.getCards)
	app.Get("/posts/card/:id", h.getCard)
	app.Get("/posts/prevnext/:id", h.getAdjacent)
	app.Get("/posts/:id", h.getPost)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/posts", h.createPost)
	app.Put("/posts/title/:id", h.updateTitle)
	app.Put("/posts/description/:id", h.updateDescription)
	app.Put("/posts/content/:id", h.updateContent)
	app.Put("/posts/image/:id", h.updateImage)
	app.Put("/posts/:id", h.replacePost)
	app.Delete("/posts/:id", h.deletePost)
}

func (r postRequest) post() Post {
	return Post{
		Title:       r.Title,
		Content:     r.Content,
		Description: r.Description,
		AuthorID:    r.AuthorID,
		Image:       r.Image,
		Tags:        r.Tags,
	}
}

func (h *Handler) createPost(c *fiber.Ctx) error {
	var payload postRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}

	post := payload.post()
	post.ID = h.newID()
	post.CreatedAt = store.Timestamp(h.now())

	created, err := h.service.Create(c.UserContext(), post)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getPosts(c *fiber.Ctx) error {
	posts, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(posts)
}

func (h *Handler) getPost(c *fiber.Ctx) error {
	post, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handler) getCards(c *fiber.Ctx) error {
	cards, err := h.service.Cards(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cards)
}

func (h *Handler) getCard(c *fiber.Ctx) error {
	card, err := h.service.Card(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(card)
}

func (h *Handler) getAdjacent(c *fiber.Ctx) error {
	adjacent, err := h.service.AdjacentPosts(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(adjacent)
}

func (h *Handler) replacePost(c *fiber.Ctx) error {
	var payload postRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	post, err := h.service.Replace(c.UserContext(), c.Params("id"), payload.post())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handler) updateTitle(c *fiber.Ctx) error {
	var payload titleRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	return h.patch(c, store.Attributes{"title": payload.Title})
}

func (h *Handler) updateDescription(c *fiber.Ctx) error {
	var payload descriptionRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	return h.patch(c, store.Attributes{"description": payload.Description})
}

func (h *Handler) updateContent(c *fiber.Ctx) error {
	var payload contentRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	return h.patch(c, store.Attributes{"title": payload.Title, "content": payload.Content})
}

func (h *Handler) updateImage(c *fiber.Ctx) error {
	var payload imageRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	return h.patch(c, store.Attributes{"image": payload.Image})
}

// patch applies attrs and echoes them back with the post id.
func (h *Handler) patch(c *fiber.Ctx, attrs store.Attributes) error {
	id := c.Params("id")
	if err := h.service.UpdateFields(c.UserContext(), id, attrs); err != nil {
		return h.fail(c, err)
	}
	resp := fiber.Map{"id": id}
	for k, v := range attrs {
		resp[k] = v
	}
	return c.JSON(resp)
}

func (h *Handler) deletePost(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return request.Message(c, fiber.StatusNotFound, "post not found")
	}
	return request.Message(c, fiber.StatusInternalServerError, err.Error())
}
