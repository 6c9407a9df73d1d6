package user

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/vts-portal-api/internal/auth"
	"github.com/wichananm65/vts-portal-api/internal/request"
	"github.com/wichananm65/vts-portal-api/internal/store"
)

// TokenIssuer signs the bearer token returned on login.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

type Handler struct {
	service *Service
	tokens  TokenIssuer
	now     func() time.Time
	newID   func() string
}

type createRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    string  `json:"phone"`
	Avatar   string  `json:"avatar"`
	Resume   *Resume `json:"resume"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User
	Token string `json:"token,omitempty"`
}

type updateRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type phoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type checkPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// NewHandler builds the user routes. tokens may be nil, in which case login
// returns no token.
func NewHandler(service *Service, tokens TokenIssuer) *Handler {
	return &Handler{service: service, tokens: tokens, now: time.Now, newID: uuid.NewString}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/users", h.createUser)
	app.Get("/users", h.getUsers)
	app.Post("/users/login", h.login)
	app.Get("/users/password/:id", h.checkPassword)
	app.Post("/users/password/:id", h.checkPassword)
	app.Get("/users/resume/:id", h.getResume)
	app.Get("/users/:id", h.getUser)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Put("/users/update/:id", h.updateUser)
	app.Put("/users/email/:id", h.updateEmail)
	app.Patch("/users/phone/:id", h.updatePhone)
	app.Patch("/users/role/:id", h.updateRole)
	app.Patch("/users/password/:id", h.updatePassword)
	app.Delete("/users/:id", h.deleteUser)
	app.Post("/users/resume/:id", h.createResume)
	app.Put("/users/resume/:id", h.updateResume)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	var payload createRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}

	created, err := h.service.Create(c.UserContext(), User{
		ID:        h.newID(),
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  payload.Password,
		Phone:     payload.Phone,
		Role:      DefaultRole,
		Avatar:    payload.Avatar,
		Resume:    payload.Resume,
		CreatedAt: store.Timestamp(h.now()),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	user, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) login(c *fiber.Ctx) error {
	var payload loginRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}

	user, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if errors.Is(err, ErrIdentityNotFound) || errors.Is(err, ErrCredentialMismatch) {
		return request.Message(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return h.fail(c, err)
	}

	resp := loginResponse{User: user}
	if h.tokens != nil {
		resp.Token, err = h.tokens.Issue(user.ID, user.Role)
		if err != nil {
			return request.Message(c, fiber.StatusInternalServerError, "failed to generate token")
		}
	}
	return c.JSON(resp)
}

func (h *Handler) checkPassword(c *fiber.Ctx) error {
	var payload checkPasswordRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}

	id := c.Params("id")
	err := h.service.CheckPassword(c.UserContext(), id, payload.Password)
	if errors.Is(err, ErrCredentialMismatch) {
		return request.Message(c, fiber.StatusUnauthorized, "invalid password")
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "valid": true})
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownerOrAdmin(c, id) {
		return forbidden(c)
	}
	var payload updateRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}

	user, err := h.service.Update(c.UserContext(), id, Details{
		Name:   payload.Name,
		Email:  payload.Email,
		Phone:  payload.Phone,
		Avatar: payload.Avatar,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) updateEmail(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownerOrAdmin(c, id) {
		return forbidden(c)
	}
	var payload emailRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	if err := h.service.UpdateEmail(c.UserContext(), id, payload.Email); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "email": payload.Email})
}

func (h *Handler) updatePhone(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownerOrAdmin(c, id) {
		return forbidden(c)
	}
	var payload phoneRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	if err := h.service.UpdatePhone(c.UserContext(), id, payload.Phone); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "phone": payload.Phone})
}

func (h *Handler) updateRole(c *fiber.Ctx) error {
	if caller, ok := auth.Caller(c); ok && !caller.IsAdmin() {
		return forbidden(c)
	}
	var payload roleRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	id := c.Params("id")
	if err := h.service.UpdateRole(c.UserContext(), id, payload.Role); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "role": payload.Role})
}

func (h *Handler) updatePassword(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownerOrAdmin(c, id) {
		return forbidden(c)
	}
	var payload passwordRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	if err := h.service.UpdatePassword(c.UserContext(), id, payload.Password); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.ownerOrAdmin(c, id) {
		return forbidden(c)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) createResume(c *fiber.Ctx) error {
	return h.saveResume(c, fiber.StatusCreated)
}

func (h *Handler) updateResume(c *fiber.Ctx) error {
	return h.saveResume(c, fiber.StatusOK)
}

func (h *Handler) saveResume(c *fiber.Ctx, status int) error {
	id := c.Params("id")
	if !h.ownerOrAdmin(c, id) {
		return forbidden(c)
	}
	var payload Resume
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	profile, err := h.service.SaveResume(c.UserContext(), id, payload)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(status).JSON(profile)
}

func (h *Handler) getResume(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// ownerOrAdmin reports whether the verified caller may modify user id.
// Requests without a token only reach here when auth is not enforced.
func (h *Handler) ownerOrAdmin(c *fiber.Ctx, id string) bool {
	caller, ok := auth.Caller(c)
	if !ok {
		return true
	}
	return caller.IsAdmin() || (caller.UserID != "" && caller.UserID == id)
}

func forbidden(c *fiber.Ctx) error {
	return request.Message(c, fiber.StatusForbidden, "forbidden")
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return request.Message(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return request.Message(c, fiber.StatusBadRequest, err.Error())
	default:
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}
}
