package coordinate

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

// Pointers so that 0 is accepted and an absent field is not.
type positionRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now, newID: uuid.NewString}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/coords", h.getCoordinates)
	app.Get("/coords/:id", h.getCoordinate)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/coords", h.createCoordinate)
	app.Put("/coords/:id", h.replaceCoordinate)
	app.Delete("/coords/:id", h.deleteCoordinate)
}

// getCoordinates lists everything, or only the window given by the
// RFC 3339 start and end query parameters.
func (h *Handler) getCoordinates(c *fiber.Ctx) error {
	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw == "" && endRaw == "" {
		coords, err := h.service.List(c.UserContext())
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(coords)
	}
	if startRaw == "" || endRaw == "" {
		return request.Message(c, fiber.StatusBadRequest, "start and end must be given together")
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return request.Message(c, fiber.StatusBadRequest, "start is not an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return request.Message(c, fiber.StatusBadRequest, "end is not an RFC 3339 timestamp")
	}

	coords, err := h.service.Between(c.UserContext(), start, end)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(coords)
}

func (h *Handler) getCoordinate(c *fiber.Ctx) error {
	coord, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(coord)
}

func (h *Handler) createCoordinate(c *fiber.Ctx) error {
	var payload positionRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}

	coord, err := h.service.Create(c.UserContext(), Coordinate{
		ID:        h.newID(),
		CreatedAt: store.Timestamp(h.now()),
		Lat:       *payload.Lat,
		Lng:       *payload.Lng,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(coord)
}

func (h *Handler) replaceCoordinate(c *fiber.Ctx) error {
	var payload positionRequest
	if err := request.Bind(c, &payload); err != nil {
		return request.BadRequest(c, err)
	}
	coord, err := h.service.Replace(c.UserContext(), c.Params("id"), *payload.Lat, *payload.Lng)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(coord)
}

func (h *Handler) deleteCoordinate(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return request.Message(c, fiber.StatusNotFound, "coordinate not found")
	case errors.Is(err, ErrInvalidRange):
		return request.Message(c, fiber.StatusBadRequest, err.Error())
	default:
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}
}
