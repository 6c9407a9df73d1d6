package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/vts-portal-api/internal/logger"
	"github.com/wichananm65/vts-portal-api/internal/request"
)

// Store is the object storage the handler talks to.
type Store interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, key string) error
}

type Handler struct {
	store Store
	log   *logger.Logger
}

// NewHandler accepts a nil store; every route then answers 503.
func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/media/:key", h.download)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/media", h.upload)
	app.Delete("/media/:key", h.delete)
}

func (h *Handler) available() bool {
	return h.store != nil
}

func (h *Handler) upload(c *fiber.Ctx) error {
	if !h.available() {
		return request.Message(c, fiber.StatusServiceUnavailable, "media storage is not configured")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return request.Message(c, fiber.StatusBadRequest, "file is required")
	}
	f, err := file.Open()
	if err != nil {
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	defer f.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := uuid.NewString() + strings.ToLower(path.Ext(file.Filename))

	if err := h.store.Upload(c.UserContext(), key, contentType, f, file.Size); err != nil {
		h.log.Error("Media: upload failed", "key", key, "error", err)
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}

	h.log.Info("Media: object stored", "key", key, "size", file.Size)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key": key,
		"url": "/media/" + key,
	})
}

func (h *Handler) download(c *fiber.Ctx) error {
	if !h.available() {
		return request.Message(c, fiber.StatusServiceUnavailable, "media storage is not configured")
	}

	rc, obj, err := h.store.Download(c.UserContext(), c.Params("key"))
	if errors.Is(err, ErrNotFound) {
		return request.Message(c, fiber.StatusNotFound, "object not found")
	}
	if err != nil {
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	return c.Send(body)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	if !h.available() {
		return request.Message(c, fiber.StatusServiceUnavailable, "media storage is not configured")
	}

	key := c.Params("key")
	if err := h.store.Delete(c.UserContext(), key); err != nil {
		return request.Message(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"key": key})
}
