package testutil

import (
	"io"

	"github.com/wichananm65/vts-portal-api/internal/logger"
)

func NoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
