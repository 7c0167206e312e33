package handler

import (
	"path/filepath"

	"authgate/config"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the HTML pages of the sign-in flow from http.staticDir.
type PageHandler struct {
	dir string
}

// NewPageHandler is the constructor for PageHandler, injected by Fx.
func NewPageHandler(cfg *config.Config) *PageHandler {
	return &PageHandler{dir: cfg.HTTP.StaticDir}
}

// Enabled reports whether a static directory is configured.
func (h *PageHandler) Enabled() bool {
	return h.dir != ""
}

// Dir is the configured static directory.
func (h *PageHandler) Dir() string {
	return h.dir
}

// Page returns a handler serving one file of the static directory.
func (h *PageHandler) Page(name string) echo.HandlerFunc {
	path := filepath.Join(h.dir, name)

	return func(c echo.Context) error {
		return c.File(path)
	}
}
