package public

import (
	"time"

	"github.com/tresmontes-cajas/internal/provider"
)

// Handler serves the non-admin API: login, the guard desk and the worker portal.
type Handler struct {
	*provider.Container
	now func() time.Time
}

// New creates the handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c, now: time.Now}
}
