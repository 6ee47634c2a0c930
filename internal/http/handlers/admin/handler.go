package admin

import (
	"time"

	"github.com/tresmontes-cajas/internal/provider"
)

// Handler serves the admin API.
type Handler struct {
	*provider.Container
	now func() time.Time
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c, now: time.Now}
}
