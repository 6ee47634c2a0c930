package admin

import (
	"strings"
	"time"

	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

func currentActor(c *gin.Context) (service.Actor, bool) {
	return handlershared.RequireActor(c)
}

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseIDParam(c, "id")
}

// parseDayNullable parses an optional YYYY-MM-DD value.
func parseDayNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := models.ParseDay(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func parseDayQuery(c *gin.Context, name string) (*time.Time, bool) {
	day, err := parseDayNullable(c.Query(name))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return nil, false
	}
	return day, true
}

func currentActorQuiet(c *gin.Context) (service.Actor, bool) {
	return handlershared.ActorFrom(c)
}
