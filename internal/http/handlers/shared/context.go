package shared

import (
	"strconv"
	"strings"

	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// SetActor stores the authenticated caller.
func SetActor(c *gin.Context, actor service.Actor) {
	c.Set(actorContextKey, actor)
	c.Set("user_id", actor.UserID)
}

// ActorFrom reads the caller stored by the auth middleware.
func ActorFrom(c *gin.Context) (service.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return service.Actor{}, false
	}
	actor, ok := value.(service.Actor)
	return actor, ok
}

// RequireActor reads the caller or writes an unauthorized response.
func RequireActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := ActorFrom(c)
	if !ok || actor.UserID == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return service.Actor{}, false
	}
	return actor, true
}

// ParseIDParam parses a positive numeric path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}

// QueryUint parses an optional numeric query parameter; missing or bad values give 0.
func QueryUint(c *gin.Context, name string) uint {
	return ParseUintString(c.Query(name))
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(c *gin.Context, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// ParseUintString parses a numeric form value; missing or bad values give 0.
func ParseUintString(raw string) uint {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
