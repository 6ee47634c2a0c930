package shared

import (
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/i18n"
	"github.com/tresmontes-cajas/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger tagged with the request id.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError writes the message for key in the caller's locale.
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	respond(c, response.WrapKeyedError(code, key, msg, err))
}

// RespondErrorWithMsg is RespondError with a literal message.
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respond(c, response.WrapError(code, msg, err))
}

func respond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		logHandlerError(c, appErr)
	}
	appErr.Write(c)
}

// logHandlerError logs caller mistakes at warn and server failures at error,
// tagged with the route and the acting user.
func logHandlerError(c *gin.Context, appErr *response.AppError) {
	fields := []interface{}{
		"code", appErr.Code,
		"message", appErr.Message,
		"error", appErr.Err,
	}
	if appErr.Key != "" {
		fields = append(fields, "key", appErr.Key)
	}
	if c != nil {
		if c.Request != nil {
			fields = append(fields, "method", c.Request.Method, "route", c.FullPath())
		}
		if actor, ok := ActorFrom(c); ok {
			fields = append(fields, "user_id", actor.UserID, "role", actor.Role)
			if actor.PlantID != 0 {
				fields = append(fields, "plant_id", actor.PlantID)
			}
		}
	}
	log := RequestLog(c)
	if appErr.Internal() {
		log.Errorw("handler_error", fields...)
		return
	}
	log.Warnw("handler_rejected", fields...)
}
