package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.L
	logger.L = zap.New(core)
	t.Cleanup(func() { logger.L = previous })
	return logs
}

func TestRespondErrorLogsByCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/guard/pickups", nil)
	c.Set("request_id", "req-1")
	SetActor(c, service.Actor{UserID: 7, Role: "guardia", PlantID: 2})

	RespondError(c, response.CodeForbidden, "error.plant_mismatch", service.ErrPlantMismatch)
	RespondError(c, response.CodeInternal, "error.internal", errors.New("db down"))
	RespondError(c, response.CodeBadRequest, "error.id_invalid", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("want 2 log entries got %d", len(entries))
	}
	rejected := entries[0]
	if rejected.Level != zapcore.WarnLevel || rejected.Message != "handler_rejected" {
		t.Fatalf("client error should log at warn: %+v", rejected)
	}
	fields := rejected.ContextMap()
	if fields["key"] != "error.plant_mismatch" || fields["role"] != "guardia" || fields["request_id"] != "req-1" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if fields["plant_id"] != uint64(2) || fields["method"] != http.MethodPost {
		t.Fatalf("unexpected actor fields %v", fields)
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].Message != "handler_error" {
		t.Fatalf("server error should log at error: %+v", entries[1])
	}
}

func TestAppErrorClassification(t *testing.T) {
	cause := errors.New("boom")
	keyed := response.WrapKeyedError(response.CodeConflict, "error.already_picked_up", "Caja ya retirada", cause)
	if keyed.Internal() || !errors.Is(keyed, cause) || keyed.Key != "error.already_picked_up" {
		t.Fatalf("unexpected keyed error %+v", keyed)
	}
	if keyed.Error() != "Caja ya retirada: boom" {
		t.Fatalf("unexpected message %q", keyed.Error())
	}
	if !response.WrapError(response.CodeInternal, "x", nil).Internal() {
		t.Fatalf("CodeInternal should be internal")
	}
}
