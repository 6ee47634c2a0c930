package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/rut"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

type stubKeyedError struct{}

func (stubKeyedError) Error() string { return "weak" }
func (stubKeyedError) Key() string { return "error.password_min_length" }
func (stubKeyedError) Args() []interface{} { return []interface{}{12} }

func respondTest(t *testing.T, lang string, err error) response.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?lang="+lang, nil)
	RespondServiceError(c, err)

	var body response.Response
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode body failed: %v", decodeErr)
	}
	return body
}

func TestRespondServiceErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("confirm: %w", service.ErrAlreadyPickedUp), response.CodeConflict, "Box already picked up"},
		{service.ErrWorkerNotFound, response.CodeNotFound, "Worker not found in active campaigns"},
		{fmt.Errorf("%w: %w", service.ErrInvalidRUT, rut.ErrChecksumMismatch), response.CodeBadRequest, "Invalid RUT: check digit mismatch"},
		{fmt.Errorf("boom"), response.CodeInternal, "Internal server error"},
	}
	for _, tc := range cases {
		body := respondTest(t, "en", tc.err)
		if body.StatusCode != tc.code {
			t.Fatalf("%v: want code %d, got %d", tc.err, tc.code, body.StatusCode)
		}
		if body.Msg != tc.msg {
			t.Fatalf("%v: want msg %q, got %q", tc.err, tc.msg, body.Msg)
		}
	}
}

func TestRespondServiceErrorUsesKeyedMessage(t *testing.T) {
	body := respondTest(t, "es", fmt.Errorf("update: %w", stubKeyedError{}))
	if body.StatusCode != response.CodeBadRequest {
		t.Fatalf("want 400, got %d", body.StatusCode)
	}
	if body.Msg != "La contraseña debe tener al menos 12 caracteres" {
		t.Fatalf("unexpected msg: %q", body.Msg)
	}
}
