package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/models"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := strings.TrimSpace(w2.Header().Get(requestIDHeader))
	if generated == "" || generated == "req-123" {
		t.Fatalf("a fresh request id should be generated, got %q", generated)
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/guard/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guard/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestJWTAuthMiddlewareCarriesGuardPlant(t *testing.T) {
	env := setupRouterTest(t)
	env.createUser(t, "guardia", constants.RoleGuard, "", &env.plantID)
	token := env.login(t, "guardia")

	r := gin.New()
	r.Use(JWTAuthMiddleware("router-test-secret", env.container.AuthService))
	r.GET("/whoami", func(c *gin.Context) {
		actor, _ := shared.ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": actor.Role, "plant_id": actor.PlantID})
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	var got struct {
		Role    string `json:"role"`
		PlantID uint   `json:"plant_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode failed: %v (%s)", err, w.Body.String())
	}
	if got.Role != constants.RoleGuard || got.PlantID != env.plantID {
		t.Fatalf("actor want guard at plant %d got %+v", env.plantID, got)
	}
}

func TestGuardRoutesPinnedToOwnPlant(t *testing.T) {
	env := setupRouterTest(t)
	var other models.Plant
	if err := models.DB.Where("code = ?", "valparaiso_bif").First(&other).Error; err != nil {
		t.Fatalf("load plant failed: %v", err)
	}
	env.createUser(t, "admin", constants.RoleAdmin, "", nil)
	env.createUser(t, "guardia.cb", constants.RoleGuard, "", &env.plantID)
	env.createUser(t, "guardia.bif", constants.RoleGuard, "", &other.ID)
	admin := env.login(t, "admin")
	local := env.login(t, "guardia.cb")
	remote := env.login(t, "guardia.bif")

	env.createCampaign(t, admin, "12.345.678-5,Ana Pérez,Indefinido,")

	lookup := fmt.Sprintf("/api/v1/guard/lookup?rut=12345678-5&plant_id=%d", env.plantID)
	if resp := env.do(t, http.MethodGet, lookup, remote, nil); resp.StatusCode != 404 {
		t.Fatalf("guard at another plant asking for plant_id want 404 got %d", resp.StatusCode)
	}
	resp := env.do(t, http.MethodGet, "/api/v1/guard/lookup?rut=12345678-5", local, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("local lookup failed: %d %s", resp.StatusCode, resp.Msg)
	}
	var found struct {
		Worker struct {
			ID uint `json:"id"`
		} `json:"worker"`
	}
	if err := json.Unmarshal(resp.Data, &found); err != nil || found.Worker.ID == 0 {
		t.Fatalf("decode lookup failed: %v (%s)", err, string(resp.Data))
	}

	confirm := map[string]interface{}{"worker_id": found.Worker.ID, "plant_id": env.plantID}
	if resp := env.do(t, http.MethodPost, "/api/v1/guard/pickups", remote, confirm); resp.StatusCode != 403 {
		t.Fatalf("remote guard confirm want 403 got %d", resp.StatusCode)
	}
	adminAtOther := map[string]interface{}{"worker_id": found.Worker.ID, "plant_id": other.ID}
	if resp := env.do(t, http.MethodPost, "/api/v1/guard/pickups", admin, adminAtOther); resp.StatusCode != 403 {
		t.Fatalf("admin confirming at the wrong plant want 403 got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodPost, "/api/v1/guard/pickups", local, map[string]interface{}{"worker_id": found.Worker.ID}); resp.StatusCode != 0 {
		t.Fatalf("local confirm failed: %d %s", resp.StatusCode, resp.Msg)
	}

	recent := fmt.Sprintf("/api/v1/guard/pickups/recent?plant_id=%d", env.plantID)
	resp = env.do(t, http.MethodGet, recent, remote, nil)
	var items []json.RawMessage
	if err := json.Unmarshal(resp.Data, &items); err != nil {
		t.Fatalf("decode recent failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("remote guard should only see its own plant, got %d pickups", len(items))
	}
	resp = env.do(t, http.MethodGet, recent, admin, nil)
	if err := json.Unmarshal(resp.Data, &items); err != nil || len(items) != 1 {
		t.Fatalf("admin should see the pickup at the requested plant, got %d (%v)", len(items), err)
	}
}
