package cache

import (
	"context"
	"testing"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetCampaignStats(ctx, 1, map[string]int{"total": 3}); err != nil {
		t.Fatalf("set on disabled cache should not fail: %v", err)
	}
	var dest map[string]int
	hit, err := GetCampaignStats(ctx, 1, &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if err := InvalidateCampaignStats(ctx, 1, 2); err != nil {
		t.Fatalf("invalidate on disabled cache should not fail: %v", err)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	plantID := uint(3)
	user := &models.User{ID: 7, Role: "guardia", PlantID: &plantID, IsActive: true, TokenVersion: 2}
	state := BuildUserAuthState(user)
	if state.UserID != 7 || state.PlantID != 3 || state.Role != "guardia" || state.TokenVersion != 2 {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.TokenInvalidBefore != 0 {
		t.Fatalf("token_invalid_before should be zero when unset")
	}
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should build nil state")
	}
}

func TestBuildKey(t *testing.T) {
	redisPrefix = "cajas"
	if got := buildKey("stats:campaign:1"); got != "cajas:stats:campaign:1" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := buildKey(" "); got != "cajas" {
		t.Fatalf("blank key should map to prefix, got %s", got)
	}
}
