package repository

import (
	"strings"
	"testing"
)

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres operator want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite operator want LIKE got %s", got)
	}
}

func TestBuildLikeCondition(t *testing.T) {
	condition, count := buildLikeCondition("sqlite", []string{"name", " ", "rut"})
	if count != 2 {
		t.Fatalf("count want 2 got %d", count)
	}
	if condition != "name LIKE ? OR rut LIKE ?" {
		t.Fatalf("unexpected condition %s", condition)
	}
	condition, _ = buildLikeCondition("postgres", []string{"claim_code"})
	if !strings.Contains(condition, "ILIKE") {
		t.Fatalf("postgres condition should use ILIKE, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%ana%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%ana%" {
			t.Fatalf("args[%d] want %%ana%% got %v", idx, arg)
		}
	}
}

func TestDayExpr(t *testing.T) {
	if got := dayExpr("picked_up_at"); got != "CAST(date(picked_up_at) AS TEXT)" {
		t.Fatalf("unexpected day expr %s", got)
	}
}
