package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tresmontes-cajas/internal/repository"
)

func TestUserCreateValidation(t *testing.T) {
	env := setupServiceTest(t)
	plantID := env.plants["casablanca"].ID

	cases := []struct {
		name  string
		input CreateUserInput
		want  error
	}{
		{"bad role", CreateUserInput{Username: "x", Password: "cajas2026", Role: "root"}, ErrInvalidRole},
		{"guard without plant", CreateUserInput{Username: "g", Password: "cajas2026", Role: "guardia"}, ErrPlantRequired},
		{"bad rut", CreateUserInput{Username: "w", Password: "cajas2026", Role: "trabajador", RUT: "12.345.678-9"}, ErrInvalidRUT},
		{"weak password", CreateUserInput{Username: "w", Password: "corta", Role: "trabajador"}, ErrWeakPassword},
	}
	for _, tc := range cases {
		if _, err := env.users.Create(testAdmin, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v got %v", tc.name, tc.want, err)
		}
	}

	guard, err := env.users.Create(testAdmin, CreateUserInput{Username: "guardia1", Password: "cajas2026", Role: "guardia", PlantID: &plantID})
	if err != nil {
		t.Fatalf("create guard failed: %v", err)
	}
	if guard.PlantID == nil || *guard.PlantID != plantID {
		t.Fatalf("guard plant not stored: %+v", guard)
	}
	if _, err := env.users.Create(testAdmin, CreateUserInput{Username: "GUARDIA1", Password: "cajas2026", Role: "admin"}); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate username want ErrUsernameExists got %v", err)
	}

	worker, err := env.users.Create(testAdmin, CreateUserInput{Username: "ana", Password: "cajas2026", Role: "trabajador", RUT: "123456785"})
	if err != nil {
		t.Fatalf("create worker account failed: %v", err)
	}
	if worker.RUTValue() != "12.345.678-5" {
		t.Fatalf("rut not canonical: %s", worker.RUTValue())
	}
	if _, err := env.users.Create(testAdmin, CreateUserInput{Username: "ana2", Password: "cajas2026", Role: "trabajador", RUT: "12.345.678-5"}); !errors.Is(err, ErrRUTExists) {
		t.Fatalf("duplicate rut want ErrRUTExists got %v", err)
	}

	logs, total, err := env.audit.List(repository.AuditLogListFilter{Page: 1, PageSize: 10, Action: "user_create"})
	if err != nil || total != 2 || len(logs) != 2 {
		t.Fatalf("want 2 user_create entries got %d (%v)", total, err)
	}
}

func TestUserUpdateRevokesTokens(t *testing.T) {
	env := setupServiceTest(t)
	user, err := env.users.Create(testAdmin, CreateUserInput{Username: "ana", Password: "cajas2026", Role: "trabajador"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	name := "Ana Pérez"
	updated, err := env.users.Update(context.Background(), testAdmin, user.ID, UpdateUserInput{FullName: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.TokenVersion != 0 {
		t.Fatalf("name change must not revoke tokens")
	}

	role := "guardia"
	if _, err := env.users.Update(context.Background(), testAdmin, user.ID, UpdateUserInput{Role: &role}); !errors.Is(err, ErrPlantRequired) {
		t.Fatalf("guard without plant want ErrPlantRequired got %v", err)
	}
	plantID := env.plants["valparaiso_bic"].ID
	updated, err = env.users.Update(context.Background(), testAdmin, user.ID, UpdateUserInput{Role: &role, PlantID: &plantID})
	if err != nil {
		t.Fatalf("role update failed: %v", err)
	}
	if updated.TokenVersion != 1 || updated.TokenInvalidBefore == nil {
		t.Fatalf("role change should revoke tokens: %+v", updated)
	}

	if err := env.users.Deactivate(context.Background(), testAdmin, user.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	stored, err := env.users.Get(user.ID)
	if err != nil || stored.IsActive || stored.TokenVersion != 2 {
		t.Fatalf("deactivated user unexpected: %+v %v", stored, err)
	}
	if err := env.users.Deactivate(context.Background(), Actor{UserID: user.ID, Role: "admin"}, user.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self deactivate want ErrInvalidInput got %v", err)
	}
}

func TestAuthLoginAndTokens(t *testing.T) {
	env := setupServiceTest(t)
	auth := NewAuthService(env.cfg, repository.NewUserRepository(env.db), NewCaptchaService(env.cfg.Captcha))
	user, err := env.users.Create(testAdmin, CreateUserInput{Username: "guardia1", Password: "cajas2026", Role: "guardia", PlantID: &env.plants["casablanca"].ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := auth.Login(context.Background(), LoginInput{Username: "guardia1", Password: "otra2026"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password want ErrInvalidCredentials got %v", err)
	}
	if _, err := auth.Login(context.Background(), LoginInput{Username: "nadie", Password: "cajas2026"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}

	result, err := auth.Login(context.Background(), LoginInput{Username: "Guardia1", Password: "cajas2026"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := auth.ParseJWT(result.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != "guardia" || claims.PlantID != env.plants["casablanca"].ID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := auth.CheckClaims(context.Background(), claims); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	if err := auth.ChangePassword(context.Background(), user.ID, "cajas2026", "nueva2027"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, err := auth.CheckClaims(context.Background(), claims); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("old token want ErrInvalidToken got %v", err)
	}
	if err := auth.ChangePassword(context.Background(), user.ID, "cajas2026", "otra2028"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword got %v", err)
	}

	if err := env.users.Deactivate(context.Background(), testAdmin, user.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := auth.Login(context.Background(), LoginInput{Username: "guardia1", Password: "nueva2027"}); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled login want ErrUserDisabled got %v", err)
	}

	if _, err := auth.ParseJWT("not-a-token"); err == nil {
		t.Fatalf("garbage token should fail")
	}
}
