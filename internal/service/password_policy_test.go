package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tresmontes-cajas/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true}
	owner := passwordOwner{Username: "ana.perez", RUT: "12.345.678-5"}
	cases := []struct {
		password string
		key      string
	}{
		{"Cajas2026", ""},
		{"Ca1", "error.password_min_length"},
		{"cajas2026", "error.password_require_upper"},
		{"CajasNavidad", "error.password_require_number"},
		{"Caja12345678", "error.password_contains_rut"},
		{"C12.345.678x", "error.password_contains_rut"},
		{"Caja1234567", ""},
		{"ANA.PEREZ2026", "error.password_contains_username"},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password, owner)
		if tc.key == "" {
			if err != nil {
				t.Fatalf("%q should pass, got %v", tc.password, err)
			}
			continue
		}
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("%q should be weak, got %v", tc.password, err)
		}
		var policyErr passwordPolicyError
		if !errors.As(err, &policyErr) || policyErr.Key() != tc.key {
			t.Fatalf("%q key want %s got %v", tc.password, tc.key, err)
		}
	}
}

func TestValidatePasswordEmptyPolicy(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x", passwordOwner{}); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
	err := validatePassword(config.PasswordPolicyConfig{}, "7654321", passwordOwner{RUT: "7654321-6"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("rut digits should be rejected without a policy, got %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, "ana2026", passwordOwner{Username: "ana"}); err != nil {
		t.Fatalf("short usernames are not checked, got %v", err)
	}
}

func TestUserPasswordCannotCarryRUT(t *testing.T) {
	env := setupServiceTest(t)
	_, err := env.users.Create(testAdmin, CreateUserInput{Username: "ana", Password: "ana12345678", Role: "trabajador", RUT: "12.345.678-5"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("create want ErrWeakPassword got %v", err)
	}

	user, err := env.users.Create(testAdmin, CreateUserInput{Username: "ana", Password: "cajas2026", Role: "trabajador", RUT: "12.345.678-5"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err = env.users.ResetPassword(context.Background(), testAdmin, user.ID, "navidad12345678")
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_contains_rut" {
		t.Fatalf("reset want password_contains_rut got %v", err)
	}
}
