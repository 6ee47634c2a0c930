package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRoleMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	cases := []struct {
		role   string
		path   string
		method string
		allow  bool
	}{
		{"admin", "/api/v1/admin/campaigns/3", "delete", true},
		{"admin", "/api/v1/guard/pickups/confirm", "POST", true},
		{"admin", "/api/v1/portal/status", "GET", false},
		{"guardia", "/api/v1/guard/lookup", "GET", true},
		{"guardia", "/api/v1/plants", "GET", true},
		{"guardia", "/api/v1/admin/campaigns", "GET", false},
		{"trabajador", "/api/v1/portal/authorizations", "POST", true},
		{"trabajador", "/api/v1/guard/lookup", "GET", false},
		{"trabajador", "/api/v1/admin/users", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceRole(tc.role, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s %s failed: %v", tc.role, tc.method, tc.path, err)
		}
		if allow != tc.allow {
			t.Fatalf("%s %s %s: want %v got %v", tc.role, tc.method, tc.path, tc.allow, allow)
		}
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("guardia")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("guard policies want 2 got %d: %v", len(policies), policies)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := []string{"role:admin", "role:guardia", "role:trabajador"}
	if strings.Join(roles, ",") != strings.Join(want, ",") {
		t.Fatalf("roles want %v got %v", want, roles)
	}
}

func TestGrantAndRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("guardia", "/admin/reports/summary", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allow, err := svc.EnforceRole("guardia", "/api/v1/admin/reports/summary", "GET")
	if err != nil || !allow {
		t.Fatalf("granted policy should allow: %v %v", allow, err)
	}
	if err := svc.RevokeRolePolicy("guardia", "/admin/reports/summary", "GET"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, err = svc.EnforceRole("guardia", "/api/v1/admin/reports/summary", "GET")
	if err != nil || allow {
		t.Fatalf("revoked policy should deny: %v %v", allow, err)
	}
}

func TestDeleteRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.EnsureRole("auditor"); err != nil {
		t.Fatalf("ensure role failed: %v", err)
	}
	if err := svc.GrantRolePolicy("auditor", "/admin/audit-logs", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.DeleteRole("auditor"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("auditor")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 0 {
		t.Fatalf("deleted role kept policies: %v", policies)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"admin/users":          "/admin/users",
		"/api/v1/guard/lookup": "/guard/lookup",
		"/api/v1":              "/",
		"/portal/schedules":    "/portal/schedules",
	}
	for in, want := range cases {
		if got := NormalizeObject(in); got != want {
			t.Fatalf("NormalizeObject(%q) want %q got %q", in, want, got)
		}
	}
}
