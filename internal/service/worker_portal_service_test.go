package service

import (
	"errors"
	"testing"
	"time"
)

func TestAuthorizationValidity(t *testing.T) {
	env := setupServiceTest(t)
	created := env.createCampaign(t, "casablanca", date(2026, 12, 15), date(2026, 12, 20), "12.345.678-5,Ana Pérez,Indefinido,")
	ana := env.workerByRUT(t, created.Campaign.ID, "12.345.678-5")

	if _, err := env.auths.Create(CreateAuthorizationInput{WorkerID: ana.ID, Name: "Pedro", RUT: "22.222.222-3", Date: date(2026, 12, 16)}); !errors.Is(err, ErrInvalidRUT) {
		t.Fatalf("bad rut want ErrInvalidRUT got %v", err)
	}
	if _, err := env.auths.Create(CreateAuthorizationInput{WorkerID: 999, Name: "Pedro", RUT: "22.222.222-2", Date: date(2026, 12, 16)}); !errors.Is(err, ErrWorkerNotFound) {
		t.Fatalf("unknown worker want ErrWorkerNotFound got %v", err)
	}

	single, err := env.auths.Create(CreateAuthorizationInput{WorkerID: ana.ID, Name: "Pedro", RUT: "222222222", Date: date(2026, 12, 16), SingleUse: true})
	if err != nil {
		t.Fatalf("create single-use failed: %v", err)
	}
	if single.RUT != "22.222.222-2" {
		t.Fatalf("rut not canonical: %s", single.RUT)
	}
	if _, err := env.auths.Create(CreateAuthorizationInput{WorkerID: ana.ID, Name: "Marta", RUT: "11.111.111-1", Date: date(2026, 12, 17)}); err != nil {
		t.Fatalf("create open-ended failed: %v", err)
	}

	check := func(day time.Time, want int) {
		t.Helper()
		valid, err := env.auths.ValidOn(ana.ID, day)
		if err != nil {
			t.Fatalf("valid on failed: %v", err)
		}
		if len(valid) != want {
			t.Fatalf("%s: want %d valid got %d", day.Format(time.DateOnly), want, len(valid))
		}
	}
	check(date(2026, 12, 15), 0)
	check(date(2026, 12, 16), 1)
	check(date(2026, 12, 17), 1)
	check(date(2026, 12, 19), 1)

	if err := env.auths.Revoke(single.ID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	check(date(2026, 12, 16), 0)
	if err := env.auths.Revoke(999); !errors.Is(err, ErrAuthorizationNotFound) {
		t.Fatalf("unknown authorization want ErrAuthorizationNotFound got %v", err)
	}

	owned, err := env.auths.OwnedBy(ana.ID, "12.345.678-5")
	if err != nil || !owned {
		t.Fatalf("ana should own her worker row: %v %v", owned, err)
	}
	owned, _ = env.auths.OwnedBy(ana.ID, "11.111.111-1")
	if owned {
		t.Fatalf("another rut must not own the row")
	}
}

func TestWorkerPortalStatus(t *testing.T) {
	env := setupServiceTest(t)
	first := env.createCampaign(t, "casablanca", date(2026, 12, 15), date(2026, 12, 20), "12.345.678-5,Ana Pérez,Indefinido,")
	env.createCampaign(t, "valparaiso_bif", date(2026, 12, 15), date(2026, 12, 20), "12345678-5,Ana Pérez,Indefinido,")
	hidden := env.createCampaign(t, "valparaiso_bic", date(2026, 12, 15), date(2026, 12, 20), "12345678-5,Ana Pérez,Indefinido,")
	if _, err := env.campaigns.ToggleActive(testAdmin, hidden.Campaign.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := env.blocked.Block(testAdmin, first.Campaign.ID, date(2026, 12, 16), "", ""); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	actor := Actor{UserID: 50, Role: "trabajador", RUT: "12.345.678-5"}
	items, err := env.portal.Status(actor, date(2026, 12, 16).Add(8*time.Hour))
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 active campaign entries got %d", len(items))
	}
	blocked := 0
	for _, item := range items {
		if item.QRPayload != item.ClaimCode || item.ClaimCode == "" {
			t.Fatalf("qr payload must be the claim code: %+v", item)
		}
		if item.BlockedToday {
			blocked++
		}
	}
	if blocked != 1 {
		t.Fatalf("exactly one entry should be blocked today, got %d", blocked)
	}

	empty, err := env.portal.Status(Actor{UserID: 51, Role: "trabajador"}, time.Now())
	if err != nil || len(empty) != 0 {
		t.Fatalf("actor without rut should see nothing: %v %v", empty, err)
	}
}

func TestBlockedDateRules(t *testing.T) {
	env := setupServiceTest(t)
	created := env.createCampaign(t, "casablanca", date(2026, 12, 15), date(2026, 12, 20), "12.345.678-5,Ana Pérez,Indefinido,")
	id := created.Campaign.ID

	item, err := env.blocked.Block(testAdmin, id, date(2026, 12, 18), "vacaciones", "corte de luz")
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if item.Reason != "otro" {
		t.Fatalf("unknown reason should map to otro, got %s", item.Reason)
	}
	if _, err := env.blocked.Block(testAdmin, id, date(2026, 12, 18), "feriado", ""); !errors.Is(err, ErrBlockedDateExists) {
		t.Fatalf("duplicate want ErrBlockedDateExists got %v", err)
	}
	if _, err := env.blocked.Block(testAdmin, id, date(2026, 12, 21), "feriado", ""); !errors.Is(err, ErrBlockedDateOutOfRange) {
		t.Fatalf("outside range want ErrBlockedDateOutOfRange got %v", err)
	}
	if _, err := env.blocked.Block(testAdmin, 999, date(2026, 12, 18), "feriado", ""); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("unknown campaign want ErrCampaignNotFound got %v", err)
	}

	if err := env.blocked.Unblock(testAdmin, item.ID); err != nil {
		t.Fatalf("unblock failed: %v", err)
	}
	blocked, err := env.blocked.IsBlocked(id, date(2026, 12, 18))
	if err != nil || blocked {
		t.Fatalf("date should be free again: %v %v", blocked, err)
	}
}
