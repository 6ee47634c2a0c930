package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRenumberByPickupDay(t *testing.T) {
	env := setupServiceTest(t)
	created := env.createCampaign(t, "casablanca", date(2026, 12, 15), date(2026, 12, 20),
		"12.345.678-5,Ana Pérez,Indefinido,",
		"7654321-6,Luis Soto,Plazo fijo,",
		"11111111-1,Rosa Díaz,Indefinido,",
	)
	ana := env.workerByRUT(t, created.Campaign.ID, "12.345.678-5")
	luis := env.workerByRUT(t, created.Campaign.ID, "7.654.321-6")
	rosa := env.workerByRUT(t, created.Campaign.ID, "11.111.111-1")

	// Rosa first on the 16th, then Ana on the 17th, then Luis later on the 17th.
	confirm := func(workerID uint, at time.Time) {
		t.Helper()
		if _, err := env.pickups.Confirm(context.Background(), testAdmin, workerID, ConfirmInput{}, at); err != nil {
			t.Fatalf("confirm failed: %v", err)
		}
	}
	confirm(rosa.ID, date(2026, 12, 16).Add(9*time.Hour))
	confirm(ana.ID, date(2026, 12, 17).Add(9*time.Hour))
	confirm(luis.ID, date(2026, 12, 17).Add(11*time.Hour))

	dry, err := env.renumber.Renumber(context.Background(), true)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if dry.Pickups != 3 || dry.Buckets != 2 || dry.Rewritten != 3 {
		t.Fatalf("unexpected dry run: %+v", dry)
	}
	if got := env.workerByRUT(t, created.Campaign.ID, "12.345.678-5").ClaimCode; got != ana.ClaimCode {
		t.Fatalf("dry run must not write, code changed to %s", got)
	}

	summary, err := env.renumber.Renumber(context.Background(), false)
	if err != nil {
		t.Fatalf("renumber failed: %v", err)
	}
	if summary.Rewritten != 3 {
		t.Fatalf("rewritten want 3 got %d", summary.Rewritten)
	}
	want := map[string]string{
		"11.111.111-1": "I-1612CB01",
		"12.345.678-5": "I-1712CB01",
		"7.654.321-6":  "F-1712CB02",
	}
	for rut, code := range want {
		worker := env.workerDetail(t, env.workerByRUT(t, created.Campaign.ID, rut).ID)
		if worker.ClaimCode != code {
			t.Fatalf("%s want %s got %s", rut, code, worker.ClaimCode)
		}
		if worker.Pickup == nil || worker.Pickup.ClaimCode != code {
			t.Fatalf("%s pickup code not rewritten: %+v", rut, worker.Pickup)
		}
	}

	again, err := env.renumber.Renumber(context.Background(), false)
	if err != nil || again.Rewritten != 0 {
		t.Fatalf("second pass should be a no-op: %+v %v", again, err)
	}
}

func TestRenumberCollidingWithUnpickedCodeRollsBack(t *testing.T) {
	env := setupServiceTest(t)
	first := env.createCampaign(t, "casablanca", date(2026, 12, 15), date(2026, 12, 20),
		"7654321-6,Luis Soto,Plazo fijo,",
	)
	second := env.createCampaign(t, "casablanca", date(2026, 12, 16), date(2026, 12, 20),
		"11.111.111-1,Rosa Díaz,Plazo fijo,",
	)
	luis := env.workerByRUT(t, first.Campaign.ID, "7.654.321-6")
	if rosa := env.workerByRUT(t, second.Campaign.ID, "11.111.111-1"); rosa.ClaimCode != "F-1612CB01" {
		t.Fatalf("rosa code want F-1612CB01 got %s", rosa.ClaimCode)
	}
	if _, err := env.pickups.Confirm(context.Background(), testAdmin, luis.ID, ConfirmInput{}, date(2026, 12, 16).Add(9*time.Hour)); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	_, err := env.renumber.Renumber(context.Background(), false)
	if !errors.Is(err, ErrDuplicateClaimCode) {
		t.Fatalf("want ErrDuplicateClaimCode got %v", err)
	}
	if got := env.workerByRUT(t, first.Campaign.ID, "7.654.321-6").ClaimCode; got != luis.ClaimCode {
		t.Fatalf("renumber should roll back, code is %s", got)
	}
}
