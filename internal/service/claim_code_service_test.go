package service

import (
	"errors"
	"testing"

	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
)

func TestClaimCodeAssignKeepsExistingCode(t *testing.T) {
	env := setupServiceTest(t)
	seqRepo := repository.NewCodeSequenceRepository(env.db)
	svc := NewClaimCodeService(seqRepo, repository.NewWorkerRepository(env.db))
	plant := env.plants["casablanca"]
	campaign := &models.Campaign{ID: 1, PlantID: plant.ID, StartDate: date(2026, 12, 15)}
	worker := &models.Worker{ContractType: "indefinido"}

	first, err := svc.Assign(env.db, worker, campaign, plant)
	if err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if first != "I-1512CB01" {
		t.Fatalf("first code want I-1512CB01 got %s", first)
	}

	second, err := svc.Assign(env.db, worker, campaign, plant)
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}
	if second != first || worker.ClaimCode != first {
		t.Fatalf("code changed on second assign: %s -> %s", first, second)
	}

	preset := &models.Worker{ContractType: "plazo_fijo", ClaimCode: "F-1512CB40"}
	got, err := svc.Assign(env.db, preset, campaign, plant)
	if err != nil {
		t.Fatalf("preset assign failed: %v", err)
	}
	if got != "F-1512CB40" {
		t.Fatalf("preset code should be kept, got %s", got)
	}

	seq, err := seqRepo.Get("1512", "CB")
	if err != nil || seq == nil {
		t.Fatalf("get sequence failed: %v", err)
	}
	if seq.LastValue != 1 {
		t.Fatalf("counter should not advance for existing codes, got %d", seq.LastValue)
	}
}

func TestClaimCodeAssignRejectsMissingInput(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewClaimCodeService(repository.NewCodeSequenceRepository(env.db), repository.NewWorkerRepository(env.db))
	if _, err := svc.Assign(env.db, &models.Worker{}, nil, env.plants["casablanca"]); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput got %v", err)
	}
}
