package repository

import (
	"testing"
	"time"
)

func TestWorkerRepositoryGetByCampaignAndRUT(t *testing.T) {
	db := setupRepositoryTest(t)
	plant := seedPlant(t, db, "casablanca", "Casa Blanca")
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	campaign := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), true)
	seedWorker(t, db, campaign.ID, plant.ID, "11.111.111-1", "Ana Pérez", "I-0112CB01")

	repo := NewWorkerRepository(db)
	found, err := repo.GetByCampaignAndRUT(campaign.ID, "11.111.111-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found == nil || found.Name != "Ana Pérez" {
		t.Fatalf("expected worker, got %+v", found)
	}
	missing, err := repo.GetByCampaignAndRUT(campaign.ID+1, "11.111.111-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for other campaign, got %+v", missing)
	}
}

func TestWorkerRepositoryListByRUTActiveOn(t *testing.T) {
	db := setupRepositoryTest(t)
	plant := seedPlant(t, db, "casablanca", "Casa Blanca")
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	current := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), true)
	inactive := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), false)
	past := seedCampaign(t, db, plant.ID, start.AddDate(-1, 0, 0), start.AddDate(-1, 0, 20), true)
	seedWorker(t, db, current.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB01")
	seedWorker(t, db, inactive.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB02")
	seedWorker(t, db, past.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB03")

	repo := NewWorkerRepository(db)
	workers, err := repo.ListByRUTActiveOn("11.111.111-1", start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(workers) != 1 || workers[0].CampaignID != current.ID {
		t.Fatalf("expected only the current campaign worker, got %+v", workers)
	}
	if workers[0].Campaign == nil || workers[0].Campaign.Plant == nil {
		t.Fatalf("expected campaign and plant preloaded")
	}

	all, err := repo.ListByRUTInActiveCampaigns("11.111.111-1")
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 workers in active campaigns, got %d", len(all))
	}
}

func TestWorkerRepositoryListByStatus(t *testing.T) {
	db := setupRepositoryTest(t)
	plant := seedPlant(t, db, "casablanca", "Casa Blanca")
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	campaign := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), true)
	ana := seedWorker(t, db, campaign.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB01")
	seedWorker(t, db, campaign.ID, plant.ID, "12.345.678-5", "Bruno", "I-0112CB02")
	seedPickup(t, db, ana, start.Add(10*time.Hour))

	repo := NewWorkerRepository(db)
	delivered, total, err := repo.List(WorkerListFilter{CampaignID: campaign.ID, Status: WorkerStatusDelivered})
	if err != nil {
		t.Fatalf("list delivered failed: %v", err)
	}
	if total != 1 || delivered[0].ID != ana.ID || !delivered[0].PickedUp() {
		t.Fatalf("unexpected delivered list: total=%d items=%+v", total, delivered)
	}
	pending, total, err := repo.List(WorkerListFilter{CampaignID: campaign.ID, Status: WorkerStatusPending})
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if total != 1 || pending[0].Name != "Bruno" {
		t.Fatalf("unexpected pending list: total=%d items=%+v", total, pending)
	}
	searched, total, err := repo.List(WorkerListFilter{CampaignID: campaign.ID, Search: "CB02"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || searched[0].Name != "Bruno" {
		t.Fatalf("unexpected search result: total=%d items=%+v", total, searched)
	}
}

func TestWorkerRepositoryListClaimCodesLike(t *testing.T) {
	db := setupRepositoryTest(t)
	plant := seedPlant(t, db, "casablanca", "Casa Blanca")
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	campaign := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), true)
	seedWorker(t, db, campaign.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB01")
	seedWorker(t, db, campaign.ID, plant.ID, "12.345.678-5", "Bruno", "F-0112CB07")
	seedWorker(t, db, campaign.ID, plant.ID, "7.654.321-6", "Carla", "I-0112BIF01")

	codes, err := NewWorkerRepository(db).ListClaimCodesLike("0112CB")
	if err != nil {
		t.Fatalf("list codes failed: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes in bucket, got %v", codes)
	}
}
