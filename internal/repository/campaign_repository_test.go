package repository

import (
	"testing"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

func TestCampaignRepositoryDeleteCascade(t *testing.T) {
	db := setupRepositoryTest(t)
	plant := seedPlant(t, db, "casablanca", "Casa Blanca")
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	campaign := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), true)
	other := seedCampaign(t, db, plant.ID, start, start.AddDate(0, 0, 20), true)
	worker := seedWorker(t, db, campaign.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB01")
	kept := seedWorker(t, db, other.ID, plant.ID, "11.111.111-1", "Ana", "I-0112CB02")
	seedPickup(t, db, worker, start.Add(9*time.Hour))
	if err := db.Create(&models.BlockedDate{CampaignID: campaign.ID, Date: start, Reason: models.BlockReasonHoliday}).Error; err != nil {
		t.Fatalf("create blocked date failed: %v", err)
	}
	if err := db.Create(&models.ThirdPartyAuthorization{WorkerID: worker.ID, Name: "Luis", RUT: "12.345.678-5", AuthorizedDate: start, Active: true}).Error; err != nil {
		t.Fatalf("create authorization failed: %v", err)
	}

	repo := NewCampaignRepository(db)
	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).DeleteCascade(campaign.ID)
	})
	if err != nil {
		t.Fatalf("delete cascade failed: %v", err)
	}

	counts := map[string]interface{}{
		"workers":        &models.Worker{},
		"pickups":        &models.Pickup{},
		"blocked_dates":  &models.BlockedDate{},
		"authorizations": &models.ThirdPartyAuthorization{},
		"campaigns":      &models.Campaign{},
	}
	want := map[string]int64{"workers": 1, "pickups": 0, "blocked_dates": 0, "authorizations": 0, "campaigns": 1}
	for name, model := range counts {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("count %s failed: %v", name, err)
		}
		if count != want[name] {
			t.Fatalf("%s count want %d got %d", name, want[name], count)
		}
	}
	remaining, err := NewWorkerRepository(db).GetByID(kept.ID)
	if err != nil || remaining == nil {
		t.Fatalf("worker of other campaign should survive: %v", err)
	}
}

func TestCampaignRepositoryListOverlapping(t *testing.T) {
	db := setupRepositoryTest(t)
	cb := seedPlant(t, db, "casablanca", "Casa Blanca")
	bif := seedPlant(t, db, "valparaiso_bif", "Valparaíso Planta BIF")
	dec := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	seedCampaign(t, db, cb.ID, dec, dec.AddDate(0, 0, 20), true)
	seedCampaign(t, db, bif.ID, dec.AddDate(0, 0, 10), dec.AddDate(0, 0, 40), true)
	seedCampaign(t, db, cb.ID, dec.AddDate(0, -6, 0), dec.AddDate(0, -6, 5), true)

	repo := NewCampaignRepository(db)
	all, err := repo.ListOverlapping(dec.AddDate(0, 0, 15), dec.AddDate(0, 0, 16), 0)
	if err != nil {
		t.Fatalf("list overlapping failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 overlapping campaigns, got %d", len(all))
	}
	onlyCB, err := repo.ListOverlapping(dec.AddDate(0, 0, 15), dec.AddDate(0, 0, 16), cb.ID)
	if err != nil {
		t.Fatalf("list overlapping by plant failed: %v", err)
	}
	if len(onlyCB) != 1 || onlyCB[0].PlantID != cb.ID {
		t.Fatalf("expected one casablanca campaign, got %+v", onlyCB)
	}

	active, err := repo.ListActiveOn(dec.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one campaign covering the day, got %d", len(active))
	}
}
