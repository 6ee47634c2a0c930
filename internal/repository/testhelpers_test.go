package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func seedPlant(t *testing.T, db *gorm.DB, code, name string) *models.Plant {
	t.Helper()
	plant := &models.Plant{Code: code, Name: name, Active: true}
	if err := db.Create(plant).Error; err != nil {
		t.Fatalf("create plant failed: %v", err)
	}
	return plant
}

func seedCampaign(t *testing.T, db *gorm.DB, plantID uint, start, end time.Time, active bool) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		Name:      fmt.Sprintf("Navidad %d", start.Year()),
		StartDate: models.Day(start),
		EndDate:   models.Day(end),
		PlantID:   plantID,
		Active:    true,
	}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	if !active {
		if err := db.Model(campaign).Update("active", false).Error; err != nil {
			t.Fatalf("deactivate campaign failed: %v", err)
		}
		campaign.Active = false
	}
	return campaign
}

func seedWorker(t *testing.T, db *gorm.DB, campaignID, plantID uint, rut, name, code string) *models.Worker {
	t.Helper()
	worker := &models.Worker{
		CampaignID:   campaignID,
		RUT:          rut,
		Name:         name,
		ContractType: "indefinido",
		BoxTier:      "estandar",
		PlantID:      plantID,
		ClaimCode:    code,
	}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("create worker failed: %v", err)
	}
	return worker
}

func seedPickup(t *testing.T, db *gorm.DB, worker *models.Worker, at time.Time) *models.Pickup {
	t.Helper()
	pickup := &models.Pickup{
		WorkerID:   worker.ID,
		PlantID:    worker.PlantID,
		PickedUpAt: at,
		ClaimCode:  worker.ClaimCode,
	}
	if err := db.Create(pickup).Error; err != nil {
		t.Fatalf("create pickup failed: %v", err)
	}
	return pickup
}
