//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB opens TEST_POSTGRES_DSN with fresh tables.
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresCodeSequenceConcurrentNext(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCodeSequenceRepository(db)

	const workers = 8
	values := make(chan int, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				value, err := repo.WithTx(tx).Next("0112", "CB", nil)
				if err != nil {
					return err
				}
				values <- value
				return nil
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(values)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent next failed: %v", err)
	}
	seen := map[int]bool{}
	for value := range values {
		if seen[value] {
			t.Fatalf("value %d handed out twice", value)
		}
		seen[value] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d distinct values, got %d", workers, len(seen))
	}
}

func TestPostgresWorkerSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	plant := &models.Plant{Code: "casablanca", Name: "Casa Blanca", Active: true}
	if err := db.Create(plant).Error; err != nil {
		t.Fatalf("create plant failed: %v", err)
	}
	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	campaign := &models.Campaign{Name: "Navidad", StartDate: start, EndDate: start.AddDate(0, 0, 20), PlantID: plant.ID, Active: true}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	worker := &models.Worker{CampaignID: campaign.ID, RUT: "11.111.111-1", Name: "Ana Pérez", ContractType: "indefinido", BoxTier: "estandar", PlantID: plant.ID, ClaimCode: "I-0112CB01"}
	if err := db.Create(worker).Error; err != nil {
		t.Fatalf("create worker failed: %v", err)
	}

	items, total, err := NewWorkerRepository(db).List(WorkerListFilter{CampaignID: campaign.ID, Search: "ana"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected ILIKE match, got total=%d", total)
	}
}
