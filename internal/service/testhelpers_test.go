package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	plants    map[string]*models.Plant
	cfg       *config.Config
	audit     *AuditService
	importer  *RosterImportService
	campaigns *CampaignService
	blocked   *BlockedDateService
	pickups   *PickupService
	auths     *AuthorizationService
	schedules *ScheduleService
	portal    *WorkerPortalService
	renumber  *RenumberService
	reports   *ReportService
	users     *UserService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	if err := models.EnsurePlants(db); err != nil {
		t.Fatalf("seed plants failed: %v", err)
	}
	models.DB = db

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Upload.Dir = dir
	cfg.Export.Dir = dir
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}

	plantRepo := repository.NewPlantRepository(db)
	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	blockedRepo := repository.NewBlockedDateRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	pickupRepo := repository.NewPickupRepository(db)
	authRepo := repository.NewAuthorizationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	seqRepo := repository.NewCodeSequenceRepository(db)
	importRepo := repository.NewRosterImportRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	reportRepo := repository.NewReportRepository(db)

	env := &testEnv{db: db, cfg: cfg, plants: map[string]*models.Plant{}}
	plants, err := plantRepo.List(false)
	if err != nil {
		t.Fatalf("list plants failed: %v", err)
	}
	for i := range plants {
		env.plants[plants[i].Code] = &plants[i]
	}

	env.audit = NewAuditService(auditRepo)
	claimCodes := NewClaimCodeService(seqRepo, workerRepo)
	env.importer = NewRosterImportService(plantRepo, workerRepo, importRepo, claimCodes, true)
	env.campaigns = NewCampaignService(db, campaignRepo, blockedRepo, plantRepo, reportRepo, env.importer, NewUploadService(cfg), env.audit)
	env.blocked = NewBlockedDateService(campaignRepo, blockedRepo, env.audit)
	env.pickups = NewPickupService(db, workerRepo, pickupRepo, blockedRepo, authRepo, scheduleRepo, time.UTC)
	env.auths = NewAuthorizationService(workerRepo, authRepo)
	env.schedules = NewScheduleService(workerRepo, scheduleRepo, time.UTC)
	env.portal = NewWorkerPortalService(workerRepo, blockedRepo, authRepo, scheduleRepo, time.UTC)
	env.renumber = NewRenumberService(db, workerRepo, pickupRepo, time.UTC)
	env.reports = NewReportService(campaignRepo, reportRepo, dir, time.UTC)
	env.users = NewUserService(userRepo, plantRepo, env.audit, cfg.Security.PasswordPolicy)
	return env
}

var testAdmin = Actor{UserID: 900, Username: "admin", Role: "admin"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rosterFile(name string, lines ...string) *StoredFile {
	return &StoredFile{OriginalName: name, Data: []byte(strings.Join(lines, "\n") + "\n")}
}

// createCampaign creates a campaign at plantCode from a simplified CSV roster.
func (e *testEnv) createCampaign(t *testing.T, plantCode string, start, end time.Time, lines ...string) *CreateCampaignResult {
	t.Helper()
	plant := e.plants[plantCode]
	if plant == nil {
		t.Fatalf("unknown plant %s", plantCode)
	}
	rows := append([]string{"RUT,Nombre,Contrato,Caja"}, lines...)
	result, err := e.campaigns.Create(context.Background(), testAdmin, CreateCampaignInput{
		Name:      "Navidad",
		StartDate: start,
		EndDate:   end,
		PlantID:   plant.ID,
	}, rosterFile("nomina.csv", rows...))
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return result
}

func (e *testEnv) workerByRUT(t *testing.T, campaignID uint, rut string) *models.Worker {
	t.Helper()
	worker, err := repository.NewWorkerRepository(e.db).GetByCampaignAndRUT(campaignID, rut)
	if err != nil {
		t.Fatalf("load worker failed: %v", err)
	}
	if worker == nil {
		t.Fatalf("worker %s not found in campaign %d", rut, campaignID)
	}
	return worker
}

func (e *testEnv) workerDetail(t *testing.T, id uint) *models.Worker {
	t.Helper()
	worker, err := repository.NewWorkerRepository(e.db).GetByID(id)
	if err != nil || worker == nil {
		t.Fatalf("load worker %d failed: %v", id, err)
	}
	return worker
}
