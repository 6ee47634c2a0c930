package provider

import (
	"time"

	"github.com/tresmontes-cajas/internal/authz"
	"github.com/tresmontes-cajas/internal/cache"
	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/queue"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/service"

	"gorm.io/gorm"
)

// Container dependency container
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Location    *time.Location
	QueueClient *queue.Client

	// Repositories
	PlantRepo         repository.PlantRepository
	UserRepo          repository.UserRepository
	CampaignRepo      repository.CampaignRepository
	BlockedDateRepo   repository.BlockedDateRepository
	WorkerRepo        repository.WorkerRepository
	PickupRepo        repository.PickupRepository
	AuthorizationRepo repository.AuthorizationRepository
	ScheduleRepo      repository.ScheduleRepository
	CodeSequenceRepo  repository.CodeSequenceRepository
	RosterImportRepo  repository.RosterImportRepository
	AuditLogRepo      repository.AuditLogRepository
	UserLoginLogRepo  repository.UserLoginLogRepository
	ReportRepo        repository.ReportRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	UserService          *service.UserService
	CaptchaService       *service.CaptchaService
	UploadService        *service.UploadService
	AuditService         *service.AuditService
	UserLoginLogService  *service.UserLoginLogService
	ClaimCodeService     *service.ClaimCodeService
	RosterImportService  *service.RosterImportService
	CampaignService      *service.CampaignService
	BlockedDateService   *service.BlockedDateService
	PickupService        *service.PickupService
	AuthorizationService *service.AuthorizationService
	ScheduleService      *service.ScheduleService
	WorkerPortalService  *service.WorkerPortalService
	RenumberService      *service.RenumberService
	ReportService        *service.ReportService
}

// NewContainer wires repositories and services over models.DB.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	if cfg.Redis.StatsTTLSeconds > 0 {
		cache.SetStatsTTL(time.Duration(cfg.Redis.StatsTTLSeconds) * time.Second)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		DB:          models.DB,
		Location:    cfg.App.Location(),
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.PlantRepo = repository.NewPlantRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.BlockedDateRepo = repository.NewBlockedDateRepository(db)
	c.WorkerRepo = repository.NewWorkerRepository(db)
	c.PickupRepo = repository.NewPickupRepository(db)
	c.AuthorizationRepo = repository.NewAuthorizationRepository(db)
	c.ScheduleRepo = repository.NewScheduleRepository(db)
	c.CodeSequenceRepo = repository.NewCodeSequenceRepository(db)
	c.RosterImportRepo = repository.NewRosterImportRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cfg := c.Config
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.AuthService = service.NewAuthService(cfg, c.UserRepo, c.CaptchaService)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.PlantRepo, c.AuditService, cfg.Security.PasswordPolicy)
	c.UploadService = service.NewUploadService(cfg)

	c.ClaimCodeService = service.NewClaimCodeService(c.CodeSequenceRepo, c.WorkerRepo)
	c.RosterImportService = service.NewRosterImportService(c.PlantRepo, c.WorkerRepo, c.RosterImportRepo, c.ClaimCodeService, cfg.Roster.StrictRUT)
	c.CampaignService = service.NewCampaignService(
		c.DB,
		c.CampaignRepo,
		c.BlockedDateRepo,
		c.PlantRepo,
		c.ReportRepo,
		c.RosterImportService,
		c.UploadService,
		c.AuditService,
	)
	c.BlockedDateService = service.NewBlockedDateService(c.CampaignRepo, c.BlockedDateRepo, c.AuditService)
	c.PickupService = service.NewPickupService(
		c.DB,
		c.WorkerRepo,
		c.PickupRepo,
		c.BlockedDateRepo,
		c.AuthorizationRepo,
		c.ScheduleRepo,
		c.Location,
	)
	c.AuthorizationService = service.NewAuthorizationService(c.WorkerRepo, c.AuthorizationRepo)
	c.ScheduleService = service.NewScheduleService(c.WorkerRepo, c.ScheduleRepo, c.Location)
	c.WorkerPortalService = service.NewWorkerPortalService(c.WorkerRepo, c.BlockedDateRepo, c.AuthorizationRepo, c.ScheduleRepo, c.Location)
	c.RenumberService = service.NewRenumberService(c.DB, c.WorkerRepo, c.PickupRepo, c.Location)
	c.ReportService = service.NewReportService(c.CampaignRepo, c.ReportRepo, cfg.Export.Dir, c.Location)
}

// Close releases the queue client and the redis connection.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
