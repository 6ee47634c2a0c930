package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tresmontes-cajas/internal/authz"
	"github.com/tresmontes-cajas/internal/cache"
	"github.com/tresmontes-cajas/internal/config"
	adminhandlers "github.com/tresmontes-cajas/internal/http/handlers/admin"
	publichandlers "github.com/tresmontes-cajas/internal/http/handlers/public"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with every API route.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cajas"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	limits := NewRedisRateLimitStore(cache.Client())
	if limits == nil {
		limits = NewMemoryRateLimitStore()
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	authenticate := JWTAuthMiddleware(cfg.JWT.SecretKey, c.AuthService)
	rbac := RoleRBACMiddleware(c.AuthzService)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.GET("/captcha/config", publicHandler.GetCaptchaConfig)
			auth.GET("/captcha/image", publicHandler.GetImageCaptcha)
			auth.POST("/login", RateLimitMiddleware(limits, loginRule, KeyByIPAndJSONField("username")), publicHandler.Login)
		}

		// every signed-in role
		me := apiV1.Group("/me")
		me.Use(authenticate)
		{
			me.GET("", publicHandler.GetCurrentUser)
			me.PUT("/password", publicHandler.ChangePassword)
			me.GET("/login-logs", publicHandler.ListMyLoginLogs)
		}

		protected := apiV1.Group("")
		protected.Use(authenticate, rbac)
		{
			protected.GET("/plants", publicHandler.ListPlants)

			guard := protected.Group("/guard")
			{
				guard.GET("/lookup", publicHandler.LookupWorker)
				guard.POST("/pickups", publicHandler.ConfirmPickup)
				guard.POST("/pickups/qr", publicHandler.ConfirmPickupByQR)
				guard.POST("/pickups/:id/notes", publicHandler.AppendPickupNote)
				guard.GET("/pickups/recent", publicHandler.ListRecentPickups)
			}

			portal := protected.Group("/portal")
			{
				portal.GET("/status", publicHandler.GetPortalStatus)
				portal.GET("/authorizations", publicHandler.ListPortalAuthorizations)
				portal.POST("/authorizations", publicHandler.CreatePortalAuthorization)
				portal.DELETE("/authorizations/:id", publicHandler.RevokePortalAuthorization)
				portal.GET("/schedules", publicHandler.ListPortalSchedules)
				portal.POST("/schedules", publicHandler.CreatePortalSchedule)
			}

			admin := protected.Group("/admin")
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.POST("/users", adminHandler.CreateUser)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PUT("/users/:id", adminHandler.UpdateUser)
				admin.POST("/users/:id/deactivate", adminHandler.DeactivateUser)
				admin.PUT("/users/:id/password", adminHandler.ResetUserPassword)

				admin.GET("/campaigns", adminHandler.ListCampaigns)
				admin.POST("/campaigns", adminHandler.CreateCampaign)
				admin.POST("/campaigns/bulk-delete", adminHandler.BulkDeleteCampaigns)
				admin.GET("/campaigns/:id", adminHandler.GetCampaign)
				admin.DELETE("/campaigns/:id", adminHandler.DeleteCampaign)
				admin.POST("/campaigns/:id/toggle", adminHandler.ToggleCampaign)
				admin.GET("/campaigns/:id/stats", adminHandler.GetCampaignStats)
				admin.GET("/campaigns/:id/workers", adminHandler.ListCampaignWorkers)
				admin.POST("/campaigns/:id/imports", adminHandler.ImportCampaignRoster)
				admin.GET("/campaigns/:id/imports", adminHandler.ListCampaignImports)
				admin.GET("/campaigns/:id/blocked-dates", adminHandler.ListBlockedDates)
				admin.POST("/campaigns/:id/blocked-dates", adminHandler.BlockDate)
				admin.DELETE("/blocked-dates/:id", adminHandler.UnblockDate)

				admin.GET("/reports/summary", adminHandler.GetReportSummary)
				admin.GET("/reports/campaigns/:id/export", adminHandler.ExportCampaign)
				admin.POST("/reports/campaigns/:id/export-jobs", adminHandler.EnqueueCampaignExport)

				admin.POST("/maintenance/renumber", adminHandler.RenumberClaimCodes)
				admin.GET("/audit-logs", adminHandler.ListAuditLogs)
				admin.GET("/login-logs", adminHandler.ListLoginLogs)

				admin.GET("/authz/me", adminHandler.GetAuthzMe)
				admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
				admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
				admin.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				admin.GET("/authz/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildPermissionCatalog(r))
				})
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog lists every role-protected route as a grantable permission.
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !isRoleProtectedPath(item.Path) {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func isRoleProtectedPath(path string) bool {
	for _, prefix := range []string{"/api/v1/admin/", "/api/v1/guard/", "/api/v1/portal/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return path == "/api/v1/plants"
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
