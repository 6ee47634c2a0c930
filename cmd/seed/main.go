package main

import (
	"flag"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/provider"
	"github.com/tresmontes-cajas/internal/service"
)

func main() {
	var password string
	flag.StringVar(&password, "password", "Cajas2024", "password for the demo accounts")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.LogLevel); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.EnsurePlants(models.DB); err != nil {
		stdLog.Fatalf("Failed to seed plants: %v", err)
	}

	c := provider.NewContainer(cfg)
	plant, err := c.PlantRepo.GetByCode("casablanca")
	if err != nil || plant == nil {
		stdLog.Fatalf("Failed to load plant casablanca: %v", err)
	}
	plantID := plant.ID

	users := []service.CreateUserInput{
		{
			Username: "admin.demo",
			Password: password,
			Role:     constants.RoleAdmin,
			FullName: "Administrador Demo",
		},
		{
			Username: "guardia.demo",
			Password: password,
			Role:     constants.RoleGuard,
			PlantID:  &plantID,
			FullName: "Guardia Casa Blanca",
		},
		{
			Username: "trabajador.demo",
			Password: password,
			Role:     constants.RoleWorker,
			PlantID:  &plantID,
			RUT:      "12.345.678-5",
			FullName: "Trabajador Demo",
		},
	}

	for _, input := range users {
		user, created, err := c.UserService.EnsureUser(input)
		if err != nil {
			stdLog.Printf("Failed to create user %s: %v", input.Username, err)
			continue
		}
		if created {
			stdLog.Printf("Created user: %s (%s)", user.Username, user.Role)
		} else {
			stdLog.Printf("User already exists: %s", user.Username)
		}
	}

	stdLog.Printf("Seed completed")
}
