package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/provider"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "cajasctl",
		Short:         "Maintenance tasks for the box distribution service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (defaults to ./config.yml)")

	root.AddCommand(
		newRUTCommand(),
		newRenumberCommand(opts),
		newImportCommand(opts),
		newUserCommand(opts),
	)
	return root
}

// openContainer loads configuration and wires services over a migrated database.
func (o *rootOptions) openContainer() (*provider.Container, error) {
	cfg, err := config.LoadFrom(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Database.LogLevel); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := models.EnsurePlants(models.DB); err != nil {
		return nil, fmt.Errorf("seed plants: %w", err)
	}
	return provider.NewContainer(cfg), nil
}

// cliActor is recorded in audit entries written by the CLI.
var cliActor = service.Actor{Username: "cajasctl", Role: constants.RoleAdmin}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
