// Command lifeflow-admin runs one-off operator tasks against the same
// database and config as the API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lifeflow-backend/internal/core/config"
	"lifeflow-backend/internal/core/database"
	"lifeflow-backend/internal/core/logger"
	"lifeflow-backend/internal/repo"
	"lifeflow-backend/internal/service"
)

var Version = "dev"

var configPath string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "lifeflow-admin",
		Short:         "Operator tasks for the LifeFlow backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(setRoleCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(issueTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every database-backed command needs.
type env struct {
	cfg  *config.Config
	log  *zap.Logger
	db   *gorm.DB
	svcs *service.Services
}

func openEnv() (*env, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, flush := logger.New(cfg.Log.Level, cfg.Log.JSON)
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       2,
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log,
	})
	if err != nil {
		flush()
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	repos := repo.New(db)
	svcs := service.New(service.Deps{
		Users:    repos.Users,
		Requests: repos.Requests,
		Blogs:    repos.Blogs,
		Payments: repos.Payments,
		Regions:  repos.Regions,
		Logger:   log,
	})
	closeFn := func() {
		_ = database.Close(db)
		flush()
	}
	return &env{cfg: cfg, log: log, db: db, svcs: svcs}, closeFn, nil
}

func withEnv(run func(ctx context.Context, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEnv()
		if err != nil {
			return err
		}
		defer closeFn()
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		return run(ctx, e, args)
	}
}
