package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate-crm/internal/core/config"
	"realestate-crm/internal/core/database"
	"realestate-crm/internal/core/logger"
	"realestate-crm/internal/domain"
	"realestate-crm/internal/repo"
	"realestate-crm/internal/service"
)

const usage = `usage:
  admin migrate up
  admin migrate down [--steps N]
  admin migrate version
  admin seed-admin --username NAME --email EMAIL --password PASS
`

// 运维命令行：迁移 schema、创建第一个 admin
func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		Development: !cfg.Log.JSON,
		Fields:      map[string]string{"app": cfg.App.Name, "cmd": "admin"},
	})
	defer cleanup()

	var err error
	switch os.Args[1] {
	case "migrate":
		err = runMigrate(cfg, log, os.Args[2:])
	case "seed-admin":
		err = runSeedAdmin(cfg, log, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error("admin command failed", zap.String("cmd", os.Args[1]), zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config, l *zap.Logger, args []string) error {
	fs := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	steps := fs.Int("steps", 1, "number of migrations to roll back")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("migrate: expected up, down or version")
	}

	db := mustOpenDB(cfg, l)
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	switch fs.Arg(0) {
	case "up":
		err = database.MigrateUp(sqlDB)
	case "down":
		err = database.MigrateDown(sqlDB, *steps)
	case "version":
		var v uint
		var dirty bool
		v, dirty, err = database.Version(sqlDB)
		if err == nil {
			l.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		}
		return err
	default:
		return fmt.Errorf("migrate: unknown action %q", fs.Arg(0))
	}
	if err != nil {
		return err
	}
	l.Info("migrate done", zap.String("action", fs.Arg(0)))
	return nil
}

func runSeedAdmin(cfg *config.Config, l *zap.Logger, args []string) error {
	fs := pflag.NewFlagSet("seed-admin", pflag.ContinueOnError)
	username := fs.String("username", "admin", "admin username")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password (min 6 chars)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db := mustOpenDB(cfg, l)
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	svc := service.NewUserService(repo.NewUserRepo(db), cfg.Auth.BcryptCost)
	u, err := svc.Create(ctx, service.NewUser{
		Username: *username,
		Email:    *email,
		Password: *password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	l.Info("admin created", zap.Uint("id", u.ID), zap.String("username", u.Username))
	return nil
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       2,
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
