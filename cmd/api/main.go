package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/core/cache"
	"realestate-crm/internal/core/config"
	"realestate-crm/internal/core/database"
	"realestate-crm/internal/core/logger"
	"realestate-crm/internal/core/server"
	"realestate-crm/internal/domain"
	"realestate-crm/internal/repo"
	"realestate-crm/internal/service"
	"realestate-crm/internal/transport/http/handler"
	"realestate-crm/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Fields:      map[string]string{"app": cfg.App.Name, "env": cfg.App.Env},
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// schema 迁移
	if cfg.DB.Migrate {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("db handle", zap.Error(err))
		}
		if err := database.MigrateUp(sqlDB); err != nil {
			log.Fatal("migrate failed", zap.Error(err))
		}
		log.Info("migrate done")
	}

	// 缓存（可选）
	var qc *cache.Cache
	if cfg.Redis.Enabled {
		qc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := qc.Ping(ctx); err != nil {
			// 缓存不可用不影响启动，读直接回源
			log.Warn("redis unavailable, qualifier cache disabled", zap.Error(err))
			_ = qc.Close()
			qc = nil
		}
		cancel()
	}
	defer qc.Close()

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL(),
	}

	// 依赖
	userRepo := repo.NewUserRepo(db)
	listRepo := repo.NewListRepo(db)
	leadRepo := repo.NewLeadRepo(db)
	qualRepo := repo.NewQualifierRepo(db)
	access := service.NewAccess(listRepo, leadRepo)

	modules := []any{
		handler.NewAuthHandler(service.NewAuthService(userRepo, jwter, domain.Role(cfg.Auth.RegisterRole), cfg.Auth.BcryptCost)),
		handler.NewAdminHandler(service.NewUserService(userRepo, cfg.Auth.BcryptCost)),
		handler.NewListHandler(service.NewListService(listRepo, userRepo, access)),
		handler.NewLeadHandler(service.NewLeadService(leadRepo, access)),
		handler.NewQualifierHandler(service.NewQualifierService(qualRepo, qc, time.Duration(cfg.Redis.QualifierTTLSec)*time.Second)),
	}

	// 路由
	r := router.NewAPIEngine(router.Options{
		Log:          log,
		JWT:          jwter,
		Limits:       cfg.Limits,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Modules:      modules,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r, server.Timeouts{
		Read:  time.Duration(cfg.App.HTTP.ReadTimeoutSec) * time.Second,
		Write: time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
		Idle:  time.Duration(cfg.App.HTTP.IdleTimeoutSec) * time.Second,
	})

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + server.Addr(host4human, cfg.App.HTTP.Port)
	log.Info("crm api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.Bool("redis", qc != nil),
	)

	// SIGINT/SIGTERM 触发优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Serve(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("crm api stopped with error", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("crm api stopped")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SQLLog:             logger.ToStdLogger(l.Named("sql"), zapcore.InfoLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
