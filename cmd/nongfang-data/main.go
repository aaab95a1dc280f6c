package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nongfang-data/internal/config"
	"nongfang-data/internal/database"
	"nongfang-data/internal/domain"
	httpapi "nongfang-data/internal/http"
	applog "nongfang-data/internal/logger"
	"nongfang-data/internal/repository"
	"nongfang-data/internal/service"
	"nongfang-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := applog.NewLogger(cfg.Log.Level, cfg.Log.Format, "nongfang-data")
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 审计事件与村门户缓存都走 Redis；Redis 不可达时降级为日志审计 + 无缓存
	var audit service.AuditSink
	var kv store.KV
	if err := redisClient.Ping(context.Background()).Err(); err == nil {
		audit = service.NewRedisAuditSink(redisClient, cfg.Audit.Stream, logger)
		kv = store.NewRedisKV(redisClient)
	} else {
		logger.Warn("Redis unavailable, audit falls back to log sink", zap.Error(err))
		audit = service.NewLogAuditSink(logger)
	}

	var storageClient *service.StorageClient
	if cfg.Storage.BaseURL != "" {
		storageClient = service.NewStorageClient(cfg.Storage.BaseURL, cfg.Storage.Timeout, logger)
	}

	// Optional DB-backed repos; if DB is not available, fall back to in-memory repos
	// （联测不依赖数据库，草稿/提交流程行为一致）
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			logger.Info("DB enabled for nongfang-data")
		} else {
			logger.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}

	var (
		txm      repository.TxManager
		villages repository.VillagesRepository
		entries  repository.EntriesRepository
		houses   repository.HousesRepository
		drafts   repository.DraftsRepository
	)
	if db != nil {
		txm = repository.NewPostgresTxManager(db)
		villages = repository.NewPostgresVillagesRepo(db)
		entries = repository.NewPostgresEntriesRepo(db)
		houses = repository.NewPostgresHousesRepo(db)
		drafts = repository.NewPostgresDraftsRepo(db)
	} else {
		mem := repository.NewMemoryStore()
		// Seed 一个演示村门户，便于本地联测直接提交
		if os.Getenv("SEED_DEMO_VILLAGE") != "false" {
			mem.PutVillage(domain.VillagePortal{
				VillageCode: "370211001",
				VillageName: "演示村",
				RegionCode:  "370211",
				Active:      true,
				Templates:   []string{domain.TemplateBasic, domain.TemplateConstruction, domain.TemplateCraftsman},
			})
		}
		txm = repository.NewMemoryTxManager(mem)
		villages = mem.Villages()
		entries = mem.Entries()
		houses = mem.Houses()
		drafts = mem.Drafts()
	}

	villageSvc := service.NewVillageService(villages, kv, logger)
	resolver := service.NewEntityResolver(logger)
	submissionSvc := service.NewSubmissionService(villageSvc, txm, resolver, audit, storageClient, entries, houses, logger)
	draftSvc := service.NewDraftService(villageSvc, drafts, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterCollectRoutes(
		httpapi.NewSubmissionHandler(submissionSvc, logger),
		httpapi.NewDraftHandler(draftSvc, logger),
		httpapi.NewVillageHandler(villageSvc, submissionSvc, logger),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	// 退出收尾用独立的 context：ctx 此时已取消，沿用会让 Shutdown 直接返回
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}
