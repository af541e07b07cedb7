package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-wellbeing/survey-graph-backend/config"
	"github.com/campus-wellbeing/survey-graph-backend/internal/bootstrap"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/repository"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)
	service.SetLogLevel(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := bootstrap.RouterDeps{
		ServiceName:    "survey-graph-backend",
		Version:        cfg.App.Version,
		Title:          bootstrap.GraphTitle(cfg.Dataset.Path),
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	}

	var store service.SnapshotStore
	stores, err := bootstrap.OpenStores(ctx, &cfg.Database)
	if err != nil {
		log.Printf("[warn] operation=open_stores error=%v (snapshots disabled)", err)
	} else if stores != nil {
		defer stores.Close()
		deps.DB = stores.Pool
		store = repository.NewSnapshotRepository(stores.SQL)
	}

	var cache service.OutputCache
	client, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Printf("[warn] operation=open_redis error=%v (cache disabled)", err)
	} else if client != nil {
		defer client.Close()
		repo := repository.NewCacheRepository(client, cfg.Redis.CacheTTL)
		deps.Cache = repo
		cache = repo
	}

	dataset := service.NewDataset(cfg.Dataset.Path, nil)
	if err := dataset.Reload(ctx); err != nil {
		// keep serving; POST /reload or the scheduler can recover
		log.Printf("[warn] operation=initial_load error=%v", err)
	}
	svc := service.NewSurveyService(dataset, cache, store)
	deps.Service = svc

	if cfg.Dataset.ReloadCron != "" {
		sched := service.NewScheduler(svc, cfg.Dataset.ReloadCron)
		if err := sched.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
