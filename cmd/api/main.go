package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/config"
	dbpkg "github.com/carosellagiuliano-max/salon-scheduler/internal/db"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/logging"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/metrics"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/middleware"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/routes"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/sweeper"
)

func main() {
	log, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg, log)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warnw("redis unreachable, notifications degrade to SMS only", "error", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	expireStale := routes.RegisterRoutes(r, db, rdb, cfg, log)

	sw := sweeper.New(expireStale, log)
	if err := sw.Start(); err != nil {
		log.Fatalw("failed to start sweeper", "error", err)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Infow("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Infow("shutting down")
	sw.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
}
