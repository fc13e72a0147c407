package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pulse-backoffice/config"
	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/container"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/blob"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/pulse-backoffice/internal/infrastructure/postgres"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/search"
	"github.com/oksasatya/pulse-backoffice/internal/interface/middleware"
	"github.com/oksasatya/pulse-backoffice/internal/router"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
	"github.com/oksasatya/pulse-backoffice/pkg/mailer"
	"github.com/oksasatya/pulse-backoffice/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mock store; every domain lives here unless STORE_DRIVER=postgres moves users out
	store := memory.NewStore()
	if cfg.SeedData {
		hash, err := helpers.HashPassword(cfg.SeedPassword)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}
		memory.Seed(store, time.Now(), hash)
	}
	repos := store.Repositories()

	if cfg.StoreDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		repos.Users = pginfra.NewUserRepository(pool)
		container.SetPGPool(pool)
	}

	// Redis (rate limits and sessions); nil when REDIS_ADDR is empty
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	deps := application.Deps{
		JWT:     helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Blobs:   blob.NewMemory(),
		Latency: application.NewLatency(cfg.MockLatency, cfg.MockFailureRate),
		Logger:  logger,
	}

	// GCS uploads when a bucket is configured
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		deps.Blobs = blob.NewGCS(gcsClient, cfg.GCSBucket)
		container.SetGCS(gcsClient)
	}

	// Elasticsearch document index
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(ctx, addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, document search falls back to title filter")
		} else {
			deps.Index = search.NewDocumentIndex(es, cfg.ESDocumentsIndex)
			container.SetES(es)
		}
	}

	// RabbitMQ dispatch queue for outbound communications
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQDispatchQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, communications will not be dispatched")
		} else {
			defer pub.Close()
			deps.Pub = pub
			container.SetRabbitPub(pub)
		}
	}

	services := application.NewServices(repos, deps)

	if deps.Index != nil {
		go func() {
			n, err := services.Documents.Reindex(ctx)
			if err != nil {
				logger.WithError(err).Warn("reindex documents failed")
			}
			logger.WithField("count", n).Info("documents indexed")
		}()
	}
	if cfg.RabbitMQURL != "" {
		go consumeDeliveryReports(ctx, cfg, services.Communications, logger)
	}
	go dispatchScheduled(ctx, cfg.DispatchInterval, services.Communications, logger)

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(deps.JWT)
	container.SetRepositories(repos)
	container.SetServices(services)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	r.Use(middleware.RequestIDMiddleware())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver, "latency": cfg.MockLatency}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// dispatchScheduled sends scheduled communications whose date has passed.
func dispatchScheduled(ctx context.Context, every time.Duration, svc *application.CommunicationService, logger *logrus.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := svc.SendDue(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Warn("send scheduled communications")
			}
			if n > 0 {
				logger.WithField("count", n).Info("scheduled communications sent")
			}
		}
	}
}

// consumeDeliveryReports applies the worker's delivery outcomes.
func consumeDeliveryReports(ctx context.Context, cfg *config.Config, svc *application.CommunicationService, logger *logrus.Logger) {
	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQReportQueue, 16)
	if err != nil {
		logger.WithError(err).Warn("delivery reports consumer unavailable")
		return
	}
	defer consumer.Close()

	onError := func(err error) { logger.WithError(err).Warn("delivery report rejected") }

	logger.WithField("queue", cfg.RabbitMQReportQueue).Info("consuming delivery reports")
	if err := consumer.Run(ctx, deliveryReportHandler(svc), onError); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("delivery reports consumer stopped")
	}
}

type deliveryRecorder interface {
	RecordDelivery(ctx context.Context, id, recipient, status string) error
}

// deliveryReportHandler applies one report. Only transient failures are
// requeued; anything else would fail the same way on every redelivery.
func deliveryReportHandler(svc deliveryRecorder) helpers.HandleFunc {
	return func(ctx context.Context, body []byte) (bool, error) {
		var rep mailer.DeliveryReport
		if err := json.Unmarshal(body, &rep); err != nil {
			return false, err
		}
		err := svc.RecordDelivery(ctx, rep.CommunicationID, rep.Recipient, rep.Status)
		return errors.Is(err, entity.ErrTransient), err
	}
}
