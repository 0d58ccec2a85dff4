package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"

	config "github.com/harmonia-tech/mt-backend/internal/cfg"
	v1Http "github.com/harmonia-tech/mt-backend/internal/delivery/v1/http"
	"github.com/harmonia-tech/mt-backend/internal/infrastructure/encoder"
	"github.com/harmonia-tech/mt-backend/internal/infrastructure/kafka"
	"github.com/harmonia-tech/mt-backend/internal/knowledge"
	"github.com/harmonia-tech/mt-backend/internal/repository/memindex"
	s3Repo "github.com/harmonia-tech/mt-backend/internal/repository/minio"
	"github.com/harmonia-tech/mt-backend/internal/repository/pgdb"
	pgdbConv "github.com/harmonia-tech/mt-backend/internal/repository/pgdb/converter"
	"github.com/harmonia-tech/mt-backend/internal/repository/redis"
	redisConv "github.com/harmonia-tech/mt-backend/internal/repository/redis/converter"
	"github.com/harmonia-tech/mt-backend/internal/usecase"
	"github.com/harmonia-tech/mt-backend/pkg/clients"
	"github.com/harmonia-tech/mt-backend/pkg/closer"
	"github.com/harmonia-tech/mt-backend/pkg/e"
	"github.com/harmonia-tech/mt-backend/pkg/logger"
	"github.com/harmonia-tech/mt-backend/pkg/postgres"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 2 * time.Second
)

// App собирает все зависимости сервиса и управляет их жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	closer  *closer.Closer
}

// NewApp поднимает подключения, строит слои и регистрирует закрытие
// ресурсов в порядке, обратном инициализации.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	c := closer.NewCloser(forcedTimeout)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.Add(func(context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), initTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.Add(func(context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewRecommendationConverter(), cfg.Redis, log)
	sessionRepo := pgdb.NewSessionRepo(db.Pool, pgdbConv.NewSessionConverter())

	indexRepo := memindex.NewIndexRepo(cfg.Index.BaseDir, log)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), initTimeout)
	if err := indexRepo.Reload(indexCtx); err != nil {
		// Сервис стартует и без индекса: параметры терапии доступны,
		// поиск вернётся после успешного POST /api/v1/index/reload.
		log.Warnf("embedding index is not loaded, search is unavailable: %v", err)
	}
	indexCancel()

	var segmentRepo usecase.SegmentRepository
	if cfg.Minio.Enabled {
		minioClient, err := clients.NewMinIOClient(cfg.Minio)
		if err != nil {
			log.Errorf(err, "failed to initialize minio client")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
		if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
			minioCancel()
			log.Errorf(err, "failed to initialize MinIO bucket")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		minioCancel()

		segmentRepo = s3Repo.NewSegmentRepo(minioClient, cfg.Minio)
	}

	var analytics usecase.AnalyticsInfra
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(log, cfg.Kafka)
		if err != nil {
			log.Errorf(err, "failed to initialize kafka producer")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if err := producer.EnsureTopic(initTimeout); err != nil {
			log.Errorf(err, "failed to ensure kafka topic")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		c.Add(func(context.Context) error {
			return producer.Close()
		})
		analytics = producer
	}

	ruleEngine, err := knowledge.NewRuleEngine(knowledge.GemsRules())
	if err != nil {
		log.Errorf(err, "invalid rule table")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	therapyUC := usecase.NewTherapyUC(
		ruleEngine,
		knowledge.NewParameterSynthesizer(),
		knowledge.NewDescriber(),
		indexRepo,
		cacheRepo,
		sessionRepo,
		segmentRepo,
		encoder.NewEncoder(cfg.Encoder, log),
		analytics,
		db.Pool,
		log,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(therapyUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: v1Http.NewServer(r, cfg.Http),
		closer:  c,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки
// или фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown finished with errors: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
