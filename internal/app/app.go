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
	config "github.com/prodseal/go-backend/internal/cfg"
	v1Http "github.com/prodseal/go-backend/internal/delivery/v1/http"
	"github.com/prodseal/go-backend/internal/infrastructure/kafka"
	"github.com/prodseal/go-backend/internal/infrastructure/mail"
	"github.com/prodseal/go-backend/internal/infrastructure/render"
	"github.com/prodseal/go-backend/internal/infrastructure/storage"
	"github.com/prodseal/go-backend/internal/infrastructure/worker"
	s3Repo "github.com/prodseal/go-backend/internal/repository/minio"
	"github.com/prodseal/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/prodseal/go-backend/internal/repository/pgdb/converter"
	"github.com/prodseal/go-backend/internal/repository/redis"
	redisConv "github.com/prodseal/go-backend/internal/repository/redis/converter"
	"github.com/prodseal/go-backend/internal/usecase"
	"github.com/prodseal/go-backend/pkg/clients"
	"github.com/prodseal/go-backend/pkg/closer"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
	"github.com/prodseal/go-backend/pkg/postgres"
)

const (
	shutdownTimeout = 10 * time.Second
	renderRetries   = 3
)

// App собирает все зависимости сервиса и управляет их жизненным циклом.
// Остановка выполняется через closer в порядке LIFO: сначала перестаём
// принимать работу, затем закрываем инфраструктуру.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	worker  *worker.CompletionWorker
	storage *storage.ArtifactStorage

	shutdownCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	a.shutdownCancel = shutdownCancel

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		db.Close()
		log.Infof("Postgres pool closed")
		return nil
	})

	userConv := pgdbConv.NewUserConverterImpl()
	prConv := pgdbConv.NewProductConverterImpl()
	certConv := pgdbConv.NewCertificateConverterImpl()
	jobConv := pgdbConv.NewCompletionJobConverterImpl()
	assetConv := pgdbConv.NewAssetConverterImpl()
	verifyConv := redisConv.NewVerificationConverterImpl()

	userRepo := pgdb.NewUserRepo(db.Pool, userConv)
	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	certRepo := pgdb.NewCertificateRepo(db.Pool, certConv)
	jobRepo := pgdb.NewCompletionJobRepo(db.Pool, jobConv)
	assetRepo := pgdb.NewAssetRepo(db.Pool, assetConv)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	artifactRepo := s3Repo.NewArtifactRepo(minioClient, cfg.Minio)
	a.storage = storage.NewArtifactStorage(artifactRepo, cfg.Cert, log, shutdownCtx)
	a.closer.Add(func(ctx context.Context) error {
		return a.storage.WaitForCleanup(ctx)
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, verifyConv, cfg.Redis, log)
	a.closer.Add(func(ctx context.Context) error {
		if err := redisClient.Client.Close(); err != nil {
			return e.Wrap("redis close", err)
		}
		log.Infof("Redis client closed")
		return nil
	})

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		if err := producer.Close(); err != nil {
			return e.Wrap("kafka producer close", err)
		}
		log.Infof("Kafka producer closed")
		return nil
	})

	allocator := usecase.NewSealAllocator(certRepo, cfg.Cert.SealPrefix, log)
	renderer := render.NewPooledRenderer(cfg.Worker.RenderPool, renderRetries, log)
	notifier := mail.NewNotifier(cfg.Smtp, log)

	completionUC := usecase.NewCompletionUC(
		productRepo,
		userRepo,
		certRepo,
		jobRepo,
		assetRepo,
		cacheRepo,
		allocator,
		renderer,
		a.storage,
		notifier,
		producer,
		cfg.Cert,
		cfg.Worker,
		log,
	)
	verifyUC := usecase.NewVerifyUC(certRepo, cacheRepo, a.storage, log)

	a.worker = worker.NewCompletionWorker(completionUC, log, cfg.Worker, db.Dsn)
	a.closer.Add(func(ctx context.Context) error {
		a.worker.Stop()
		log.Infof("Completion worker stopped")
		return nil
	})

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(completionUC, verifyUC, cfg.Worker)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add(func(ctx context.Context) error {
		if err := a.httpSrv.Stop(ctx); err != nil {
			return e.Wrap("http server stop", err)
		}
		log.Infof("HTTP server stopped")
		return nil
	})

	return a, nil
}

// Run запускает воркер и HTTP-сервер и блокируется до сигнала остановки или
// фатальной ошибки сервера.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	a.worker.Start(workerCtx)

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

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	}
	a.shutdownCancel()

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
