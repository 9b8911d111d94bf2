package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/config"
	s3infra "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/infra/s3"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	redrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/redis"
	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
	childsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/childprofiles"
	cvsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/cv"
	docsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/documents"
	eventsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/events"
	profilesvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/profiles"
	regsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/registrations"
	reqsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/requests"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler

	registrationService *regsvc.Service
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)

	eventRepo := pgrepo.NewEventRepo(pool)
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool, eventRepo)
	childRepo := pgrepo.NewChildProfileRepo(pool, eventRepo)
	cvRepo := pgrepo.NewCVRepo(pool)
	documentRepo := pgrepo.NewDocumentRepo(pool)
	registrationRepo := pgrepo.NewRegistrationRepo(pool, eventRepo)
	requestRepo := pgrepo.NewRequestRepo(pool, eventRepo)
	orgRepo := pgrepo.NewOrgRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	documentStorage := docsvc.NewS3Storage(s3Client, cfg.S3.Bucket)

	profileService := profilesvc.NewService(profileRepo)
	childService := childsvc.NewService(childRepo)
	cvService := cvsvc.NewService(cvRepo)
	eventService := eventsvc.NewService(eventRepo, userRepo)
	documentService := docsvc.NewService(documentRepo, documentStorage)
	registrationService := regsvc.NewService(registrationRepo, profileRepo, orgRepo, cfg.Registration.TemporaryValidity)
	requestService := reqsvc.NewService(requestRepo, orgRepo, userRepo)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:         authService,
		ProfileService:      profileService,
		ChildProfileService: childService,
		CVService:           cvService,
		EventService:        eventService,
		DocumentService:     documentService,
		RegistrationService: registrationService,
		RequestService:      requestService,
		UserRepo:            userRepo,
		OrgRepo:             orgRepo,
		Logger:              log,
		Config:              cfg,
	})

	return &App{
		cfg:                 cfg,
		logger:              log,
		server:              server,
		postgres:            pool,
		redis:               redisClient,
		s3:                  s3Client,
		httpRouter:          r,
		registrationService: registrationService,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

// RegistrationService exposes the registration service for background jobs.
func (a *App) RegistrationService() *regsvc.Service {
	return a.registrationService
}
