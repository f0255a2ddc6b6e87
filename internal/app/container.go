package app

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gethired/gethired/internal/ai"
	"github.com/gethired/gethired/internal/config"
	"github.com/gethired/gethired/internal/database"
	dbpostgres "github.com/gethired/gethired/internal/database/postgres"
	"github.com/gethired/gethired/internal/delivery/http/handler"
	"github.com/gethired/gethired/internal/delivery/http/middleware"
	"github.com/gethired/gethired/internal/delivery/http/routes"
	"github.com/gethired/gethired/internal/domain/user"
	"github.com/gethired/gethired/internal/infrastructure/cache"
	"github.com/gethired/gethired/internal/mailer"
	"github.com/gethired/gethired/internal/pkg/jwt"
	"github.com/gethired/gethired/internal/repository"
	"github.com/gethired/gethired/internal/sitemap"
	"github.com/gethired/gethired/internal/storage"
	"github.com/gethired/gethired/internal/tasks"
	"github.com/gethired/gethired/internal/usecase"
)

// Container owns every long-lived dependency and the fully wired route
// registry. Close releases them in reverse construction order.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB      database.DB
	Cache   *cache.Redis
	AI      *ai.GeminiClient
	Storage *storage.Client
	Mailer  *mailer.ResendMailer

	Registry   *routes.Registry
	TaskRunner *tasks.Runner
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	aiClient, err := ai.NewGeminiClient(ctx, cfg.Gemini, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		AI:     aiClient,
		Mailer: mailer.NewResendMailer(cfg.Mail, logger),
	}

	// Object storage is optional in local setups; resume uploads fail
	// with a clear task error until it is configured.
	if cfg.Storage.Endpoint != "" {
		st, err := storage.NewClient(ctx, cfg.Storage, logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Storage = st
	} else {
		logger.Printf("[Storage] no endpoint configured, resume storage disabled")
	}

	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config
	logger := c.Logger

	jobRepo := repository.NewPostgresJobRepository(c.DB)
	userRepo := repository.NewPostgresUserRepository(c.DB)
	resumeRepo := repository.NewPostgresResumeRepository(c.DB)
	waitlistRepo := repository.NewPostgresWaitlistRepository(c.DB)
	paymentRepo := repository.NewPostgresPaymentRepository(c.DB)
	taskRepo := repository.NewPostgresTaskRepository(c.DB)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	gate := usecase.NewCreditGate(userRepo, logger)
	broadcaster := mailer.NewBroadcaster(c.Mailer, cfg.Mail, logger)

	var presign interface {
		PresignedGetURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
	}
	if c.Storage != nil {
		presign = c.Storage
	}

	embeddingsUC := usecase.NewEmbeddingUsecase(jobRepo, taskRepo, logger)
	rerankUC := usecase.NewRerankUsecase(userRepo, gate, c.AI, logger)
	jobListUC := usecase.NewJobListUsecase(jobRepo, userRepo, rerankUC, c.Cache, logger)
	aiSearchUC := usecase.NewAISearchUsecase(jobRepo, gate, c.AI, c.Cache, logger)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, jobRepo, taskRepo, presign, gate, c.AI, logger)
	profileUC := usecase.NewProfileUsecase(userRepo, embeddingsUC, logger)
	waitlistUC := usecase.NewWaitlistUsecase(waitlistRepo, logger)

	onSignup := func(ctx context.Context, u user.User) {
		msg, err := mailer.SignupConfirmation(u.Email)
		if err == nil {
			err = c.Mailer.Send(ctx, msg)
		}
		if err != nil {
			logger.Printf("[Mail] signup confirmation failed user=%s err=%v", u.ID, err)
		}
	}
	onResetRequest := func(ctx context.Context, u user.User, token string) {
		resetURL := strings.TrimSuffix(cfg.App.PublicURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
		msg, err := mailer.PasswordReset(u.Email, resetURL)
		if err == nil {
			err = c.Mailer.Send(ctx, msg)
		}
		if err != nil {
			logger.Printf("[Mail] password reset failed user=%s err=%v", u.ID, err)
		}
	}
	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc, onSignup, onResetRequest)

	var store tasks.ObjectStore
	if c.Storage != nil {
		store = c.Storage
	}
	taskHandlers := tasks.NewHandlers(jobRepo, userRepo, resumeRepo, store, c.AI, taskRepo, logger)
	c.TaskRunner = tasks.NewRunner(taskRepo, taskHandlers, 2, 0, logger)

	c.Registry = &routes.Registry{
		Health:   handler.NewHealthHandler(c.DB),
		Auth:     handler.NewAuthHandler(authUC),
		Jobs:     handler.NewJobsHandler(jobListUC, jobRepo, aiSearchUC),
		AI:       handler.NewAIHandler(aiSearchUC),
		Resumes:  handler.NewResumeHandler(resumeUC),
		Profile:  handler.NewProfileHandler(profileUC),
		Waitlist: handler.NewWaitlistHandler(waitlistUC),
		Payments: handler.NewPaymentsHandler(paymentRepo),
		Internal: handler.NewInternalHandler(embeddingsUC, waitlistRepo, broadcaster),
		Sitemap:  handler.NewSitemapHandler(sitemap.NewBuilder(jobRepo, cfg.App.PublicURL)),

		AuthMw:     middleware.NewAuthMiddleware(jwtSvc),
		InternalMw: middleware.NewInternalSecretMiddleware(cfg.Internal.SharedSecret),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.AI != nil {
		_ = c.AI.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
