package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"arztpraxis/config"
	_ "arztpraxis/docs"
	"arztpraxis/internal/adapters/auth"
	"arztpraxis/internal/adapters/email"
	"arztpraxis/internal/adapters/storage"
	"arztpraxis/internal/calendar"
	httpdelivery "arztpraxis/internal/delivery/http"
	"arztpraxis/internal/delivery/http/controllers"
	"arztpraxis/internal/delivery/http/middleware"
	"arztpraxis/internal/domain"
	"arztpraxis/internal/repository/postgres"
	"arztpraxis/internal/services"
)

// @title Arztpraxis Terminanfrage API
// @version 1.0
// @description Appointment-request form handler of the practice: validates requests, emails the practice and the patient with an iCalendar invite, and offers an admin area for stored requests.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	practice, err := config.LoadPractice(cfg.PracticeConfig)
	if err != nil {
		return err
	}
	loc, err := calendar.Location()
	if err != nil {
		return err
	}

	store, closeStore, err := openInviteStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	notifier := services.NewEmailService(mailer, email.NewTemplateRenderer(), practice, loc, cfg.MailSendTimeout, logger)
	appointments := services.NewAppointmentService(calendar.NewBuilder(practice, loc, time.Now), store, notifier, loc, time.Now, logger)

	passwords, err := adminPasswords(cfg, logger)
	if err != nil {
		return err
	}
	tokens := auth.NewJWTService(cfg.JWTSecret)
	admin := services.NewAdminService(passwords, tokens, cfg.JWTExpiry, store, notifier, practice, loc, time.Now, logger)

	formLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go formLimiter.Run(ctx)
	go loginLimiter.Run(ctx)

	router := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Appointments: controllers.NewAppointmentController(logger, appointments, practice),
		Invites:      controllers.NewInviteController(logger, store),
		Admin:        controllers.NewAdminController(logger, admin, cfg.JWTExpiry),
		Verifier:     tokens,
		FormLimiter:  formLimiter,
		LoginLimiter: loginLimiter,
	})
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2*cfg.MailSendTimeout + 10*time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "invite_store", cfg.InviteStore, "mail_provider", cfg.MailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openInviteStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.InviteStore, func(), error) {
	if cfg.InviteStore != config.InviteStorePostgres {
		logger.Info("storing invites on disk", "dir", cfg.InviteDir)
		return storage.NewFileStore(cfg.InviteDir), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("storing invites in postgres")
	return postgres.NewInviteRepository(db), func() { db.Close() }, nil
}

func adminPasswords(cfg *config.Config, logger *slog.Logger) (domain.PasswordChecker, error) {
	switch {
	case cfg.AdminPasswordHash != "":
		return auth.NewBcryptChecker(cfg.AdminPasswordHash)
	case cfg.AdminPassword != "":
		return auth.NewPlainPasswordChecker(cfg.AdminPassword, bcrypt.DefaultCost)
	default:
		logger.Warn("no admin password configured, admin login disabled")
		return auth.NewDisabledChecker(), nil
	}
}
