package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/dtroode/enrollment-server/internal/api/http/context"
	"github.com/dtroode/enrollment-server/internal/api/http/handler"
	"github.com/dtroode/enrollment-server/internal/api/http/router"
	httpServer "github.com/dtroode/enrollment-server/internal/api/http/server"
	"github.com/dtroode/enrollment-server/internal/config"
	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/mail"
	"github.com/dtroode/enrollment-server/internal/model"
	"github.com/dtroode/enrollment-server/internal/password"
	"github.com/dtroode/enrollment-server/internal/repository/memory"
	"github.com/dtroode/enrollment-server/internal/repository/postgres"
	"github.com/dtroode/enrollment-server/internal/server"
	"github.com/dtroode/enrollment-server/internal/service"
	storage "github.com/dtroode/enrollment-server/internal/storage/minio"
	"github.com/dtroode/enrollment-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	userStore, pinger, closeStore, err := newUserStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer closeStore()

	mailer, err := newMailer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize mail transport", "error", err)
	}

	issuer, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		logger.Fatal("failed to initialize credential issuer", "error", err)
	}

	hasher := password.NewArgon2Hasher(password.Params{
		Time:   cfg.KDF.Time,
		MemKiB: cfg.KDF.MemKiB,
		Par:    cfg.KDF.Par,
	})
	verificationTokens := service.NewVerificationTokens(token.NewCodec())

	registrationService := service.NewRegistration(userStore, hasher, verificationTokens, mailer, cfg.Verification.TTL, cfg.Mail.ProductName, logger)
	credentialsService := service.NewCredentials(issuer, userStore, logger)
	verificationService := service.NewEmailVerification(userStore, verificationTokens, credentialsService, logger)
	userService := service.NewUsers(userStore)

	r := router.New(
		registrationService,
		verificationService,
		userService,
		credentialsService,
		httpctx.NewManager(),
		logger,
		router.Options{
			PublicBaseURL:     cfg.HTTP.PublicBaseURL,
			TrustProxyHeaders: cfg.HTTP.TrustProxyHeaders,
			Metrics:           cfg.HTTP.Metrics,
			RequestTimeout:    cfg.HTTP.RequestTimeout,
			Health:            pinger,
		},
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadHeaderTimeout)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newUserStore opens the configured user store. The returned pinger is nil
// for the in-memory driver.
func newUserStore(ctx context.Context, cfg *config.Config) (model.UserStore, handler.Pinger, func(), error) {
	if cfg.Database.Driver == "memory" {
		return memory.NewUserRepository(), nil, func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, nil, err
	}

	return postgres.NewUserRepository(db.DB), db, func() { _ = db.Close() }, nil
}

func newMailer(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.Mailer, error) {
	switch cfg.Mail.Transport {
	case "smtp":
		return mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.From,
		})
	case "minio":
		store, err := storage.Dial(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			return nil, err
		}
		return mail.NewBucket(store, cfg.Mail.From), nil
	default:
		return mail.NewLog(logger), nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
