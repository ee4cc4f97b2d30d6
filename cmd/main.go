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

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/proposaldesk/docstore/internal/api/rest/router"
	httpServer "github.com/proposaldesk/docstore/internal/api/rest/server"
	"github.com/proposaldesk/docstore/internal/cache/redis"
	"github.com/proposaldesk/docstore/internal/config"
	"github.com/proposaldesk/docstore/internal/identifier"
	"github.com/proposaldesk/docstore/internal/legal"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/model"
	"github.com/proposaldesk/docstore/internal/repository/postgres"
	"github.com/proposaldesk/docstore/internal/server"
	"github.com/proposaldesk/docstore/internal/service"
	storage "github.com/proposaldesk/docstore/internal/storage/minio"
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

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	tokenRepo := postgres.NewTokenRepository(db)
	provisionRepo := postgres.NewProvisionRepository(db)
	userRepo := postgres.NewUserRepository(db)
	directoryRepo := postgres.NewDirectoryRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	cascadeRepo := postgres.NewCascadeRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	adminClient, err := madmin.New(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
	if err != nil {
		logger.Fatal("failed to create minio admin client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, adminClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	stateCache := redis.NewClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	identifiers := identifier.New(userRepo, directoryRepo, documentRepo)
	legalClient := legal.NewClient(cfg.Legal.BaseURL)

	resolver := service.NewResolver(tokenRepo, userRepo, directoryRepo, logger)
	directoryService := service.NewDirectory(directoryRepo, userRepo, identifiers, storageClient, logger)
	documentService := service.NewDocument(documentRepo, directoryRepo, identifiers, storageClient, logger)
	userService := service.NewUser(
		userRepo, tokenRepo, provisionRepo, directoryRepo, directoryService,
		cascadeRepo, storageClient, stateCache, identifiers, legalClient, logger,
	)

	r := router.New(resolver, userService, directoryService, documentService, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
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

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
