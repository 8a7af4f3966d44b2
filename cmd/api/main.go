package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/config"
	"github.com/agencydesk/crm-api/internal/infra/database"
	"github.com/agencydesk/crm-api/internal/infra/http/handlers"
	appmiddleware "github.com/agencydesk/crm-api/internal/infra/http/middleware"
	"github.com/agencydesk/crm-api/internal/infra/integration/turso"
	"github.com/agencydesk/crm-api/internal/infra/mail"
	"github.com/agencydesk/crm-api/internal/infra/queue"
	"github.com/agencydesk/crm-api/internal/infra/worker"
	"github.com/agencydesk/crm-api/internal/location"
	"github.com/agencydesk/crm-api/internal/logger"
	"github.com/agencydesk/crm-api/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	log, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Server.Env,
		ServiceName: "crm-api",
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// ZIP table: a missing data file degrades to an empty table so the
	// server still boots; every ZIP lookup will then fail per-row.
	zips, err := location.NewServiceFromFile(cfg.ZipDataPath)
	if err != nil {
		log.Warn("zip data unavailable, all ZIP lookups will fail",
			zap.String("path", cfg.ZipDataPath), zap.Error(err))
		zips = location.Empty()
	} else {
		log.Info("zip table loaded", zap.Int("entries", zips.Len()))
	}

	registry, err := database.NewRegistryConnection(cfg.RegistryDB.URL)
	if err != nil {
		log.Fatal("could not connect to registry database", zap.Error(err))
	}
	defer registry.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.Queue.User, cfg.Queue.Pass, cfg.Queue.Host, cfg.Queue.Port)
	if err != nil {
		log.Fatal("could not connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	orgRepo := database.NewOrganizationRepository(registry)
	agentRepo := database.NewAgentRepository(registry)
	carrierRepo := database.NewCarrierRepository(registry)

	// Gateways and adapters
	tursoClient := turso.NewClient(cfg.Turso.APIKey, cfg.Turso.OrgSlug, cfg.Turso.BaseURL)
	tenants := database.NewTenantProvisioner(orgRepo, tursoClient, log)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
		cfg.Mail.From, cfg.Mail.TemplateDir,
	)

	// Background workers
	quoteWorker := queue.NewWorker(rabbitMQ.Ch, mailSender, tenants, log)
	go quoteWorker.Start(ctx, queue.QueueName)

	cleanup := worker.NewCleanupWorker(orgRepo, cfg.Cleanup.StallWindow, cfg.Cleanup.TickInterval, log)
	go cleanup.Start(ctx)

	// Use cases
	importUC := usecase.NewImportContactsUseCase(tenants, carrierRepo, zips, log)
	sendQuoteUC := usecase.NewSendQuoteUseCase(tenants, producer, log)
	createOrgUC := usecase.NewCreateOrganizationUseCase(orgRepo, agentRepo, log)
	deleteOrgUC := usecase.NewDeleteOrganizationUseCase(orgRepo, agentRepo, tursoClient, log)

	// Handlers
	contactHandler := handlers.NewContactHandler(tenants, zips, sendQuoteUC)
	importHandler := handlers.NewImportHandler(importUC, agentRepo, log)
	orgHandler := handlers.NewOrganizationHandler(createOrgUC, deleteOrgUC, orgRepo)
	agentHandler := handlers.NewAgentHandler(agentRepo, orgRepo)
	zipHandler := handlers.NewZipHandler(zips)
	healthHandler := handlers.NewHealthHandler(registry)

	// Router
	r := chi.NewRouter()
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Organization-ID", "X-Agent-ID"},
	}))

	r.Get("/healthz", healthHandler.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/organizations", orgHandler.Create)
		r.Get("/organizations/{id}", orgHandler.Get)
		r.Delete("/organizations/{id}", orgHandler.Delete)

		r.Post("/agents", agentHandler.Create)
		r.Get("/agents", agentHandler.List)

		r.Get("/contacts", contactHandler.List)
		r.Post("/contacts", contactHandler.Create)
		r.Put("/contacts/{id}", contactHandler.Update)
		r.Delete("/contacts/{id}", contactHandler.Delete)
		r.Post("/contacts/{id}/send-quote", contactHandler.SendQuote)

		r.Post("/contacts/upload", importHandler.Upload)
		r.Post("/contacts/bulk-import", importHandler.BulkImport)

		r.Get("/zip-lookup/{zip}", zipHandler.Lookup)
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{Addr: addr, Handler: r}

	log.Info("server listening", zap.String("addr", addr))
	if err := serve(ctx, srv, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

// serve runs the HTTP server until it fails or ctx is canceled, in which
// case in-flight requests get a grace period to finish.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}
