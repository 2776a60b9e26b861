// Package main initializes and starts the AI Workspace backend, setting up
// configuration, logging, the Supabase client, repositories, services,
// handlers and the HTTP server.
package main

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/AIWorkspace/internal/config"
	"github.com/atinyakov/AIWorkspace/internal/db"
	"github.com/atinyakov/AIWorkspace/internal/logger"
	"github.com/atinyakov/AIWorkspace/internal/password"
	"github.com/atinyakov/AIWorkspace/internal/repository"
	"github.com/atinyakov/AIWorkspace/internal/server/handler/http"
	"github.com/atinyakov/AIWorkspace/internal/service"
	"github.com/atinyakov/AIWorkspace/internal/supabase"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// legacyAuditInterval is how often the Postgres backend reports accounts
// that still hold plaintext credentials.
const legacyAuditInterval = time.Hour

func main() {
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	checkSupabaseKey(options.SupabaseKey, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One client, and so one connection pool, serves every handler.
	client := supabase.New(options.SupabaseURL, options.SupabaseKey,
		supabase.WithTimeout(time.Duration(options.RequestTimeout)),
		supabase.WithAdminTimeout(time.Duration(options.IdentityTimeout)),
		supabase.WithLogger(zapLogger.Named("supabase")),
	)

	var (
		accountRepo    service.AccountRepository
		taskRepo       service.TaskRepository
		transcriptRepo service.TranscriptRepository
	)
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer func(d *sql.DB) { _ = d.Close() }(postgresDB)

		db.StartLegacyCredentialAudit(ctx, postgresDB, legacyAuditInterval, zapLogger)

		accountRepo = repository.NewPostgresAccountRepository(postgresDB)
		taskRepo = repository.NewPostgresTaskRepository(postgresDB)
		transcriptRepo = repository.NewPostgresTranscriptRepository(postgresDB)
		zapLogger.Info("using direct postgres storage")
	} else {
		accountRepo = repository.NewRestAccountRepository(client)
		taskRepo = repository.NewRestTaskRepository(client)
		transcriptRepo = repository.NewRestTranscriptRepository(client)
		zapLogger.Info("using supabase table storage", zap.String("url", options.SupabaseURL))
	}
	identityRepo := repository.NewSupabaseIdentityRepository(client)

	authService := service.NewAuthService(accountRepo, identityRepo,
		password.NewManager(options.BcryptCost),
		service.WithStrictMigration(options.StrictMigration),
		service.WithLogger(zapLogger.Named("auth")),
	)
	taskService := service.NewTaskService(taskRepo)
	transcriptService := service.NewTranscriptService(transcriptRepo)

	authHandler := &http.AuthHandler{AuthService: authService}
	taskHandler := &http.TaskHandler{TaskService: taskService}
	transcriptHandler := &http.TranscriptHandler{TranscriptService: transcriptService}

	router := http.NewRouter(authHandler, taskHandler, transcriptHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Signup may wait for the identity call and then the table insert.
		WriteTimeout: time.Duration(options.IdentityTimeout+options.RequestTimeout) + 5*time.Second,
	}

	if options.TLSCert != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		err = server.ListenAndServe()
	}
	if err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// checkSupabaseKey warns when the configured key cannot call the admin API.
func checkSupabaseKey(key string, log *zap.Logger) {
	if key == "" {
		log.Warn("SUPABASE_KEY is not set; table and admin calls will be rejected")
		return
	}
	role, err := config.KeyRole(key)
	if err != nil {
		log.Warn("cannot read supabase key claims", zap.Error(err))
		return
	}
	if role != "service_role" {
		log.Warn("supabase key is not a service_role key; signup will fail", zap.String("role", role))
	}
}
