package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"propchain/internal/chain"
	"propchain/internal/config"
	"propchain/internal/handlers"
	"propchain/internal/logger"
	"propchain/internal/messaging"
	"propchain/internal/repository"
	"propchain/internal/scheduler"
	"propchain/internal/search"
	"propchain/internal/service"
)

func runMigrations(db *pgxpool.Pool, log *zap.Logger) error {
	log.Info("Running database migrations")

	migrationsDir := "migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		log.Info("Running migration", zap.String("file", filename))

		content, err := os.ReadFile(filepath.Join(migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		_, err = db.Exec(context.Background(), string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		log.Info("Migration completed", zap.String("file", filename))
	}

	log.Info("All migrations completed successfully")
	return nil
}

// openStorage возвращает репозитории выбранного хранилища и функцию закрытия
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repositories, func(), error) {
	if cfg.Storage.Driver == "memory" {
		var seed *repository.SeedData
		if cfg.Storage.Seed {
			seed = repository.DefaultSeed()
		}
		log.Info("Using in-memory storage", zap.Bool("seeded", seed != nil))
		return repository.NewMemory(seed, log).Repositories(), func() {}, nil
	}

	db, err := pgxpool.New(ctx, cfg.DatabaseDSN())
	if err != nil {
		return repository.Repositories{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return repository.Repositories{}, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Connected to database")

	if err := runMigrations(db, log); err != nil {
		db.Close()
		return repository.Repositories{}, nil, err
	}
	return repository.NewPostgres(db, log), db.Close, nil
}

func openEvents(cfg *config.Config, log *zap.Logger) (messaging.Publisher, error) {
	if !cfg.NATS.Enabled {
		log.Info("NATS disabled, verification events are not published")
		return messaging.NewNoop(log), nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL, log)
	if err != nil {
		return nil, err
	}

	// Подписываемся на решения верификаторов, в том числе из других инстансов
	err = natsClient.SubscribeDecided(context.Background(), func(msg *messaging.VerificationDecidedMessage) {
		log.Info("Received verification decided notification",
			zap.String("history_id", msg.HistoryID),
			zap.String("property_id", msg.PropertyID),
			zap.String("status", msg.Status))
	})
	if err != nil {
		log.Error("Failed to subscribe to verification decided", zap.Error(err))
	}
	return natsClient, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting PropChain API", zap.String("storage", cfg.Storage.Driver))

	repos, closeStorage, err := openStorage(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStorage()

	events, err := openEvents(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer events.Close()

	var searcher service.Searcher
	var reindexer handlers.Reindexer
	if cfg.SearchEnabled() {
		searchClient := search.NewClient(cfg.Search.Host, cfg.Search.APIKey, cfg.Search.Index, log)
		if err := searchClient.InitIndex(context.Background()); err != nil {
			log.Warn("Failed to initialize search index", zap.Error(err))
		}

		sched := scheduler.New(repos.Properties, searchClient, cfg.Search.ReindexSchedule, log)
		if err := sched.Start(); err != nil {
			log.Fatal("Failed to start reindex scheduler", zap.Error(err))
		}
		defer sched.Stop()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := sched.RunNow(ctx); err != nil {
				log.Warn("Initial reindex failed", zap.Error(err))
			}
		}()

		searcher = searchClient
		reindexer = sched
	} else {
		log.Info("Search disabled, free-text queries use storage matching")
	}

	h := handlers.NewHandler(
		service.NewListingService(repos.Properties, searcher, log),
		service.NewVerificationService(repos, events, log),
		service.NewDashboardService(repos, log),
		chain.NewRegistry(cfg.Chain),
		reindexer,
		log,
	)

	server := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           h.Router(cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Starting server", zap.String("address", server.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
