package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"zippyhand/internal/api"
	"zippyhand/internal/auth"
	"zippyhand/internal/config"
	"zippyhand/internal/database"
	"zippyhand/internal/domain"
	"zippyhand/internal/events"
	"zippyhand/internal/logging"
	"zippyhand/internal/metrics"
	"zippyhand/internal/models"
	"zippyhand/internal/notify"
	"zippyhand/internal/repository"
	"zippyhand/internal/service"
	"zippyhand/internal/sheets"
	"zippyhand/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, seed, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, seed, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	redisClient, sessionService := initSessions(ctx, cfg, &logger)

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	var sheetsWorker *worker.SheetsWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker = worker.NewSheetsWorker(sheetsService, redisClient, retryPolicy, &logger)
		go sheetsWorker.Run(ctx)
	}

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, db, cfg, &logger)

	var syncWorker domain.SyncWorker
	if sheetsWorker != nil {
		syncWorker = sheetsWorker
	}

	bookingService := service.NewBookingService(db, eventBus, syncWorker, &logger)
	adminService := service.NewAdminService(db, eventBus, syncWorker, &logger)
	catalogService := service.NewCatalogService(db, &logger)

	apiServer := api.NewHTTPServer(cfg, bookingService, adminService, catalogService, sessionService, &logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = apiServer.Shutdown(shutdownCtx)
	}()

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	logger.Info().Msg("ZippyHand API started")
	<-ctx.Done()
	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, []models.Service, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	servicesPath := os.Getenv("SERVICES_PATH")
	if servicesPath == "" {
		servicesPath = "configs/services.yaml"
	}
	seedData, err := os.ReadFile(servicesPath)
	if err != nil {
		logger.Error().Err(err).Msgf("error reading %s", servicesPath)
		return nil, nil, zerolog.Logger{}, closer, err
	}

	var seedConfig struct {
		Services []models.Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(seedData, &seedConfig); err != nil {
		logger.Error().Err(err).Msg("error parsing services.yaml")
		return nil, nil, zerolog.Logger{}, closer, err
	}

	return cfg, seedConfig.Services, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("error creating database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("error creating exports directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, seed []models.Service, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("error initializing database")
		return nil, err
	}

	if err := db.SeedServices(context.Background(), seed); err != nil {
		logger.Error().Err(err).Msg("error seeding service catalog")
	}
	return db, nil
}

func initSessions(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *auth.Service) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	primaryRepo := repository.NewRedisSessionRepository(redisClient)
	fallbackRepo := repository.NewMemorySessionRepository()
	sessionRepo := repository.NewFailoverSessionRepository(primaryRepo, fallbackRepo, logger)

	sessionService := auth.NewService(cfg.Admin, sessionRepo, logger)
	sessionService.OnSessionChange(func(_ string, active bool) {
		if active {
			metrics.SessionOpened()
		} else {
			metrics.SessionClosed()
		}
	})
	return redisClient, sessionService
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *sheets.Service {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		logger.Info().Msg("Google Sheets mirror disabled")
		return nil
	}

	sheetsSvc, err := sheets.NewService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized")
	return sheetsSvc
}

func subscribeBookingEvents(bus *events.EventBus, db *database.DB, cfg *config.Config, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingStatusChanged, service.NewStatusAuditHandler(db, logger))

	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.ManagerChatIDs) == 0 {
		logger.Info().Msg("Telegram notifications disabled")
		return
	}

	botAPI, err := notify.NewBotAPI(cfg.Telegram)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Telegram bot")
		return
	}

	notifier := notify.NewTelegramNotifier(botAPI, cfg.Telegram.ManagerChatIDs, logger)
	bus.Subscribe(events.EventBookingCreated, notifier.HandleBookingCreated)
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
