package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"farmassist-backend/internal/ai/gemini"
	"farmassist-backend/internal/config"
	"farmassist-backend/internal/database/minio"
	"farmassist-backend/internal/database/postgres"
	"farmassist-backend/internal/database/redis"
	"farmassist-backend/internal/event"
	"farmassist-backend/internal/handlers"
	"farmassist-backend/internal/notify"
	"farmassist-backend/internal/repository"
	"farmassist-backend/internal/services"
	"farmassist-backend/internal/storage"
	"farmassist-backend/internal/worker"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/farmassist", "log", "farm_service")
	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

// newBlobStore selects the configured persistence backend.
func newBlobStore(cfg *config.FarmAssistConfig) (storage.BlobStore, error) {
	switch cfg.StorageBackend {
	case "postgres":
		db, err := postgres.Connect(cfg.PostgresCfg)
		if err != nil {
			log.Printf("error connect to database: %s", err)
			// blocks until the database comes back
			postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
		}
		return storage.NewPostgresStore(db)
	default:
		redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(redisClient.GetClient()), nil
	}
}

func newGeminiSelector(cfg config.GeminiAPIConfig) (*gemini.GeminiClientSelector, error) {
	keys := strings.Split(cfg.APIKey, ",")
	clients := make([]gemini.GeminiClient, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		client, err := gemini.NewGenAIClient(key, cfg.FlashName, cfg.ProName)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}
	return gemini.NewGeminiClientSelector(clients), nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	store, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend %q: %v", cfg.StorageBackend, err)
	}

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Printf("MinIO unavailable, scan photos will not be persisted: %v", err)
		minioClient = nil
	}

	var publisher *event.NotificationPublisher
	rabbitConn, err := event.NewRabbitMQConnection(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, notifications disabled: %v", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewNotificationPublisher(rabbitConn)
	}

	selector, err := newGeminiSelector(cfg.GeminiAPICfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini clients: %v", err)
	}

	historyRepo := repository.NewHistoryRepository(store)
	reminderRepo := repository.NewReminderRepository(store)

	trendService := services.NewHealthTrendService(historyRepo)
	reminderService := services.NewReminderService(reminderRepo)
	weatherService := services.NewWeatherService(cfg.WeatherCfg, store)

	var photos services.PhotoStore
	if minioClient != nil {
		photos = minioClient
	}
	var eventPublisher services.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	} else if cfg.PhoneCfg.Host != "" {
		// No broker: deliver notifications straight through the SMS gateway.
		eventPublisher = notify.NewDirectPublisher(notify.NewPhoneService(cfg.PhoneCfg))
	}

	scanService := services.NewScanService(
		gemini.NewDiagnosisProvider(selector),
		photos,
		eventPublisher,
		trendService,
		reminderService,
		weatherService,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})

	handlers.NewScanHandler(scanService, cfg.PhoneCfg.CountryCode).RegisterRoutes(app)
	handlers.NewHistoryHandler(trendService, reminderService).RegisterRoutes(app)
	handlers.NewReminderHandler(reminderService, trendService, weatherService).RegisterRoutes(app)
	handlers.NewWeatherHandler(weatherService).RegisterRoutes(app)
	handlers.NewHealthHandler(publisher).RegisterRoutes(app)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go worker.NewMaintenanceWorker(reminderService, 0).Run(workerCtx)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutting down server...")
	cancelWorker()
}
