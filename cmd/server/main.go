package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdrbrnd/whatsinthebox/internal/grid"
	"github.com/pdrbrnd/whatsinthebox/internal/handler"
	"github.com/pdrbrnd/whatsinthebox/internal/imdb"
	"github.com/pdrbrnd/whatsinthebox/internal/notify"
	"github.com/pdrbrnd/whatsinthebox/internal/omdb"
	"github.com/pdrbrnd/whatsinthebox/internal/repository"
	"github.com/pdrbrnd/whatsinthebox/internal/service"
)

// Config holds the application configuration
type Config struct {
	OMDBAPIKey       string
	APIToken         string
	DBPath           string
	BackupDir        string
	ListenAddr       string
	AkaLocale        string
	ChannelCategory  string
	TickInterval     time.Duration
	EnqueueTime      string // Format: "HH:MM"
	TelegramBotToken string
	TelegramChatID   int64
}

func main() {
	config := loadConfig()

	// Initialize database
	db, err := repository.NewSQLiteDB(config.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Initialize repositories
	channelRepo := repository.NewChannelRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	// Initialize external clients
	gridClient := grid.NewClient()
	imdbClient := imdb.NewClient(config.AkaLocale)
	omdbClient := omdb.NewClient(config.OMDBAPIKey)

	// Initialize services
	resolver := service.NewResolver(imdbClient)
	enricher := service.NewEnricher(omdbClient, movieRepo)
	pipeline := service.NewPipeline(gridClient, resolver, enricher, channelRepo, queueRepo, scheduleRepo)
	channelSync := service.NewChannelSyncService(gridClient, channelRepo, config.ChannelCategory)
	backupSvc := service.NewBackupService(config.DBPath, config.BackupDir)

	// Telegram is optional: without a token there is no notifier and no bot
	var reporter service.RunReporter
	var adminBot *notify.AdminBot
	if config.TelegramBotToken != "" && config.TelegramChatID != 0 {
		reporter = notify.NewTelegramNotifier(config.TelegramBotToken, strconv.FormatInt(config.TelegramChatID, 10))

		adminBot, err = notify.NewAdminBot(config.TelegramBotToken, config.TelegramChatID, notify.BotDependencies{
			Pipeline:  pipeline,
			Sync:      channelSync,
			QueueRepo: queueRepo,
		})
		if err != nil {
			log.Fatalf("Failed to create Telegram bot: %v", err)
		}
		go adminBot.Start()
		log.Printf("Telegram admin bot started. Chat ID: %d", config.TelegramChatID)
	}

	// Initialize scheduler
	scheduler := service.NewScheduler(pipeline, backupSvc, reporter, config.TickInterval, config.EnqueueTime)
	scheduler.Start()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down...")
		scheduler.Stop()
		if adminBot != nil {
			adminBot.Stop()
		}
		os.Exit(0)
	}()

	// Start HTTP server (blocking)
	router := gin.Default()
	httpHandler := handler.NewHTTPHandler(pipeline, channelSync, backupSvc, queueRepo, config.APIToken)
	httpHandler.RegisterRoutes(router)

	log.Printf("whatsinthebox listening on %s", config.ListenAddr)
	if err := router.Run(config.ListenAddr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	chatID, _ := strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)

	tickInterval := 5 * time.Minute
	if raw := getEnv("TICK_INTERVAL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Warning: invalid TICK_INTERVAL %q, using default %v", raw, tickInterval)
		} else {
			tickInterval = parsed
		}
	}

	config := &Config{
		OMDBAPIKey:       getEnv("OMDB_API_KEY", ""),
		APIToken:         getEnv("API_TOKEN", ""),
		DBPath:           getEnv("DB_PATH", "whatsinthebox.db"),
		BackupDir:        getEnv("BACKUP_DIR", "backups"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		AkaLocale:        getEnv("AKA_LOCALE", "Portugal"),
		ChannelCategory:  getEnv("CHANNEL_CATEGORY", service.DefaultChannelCategory),
		TickInterval:     tickInterval,
		EnqueueTime:      getEnv("ENQUEUE_TIME", "06:00"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   chatID,
	}

	if config.OMDBAPIKey == "" {
		log.Println("Warning: OMDB_API_KEY not set. Metadata enrichment will fail.")
	}
	if config.APIToken == "" {
		log.Println("Warning: API_TOKEN not set. Admin API requests will be rejected.")
	}

	return config
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
