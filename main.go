package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/typegarden-backend/api"
	"github.com/rpupo63/typegarden-backend/cache"
	"github.com/rpupo63/typegarden-backend/database"
	"github.com/rpupo63/typegarden-backend/models"
	"github.com/rpupo63/typegarden-backend/realtime"
	"github.com/rpupo63/typegarden-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	// Build connection string for the hosted postgres instance
	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		getEnv("SUPABASE_DB_HOST", "localhost"),
		getEnv("SUPABASE_DB_USER", "postgres"),
		getEnv("SUPABASE_DB_PASSWORD", ""),
		getEnv("SUPABASE_DB_NAME", "typegarden"),
		getEnv("SUPABASE_DB_PORT", "5432"),
		getEnv("SUPABASE_DB_SSLMODE", "require"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Enable required PostgreSQL extensions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		fmt.Printf("Error enabling uuid-ossp extension: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	// If generating models, run generation and exit
	if strings.ToLower(os.Getenv("GENERATE_MODELS")) == "true" {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if os.Getenv("GENERATE_COLUMN_REPORT") == "true" {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	// Schema plus the NOTIFY triggers the change listener relies on
	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	previews := services.NewPreviewResolver(getEnv("CORS_PROXY_URL", ""))

	var pairings *services.PairingClient
	if os.Getenv("OPENAI_API_KEY") != "" {
		pairings, err = services.NewPairingClient(getEnv("PAIRING_MODEL", ""))
		if err != nil {
			fmt.Printf("Warning: pairing suggestions disabled: %v\n", err)
		}
	}

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var uploader *services.Uploader
	if bucket := os.Getenv("UPLOAD_BUCKET"); bucket != "" {
		uploader, err = services.NewUploader(appCtx, bucket, getEnv("UPLOAD_PUBLIC_URL", ""))
		if err != nil {
			fmt.Printf("Warning: uploads disabled: %v\n", err)
		}
	}

	dataCache := cache.New(currentDB.FontRepo(), currentDB.ProjectRepo(), currentDB.AssociationRepo(), previews)

	// Prime the cache; failures here are survivable, the listener and
	// subsequent mutations will retry the refresh.
	if err := dataCache.RefreshFonts(appCtx); err != nil {
		fmt.Printf("Warning: initial font refresh failed: %v\n", err)
	}
	if err := dataCache.RefreshProjects(appCtx); err != nil {
		fmt.Printf("Warning: initial project refresh failed: %v\n", err)
	}

	listener := realtime.New(connStr, dataCache)
	if err := listener.Start(appCtx); err != nil {
		fmt.Printf("Error starting change listener: %v\n", err)
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(dataCache, pairings, uploader)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	cancelApp()
	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
