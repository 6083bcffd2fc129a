package main

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	_ "github.com/mattn/go-sqlite3"

	"giftraffle/internal/config"
	"giftraffle/internal/handlers"
	"giftraffle/internal/parse"
	"giftraffle/internal/raffle"
	"giftraffle/internal/services"
	"giftraffle/internal/session"
	"giftraffle/internal/storage"
)

func main() {
	defer logger.Init("giftraffle", true, false, io.Discard).Close()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Configuration loading error: %v", err)
	}

	// 2. Open the SQLite store
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := storage.New(db)
	if err := store.InitSchema(); err != nil {
		logger.Fatalf("Failed to initialize database schema: %v", err)
	}

	// 3. Initialize the Raffle Service from the configured pipeline
	service := services.NewRaffleService(
		parse.ParticipantParser{Schema: participantSchema(cfg.ParticipantSchema)},
		parse.GiftParser{Schema: parse.GiftSchema{HasUnit: cfg.GiftHasUnit, HasCost: cfg.GiftHasCost}},
		raffle.NewEngine(shuffleMode(cfg.ShuffleMode), nil),
		cfg.ExpandUnits,
		store,
	)

	// 4. Initialize the session manager and the HTTP handler
	sessions := session.NewManager(cfg.SessionTTL)
	httpHandler := handlers.NewHTTPHandler(service, sessions, cfg.AdminUser, cfg.AdminPassword)

	// 5. Set up the Gin router
	r := gin.Default()
	httpHandler.RegisterPublicRoutes(r)

	adminRoutes := r.Group("/")
	adminRoutes.Use(httpHandler.AuthMiddleware())
	httpHandler.RegisterAdminRoutes(adminRoutes)

	// 6. Start the background janitor to clean up expired sessions
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			if dropped := sessions.CleanupExpired(); dropped > 0 {
				logger.Infof("Cleaned up %d expired sessions.", dropped)
			}
		}
	}()

	// 7. Run the server
	logger.Infof("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatalf("Failed to run server: %v", err)
	}
}

func participantSchema(s string) parse.ParticipantSchema {
	if s == "sniffed" {
		return parse.ParticipantSchemaSniffed
	}
	return parse.ParticipantSchemaStrict
}

func shuffleMode(s string) raffle.ShuffleMode {
	if s == "legacy" {
		return raffle.ShuffleLegacy
	}
	return raffle.ShuffleUniform
}
