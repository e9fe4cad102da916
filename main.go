package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/whogoodluck/chatapp/config"
	"github.com/whogoodluck/chatapp/controllers"
	"github.com/whogoodluck/chatapp/database"
	"github.com/whogoodluck/chatapp/models"
	"github.com/whogoodluck/chatapp/routes"
	"github.com/whogoodluck/chatapp/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		log.Fatal("DB_DSN and JWT_SECRET must be set")
	}

	logger, err := config.NewLogger()
	if err != nil {
		log.Fatalf("config.NewLogger: %v", err)
	}
	defer logger.Sync()

	db, err := config.InitDB(cfg.DBDSN)
	if err != nil {
		logger.Fatalf("failed to connect database: %v", err)
	}

	if err := models.Migrate(db); err != nil {
		logger.Fatalf("failed to migrate: %v", err)
	}

	if cfg.Seed {
		if err := database.Seed(db, logger); err != nil {
			logger.Fatalf("failed to seed: %v", err)
		}
	}

	userService := services.NewUserService(db, logger)
	conversationService := services.NewConversationService(db, logger)
	messageService := services.NewMessageService(db, logger)

	r := routes.RegisterRoutes(
		controllers.NewUserController(userService, cfg.JWTSecret, logger),
		controllers.NewConversationController(conversationService, logger),
		controllers.NewMessageController(messageService, logger),
		cfg.JWTSecret,
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed to start: %v", err)
	}
}
