//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"maizey-chat/services/chat-api/internal/config"
	"maizey-chat/services/chat-api/internal/domain/chat"
	"maizey-chat/services/chat-api/internal/infrastructure/auth"
	"maizey-chat/services/chat-api/internal/infrastructure/database"
	"maizey-chat/services/chat-api/internal/infrastructure/logger"
	"maizey-chat/services/chat-api/internal/infrastructure/maizey"
	conversationrepo "maizey-chat/services/chat-api/internal/infrastructure/repository/conversation"
	messagerepo "maizey-chat/services/chat-api/internal/infrastructure/repository/message"
	"maizey-chat/services/chat-api/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(chat.ConversationRepository), new(*conversationrepo.Repository)),
	messagerepo.NewRepository,
	wire.Bind(new(chat.MessageRepository), new(*messagerepo.Repository)),
	maizey.NewClient,
	wire.Bind(new(chat.MaizeyGateway), new(*maizey.Client)),
	chat.NewService,
)

// BuildApplication assembles the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}
