package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	httpapi "github.com/immxrtalbeast/hotpot_room/internal/api/http"
	"github.com/immxrtalbeast/hotpot_room/internal/config"
	"github.com/immxrtalbeast/hotpot_room/internal/llm"
	"github.com/immxrtalbeast/hotpot_room/internal/realtime"
	"github.com/immxrtalbeast/hotpot_room/internal/recommend"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/internal/repository/model"
	"github.com/immxrtalbeast/hotpot_room/internal/scraper"
	"github.com/immxrtalbeast/hotpot_room/internal/service"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/slogpretty"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	roomRepo, userRepo, err := setupStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to set up storage", sl.Err(err))
		os.Exit(1)
	}

	feed, err := setupFeed(cfg.Redis, log)
	if err != nil {
		log.Error("failed to set up change feed", sl.Err(err))
		os.Exit(1)
	}
	rooms := realtime.NewNotifyingRoomRepository(roomRepo, feed, log)

	productScraper, err := scraper.New(scraper.Options{
		Origin:         cfg.Scraper.Origin,
		UserAgent:      cfg.Scraper.UserAgent,
		CurrencySymbol: cfg.Scraper.CurrencySymbol,
		Supermarket:    cfg.Scraper.Supermarket,
		Timeout:        cfg.Scraper.Timeout,
		RatePerSecond:  cfg.Scraper.RatePerSecond,
	}, log)
	if err != nil {
		log.Error("failed to set up scraper", sl.Err(err))
		os.Exit(1)
	}

	if cfg.LLM.APIKey == "" {
		log.Warn("llm api key is empty, recommendations will fail")
	}
	chat := llm.NewClient(llm.Options{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, log)

	roomService := service.NewRoomService(rooms, userRepo, log)
	userService := service.NewUserService(userRepo, log)
	ingredientService := service.NewIngredientService(rooms, log)
	recommendationService := service.NewRecommendationService(
		rooms,
		service.NewPreferenceAggregator(userRepo),
		recommend.NewEngine(chat, log),
		productScraper,
		service.NewMergeEngine(rooms, log),
		cfg.Pipeline.Timeout,
		log,
	)
	notifier := realtime.NewNotifier(rooms, feed, log)

	router := httpapi.SetupRouter(cfg.HTTP.AllowedOrigins, httpapi.Controllers{
		Rooms:           httpapi.NewRoomController(roomService),
		Users:           httpapi.NewUserController(userService),
		Ingredients:     httpapi.NewIngredientController(ingredientService),
		Recommendations: httpapi.NewRecommendationController(recommendationService),
		Feed:            httpapi.NewFeedController(notifier, log),
	})

	log.Info("starting application",
		slog.String("addr", cfg.HTTP.Address),
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", sl.Err(err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func setupStorage(cfg config.StorageConfig) (repository.RoomRepository, repository.UserRepository, error) {
	switch cfg.Driver {
	case "", "memory":
		return repository.NewInMemoryRoomRepository(), repository.NewInMemoryUserRepository(), nil
	case "postgres":
		db, err := connectDatabase(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresRoomRepository(db), repository.NewPostgresUserRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func connectDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.Room{}, &model.User{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func setupFeed(cfg config.RedisConfig, log *slog.Logger) (realtime.Feed, error) {
	if !cfg.Enabled {
		return realtime.NewBroker(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Info("using redis change feed", slog.String("addr", cfg.Addr))
	return realtime.NewRedisFeed(client, cfg.KeyPrefix, log), nil
}
