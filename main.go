package main

import (
	"context"
	"log"
	"time"

	"cinema-checkout/cmd"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/gateway"
	"cinema-checkout/internal/wire"
	"cinema-checkout/pkg/database"
	"cinema-checkout/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	catalog := gateway.NewRedisSeatCatalog(redisClient, logger)

	provider := gateway.NewRetryProvider(
		gateway.NewSandboxProvider(logger),
		config.Payment.ProviderRetries,
		time.Duration(config.Payment.RetryBaseDelayMs)*time.Millisecond,
		logger,
	)

	publisher := gateway.NewNoopPublisher()
	if config.AMQP.URL != "" {
		p, err := gateway.NewAMQPPublisher(config.AMQP.URL, logger)
		if err != nil {
			logger.Error("Failed to connect to message broker, events disabled", zap.Error(err))
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, config, logger, catalog, provider, publisher)

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go app.Service.Sweeper.Run(sweeperCtx)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
