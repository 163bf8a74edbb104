package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/planhub-app/reminder-planner/internal/config"
	"github.com/planhub-app/reminder-planner/internal/events"
	"github.com/planhub-app/reminder-planner/internal/handler"
	"github.com/planhub-app/reminder-planner/internal/registry"
	"github.com/planhub-app/reminder-planner/internal/repository"
	"github.com/planhub-app/reminder-planner/internal/service"
	"github.com/planhub-app/reminder-planner/pkg/postgres"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	ctx, ctxStop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer ctxStop()

	cfg, err := config.NewConfig("./config/.env", "")
	if err != nil {
		log.Fatal(err)
	}

	zlog.InitConsole()
	if err := zlog.SetLevel(cfg.Env); err != nil {
		log.Fatal(fmt.Errorf("error setting log level to '%s': %w", cfg.Env, err))
	}

	zlog.Logger.Info().
		Str("env", cfg.Env).
		Msg("starting reminder server...")

	postgresRetryStrategy := config.MakeStrategy(cfg.PostgresRetry)
	rabbitmqRetryStrategy := config.MakeStrategy(cfg.RabbitMQRetry)

	var postgresDB *dbpg.DB
	err = retry.DoContext(ctx, postgresRetryStrategy, func() error {
		var connErr error
		postgresDB, connErr = dbpg.New(cfg.Database.MasterDSN, cfg.Database.SlaveDSNs,
			&dbpg.Options{
				MaxOpenConns:    cfg.Database.MaxOpenConnections,
				MaxIdleConns:    cfg.Database.MaxIdleConnections,
				ConnMaxLifetime: time.Duration(cfg.Database.ConnectionMaxLifetimeSeconds) * time.Second,
			})
		return connErr
	})
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	zlog.Logger.Info().Msg("successfully connected to PostgreSQL")

	migrationsPath := "file://./db/migration"
	if err := postgres.MigrateUp(cfg.Database.MasterDSN, migrationsPath); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("couldn't migrate postgres on master DSN")
	}

	redisClient := redis.New(
		fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	publisher, err := events.NewPublisher(ctx, cfg.RabbitMQ, rabbitmqRetryStrategy)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer publisher.Close()

	storeRepository := repository.NewStoreRepository(postgresDB, postgresRetryStrategy)
	taskRepository := repository.NewTaskRepository(postgresDB, postgresRetryStrategy)
	cacheRepository := repository.NewRedisRepository(redisClient, time.Duration(cfg.Redis.Expiration)*time.Second)
	reminderEvents := events.NewReminderEvents(publisher)
	jobRegistry := registry.New()

	dispatcher := service.NewDispatcherService(
		storeRepository,
		cacheRepository,
		taskRepository,
		jobRegistry,
		reminderEvents,
	)

	// the registry is in-memory only; rebuild it from storage
	if err := dispatcher.ResyncJobs(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to resync reminder jobs")
	}

	reminderHandler := handler.NewReminderHandler(dispatcher)
	router := handler.NewRouter(reminderHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := router.Run(addr); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	zlog.Logger.Info().Str("addr", addr).Msg("http server started")

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutting down")
}
