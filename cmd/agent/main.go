package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/planhub-app/reminder-planner/internal/agent"
	"github.com/planhub-app/reminder-planner/internal/agent/sink"
	"github.com/planhub-app/reminder-planner/internal/agent/store"
	"github.com/planhub-app/reminder-planner/internal/config"
	"github.com/planhub-app/reminder-planner/internal/events"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/robfig/cron/v3"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"
)

const (
	defaultUpcomingSpec     = "@every 1m"
	defaultDailySummarySpec = "0 8 * * *"
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

	userID, err := types.NewUUID(cfg.Agent.UserID)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("agent user id is required")
	}

	zlog.Logger.Info().
		Str("env", cfg.Env).
		Stringer("user_id", userID).
		Msg("starting reminder agent...")

	redisClient := redis.New(
		fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	mirrorStore := store.NewRedisMirrorStore(redisClient, userID.String())
	localSink := sink.NewLocalSink()
	scheduler := agent.NewLocalScheduler(localSink, mirrorStore)

	if err := scheduler.Reload(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to reload mirror")
	}

	rabbitmqRetryStrategy := config.MakeStrategy(cfg.RabbitMQRetry)
	consumer, err := agent.NewConsumer(ctx, cfg.RabbitMQ, rabbitmqRetryStrategy, events.UserRoutingKey(userID))
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	upcomingSpec := cfg.Agent.UpcomingSpec
	if upcomingSpec == "" {
		upcomingSpec = defaultUpcomingSpec
	}
	summarySpec := cfg.Agent.DailySummarySpec
	if summarySpec == "" {
		summarySpec = defaultDailySummarySpec
	}

	jobs := cron.New()
	if _, err := jobs.AddFunc(upcomingSpec, func() { scheduler.CheckUpcoming(ctx) }); err != nil {
		zlog.Logger.Fatal().Err(err).Str("spec", upcomingSpec).Msg("invalid upcoming poll spec")
	}
	if _, err := jobs.AddFunc(summarySpec, func() { scheduler.DailySummary(ctx) }); err != nil {
		zlog.Logger.Fatal().Err(err).Str("spec", summarySpec).Msg("invalid daily summary spec")
	}
	jobs.Start()
	defer jobs.Stop()

	eventLoop := agent.NewService(consumer, scheduler)
	if err := eventLoop.Run(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("agent stopped")
	}
}
