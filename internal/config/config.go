package config

import (
	"fmt"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Env           string         `yaml:"env" env:"ENV"`
	Server        ServerConfig   `env-prefix:"SERVER_"`
	Database      PostgresConfig `env-prefix:"POSTGRES_"`
	Redis         RedisConfig    `env-prefix:"REDIS_"`
	RabbitMQ      RabbitMQConfig `env-prefix:"RABBITMQ_"`
	Agent         AgentConfig    `env-prefix:"AGENT_"`
	PostgresRetry RetryConfig    `env-prefix:"RETRY_POSTGRES_"`
	RedisRetry    RetryConfig    `env-prefix:"RETRY_REDIS_"`
	RabbitMQRetry RetryConfig    `env-prefix:"RETRY_RABBITMQ_"`
}

func NewConfig(envFilePath string, configFilePath string) (*Config, error) {
	myConfig := &Config{}

	cfg := config.New()

	if envFilePath != "" {
		if err := cfg.LoadEnvFiles(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	cfg.EnableEnv("")

	if configFilePath != "" {
		if err := cfg.LoadConfigFiles(configFilePath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	myConfig.Env = cfg.GetString("ENV")

	// Server
	myConfig.Server.Host = cfg.GetString("REMINDER_PLANNER_SERVER_HOST")
	myConfig.Server.Port = cfg.GetInt("REMINDER_PLANNER_SERVER_PORT")

	// Postgres
	myConfig.Database.MasterDSN = cfg.GetString("REMINDER_PLANNER_POSTGRES_MASTER_DSN")
	myConfig.Database.SlaveDSNs = cfg.GetStringSlice("REMINDER_PLANNER_POSTGRES_SLAVE_DSNS")
	myConfig.Database.MaxOpenConnections = cfg.GetInt("REMINDER_PLANNER_POSTGRES_MAX_OPEN_CONNECTIONS")
	myConfig.Database.MaxIdleConnections = cfg.GetInt("REMINDER_PLANNER_POSTGRES_MAX_IDLE_CONNECTIONS")
	myConfig.Database.ConnectionMaxLifetimeSeconds = cfg.GetInt("REMINDER_PLANNER_POSTGRES_CONNECTION_MAX_LIFETIME_SECONDS")

	// Redis
	myConfig.Redis.Host = cfg.GetString("REMINDER_PLANNER_REDIS_HOST")
	myConfig.Redis.Port = cfg.GetInt("REMINDER_PLANNER_REDIS_PORT")
	myConfig.Redis.Password = cfg.GetString("REMINDER_PLANNER_REDIS_PASSWORD")
	myConfig.Redis.DB = cfg.GetInt("REMINDER_PLANNER_REDIS_DB")
	myConfig.Redis.Expiration = cfg.GetInt("REMINDER_PLANNER_REDIS_EXPIRATION")

	// RabbitMQ
	myConfig.RabbitMQ.User = cfg.GetString("REMINDER_PLANNER_RABBITMQ_USER")
	myConfig.RabbitMQ.Password = cfg.GetString("REMINDER_PLANNER_RABBITMQ_PASSWORD")
	myConfig.RabbitMQ.Host = cfg.GetString("REMINDER_PLANNER_RABBITMQ_HOST")
	myConfig.RabbitMQ.Port = cfg.GetInt("REMINDER_PLANNER_RABBITMQ_PORT")
	myConfig.RabbitMQ.VHost = cfg.GetString("REMINDER_PLANNER_RABBITMQ_VHOST")
	myConfig.RabbitMQ.Exchange = cfg.GetString("REMINDER_PLANNER_RABBITMQ_EXCHANGE")
	myConfig.RabbitMQ.Queue = cfg.GetString("REMINDER_PLANNER_RABBITMQ_QUEUE")

	// Agent
	myConfig.Agent.UserID = cfg.GetString("REMINDER_PLANNER_AGENT_USER_ID")
	myConfig.Agent.UpcomingSpec = cfg.GetString("REMINDER_PLANNER_AGENT_UPCOMING_SPEC")
	myConfig.Agent.DailySummarySpec = cfg.GetString("REMINDER_PLANNER_AGENT_DAILY_SUMMARY_SPEC")

	// Retry
	myConfig.PostgresRetry.Attempts = cfg.GetInt("REMINDER_PLANNER_RETRY_POSTGRES_ATTEMPTS")
	myConfig.PostgresRetry.DelayMilliseconds = cfg.GetInt("REMINDER_PLANNER_RETRY_POSTGRES_DELAY_MS")
	myConfig.PostgresRetry.Backoff = cfg.GetFloat64("REMINDER_PLANNER_RETRY_POSTGRES_BACKOFF")

	myConfig.RedisRetry.Attempts = cfg.GetInt("REMINDER_PLANNER_RETRY_REDIS_ATTEMPTS")
	myConfig.RedisRetry.DelayMilliseconds = cfg.GetInt("REMINDER_PLANNER_RETRY_REDIS_DELAY_MS")
	myConfig.RedisRetry.Backoff = cfg.GetFloat64("REMINDER_PLANNER_RETRY_REDIS_BACKOFF")

	myConfig.RabbitMQRetry.Attempts = cfg.GetInt("REMINDER_PLANNER_RETRY_RABBITMQ_ATTEMPTS")
	myConfig.RabbitMQRetry.DelayMilliseconds = cfg.GetInt("REMINDER_PLANNER_RETRY_RABBITMQ_DELAY_MS")
	myConfig.RabbitMQRetry.Backoff = cfg.GetFloat64("REMINDER_PLANNER_RETRY_RABBITMQ_BACKOFF")

	return myConfig, nil
}

func MakeStrategy(c RetryConfig) retry.Strategy {
	return retry.Strategy{
		Attempts: c.Attempts,
		Delay:    time.Duration(c.DelayMilliseconds) * time.Millisecond,
		Backoff:  c.Backoff,
	}
}
