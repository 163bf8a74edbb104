package config

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT"`
}

type PostgresConfig struct {
	MasterDSN                    string   `env:"MASTER_DSN"`
	SlaveDSNs                    []string `env:"SLAVE_DSNS" envSeparator:","`
	MaxOpenConnections           int      `env:"MAX_OPEN_CONNECTIONS" envDefault:"3"`
	MaxIdleConnections           int      `env:"MAX_IDLE_CONNECTIONS" envDefault:"5"`
	ConnectionMaxLifetimeSeconds int      `env:"CONNECTION_MAX_LIFETIME_SECONDS" envDefault:"0"`
}

type RedisConfig struct {
	Host       string `yaml:"host" env:"HOST"`
	Port       int    `yaml:"port" env:"PORT"`
	Password   string `yaml:"password" env:"PASSWORD"`
	DB         int    `yaml:"db" env:"DB"`
	Expiration int    `yaml:"expiration" env:"EXPIRATION"` // cache TTL, seconds
}

type RabbitMQConfig struct {
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	VHost    string `yaml:"vhost" env:"VHOST"`
	Exchange string `yaml:"exchange" env:"EXCHANGE"`
	Queue    string `yaml:"queue" env:"QUEUE"`
}

// AgentConfig drives the client-side notification process.
type AgentConfig struct {
	UserID           string `yaml:"user_id" env:"USER_ID"`                       // owner whose channel this agent mirrors
	UpcomingSpec     string `yaml:"upcoming_spec" env:"UPCOMING_SPEC"`           // cron spec of the upcoming poll
	DailySummarySpec string `yaml:"daily_summary_spec" env:"DAILY_SUMMARY_SPEC"` // cron spec of the daily summary
}

type RetryConfig struct {
	Attempts          int     `yaml:"attempts" env:"ATTEMPTS"`
	DelayMilliseconds int     `yaml:"delay_milliseconds" env:"DELAY_MS"`
	Backoff           float64 `yaml:"backoff" env:"BACKOFF"`
}
