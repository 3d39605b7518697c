package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
)

type Config struct {
	Env           string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP          HTTP          `yaml:"http"`
	Postgres      PG            `yaml:"postgres"`
	Redis         Redis         `yaml:"redis"`
	Kafka         Kafka         `yaml:"kafka"`
	Notifications Notifications `yaml:"notifications"`
	Payment       Payment       `yaml:"payment"`
	Limiter       Limiter       `yaml:"limiter"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_NOTIFICATION_TOPIC" env-default:"notification_events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"notification-workers"`
}

type Notifications struct {
	Retention     time.Duration `yaml:"retention" env:"NOTIFICATION_RETENTION" env-default:"168h"`
	PruneInterval time.Duration `yaml:"prune_interval" env:"NOTIFICATION_PRUNE_INTERVAL" env-default:"1h"`
	Workers       int           `yaml:"workers" env:"NOTIFICATION_WORKERS" env-default:"4"`
	QueueSize     int           `yaml:"queue_size" env:"NOTIFICATION_QUEUE_SIZE" env-default:"256"`
}

type Payment struct {
	KeyID     string `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	KeySecret string `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
	BaseURL   string `yaml:"base_url" env:"RAZORPAY_BASE_URL" env-default:"https://api.razorpay.com"`
}

type Limiter struct {
	Max        int           `yaml:"max" env-default:"20"`
	Expiration time.Duration `yaml:"expiration" env-default:"5s"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	var cfg Config

	// No config file means env-only deployment (docker).
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("error reading config from env: %v", err)
		}

		return &cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
