package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server     ServerConfig
	Worker     WorkerConfig
	Database   DatabaseConfig
	MinIO      MinIOConfig
	RabbitMQ   RabbitMQConfig
	Redis      RedisConfig
	Extraction ExtractionConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type WorkerConfig struct {
	TempDir         string        `envconfig:"WORKER_TEMP_DIR" default:"/tmp/keyva"`
	MaxRetries      int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"keyva"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"keyva"`
	DBName   string `envconfig:"POSTGRES_DB" default:"keyva"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"keyva"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"keyva"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"keyva"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type RedisConfig struct {
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int           `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExtractionConfig tunes scene detection and keyframe sampling in the worker.
type ExtractionConfig struct {
	SceneThreshold     float64 `envconfig:"EXTRACT_SCENE_THRESHOLD" default:"0.4"`
	MinSceneLenFrames  int     `envconfig:"EXTRACT_MIN_SCENE_LEN_FRAMES" default:"15"`
	ShortSceneFrames   int     `envconfig:"EXTRACT_SHORT_SCENE_FRAMES" default:"1"`
	MediumSceneFrames  int     `envconfig:"EXTRACT_MEDIUM_SCENE_FRAMES" default:"2"`
	LongSceneFrames    int     `envconfig:"EXTRACT_LONG_SCENE_FRAMES" default:"3"`
	ShortSceneMaxSec   float64 `envconfig:"EXTRACT_SHORT_SCENE_MAX_SEC" default:"3"`
	MediumSceneMaxSec  float64 `envconfig:"EXTRACT_MEDIUM_SCENE_MAX_SEC" default:"10"`
	SamplingStrategy   string  `envconfig:"EXTRACT_SAMPLING_STRATEGY" default:"uniform_interval"`
	GlobalMaxKeyframes int     `envconfig:"EXTRACT_GLOBAL_MAX_KEYFRAMES" default:"200"`
	GlobalMinKeyframes int     `envconfig:"EXTRACT_GLOBAL_MIN_KEYFRAMES" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
