package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "config.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	PublicURL string `yaml:"public_url"`
}

type StorageConfig struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir"`
	StaticDir string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// DSN is the lib/pq connection string for the database section.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

type RedisConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	PopularityTTL time.Duration `yaml:"popularity_ttl"`
}

// Enabled is false when no host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

type KafkaConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool { return k.Broker != "" }

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":5000",
			PublicURL: "http://localhost:5000",
		},
		Storage: StorageConfig{
			Backend:   "file",
			DataDir:   "static/data",
			StaticDir: "static",
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
			Name: "overcooked",
			User: "postgres",
		},
		Redis: RedisConfig{
			Port:          6379,
			PopularityTTL: 8 * 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Topic: "menu-events",
		},
		Logger: LoggerConfig{
			Mode:     "development",
			Filename: "logs/overcooked-menu.log",
		},
	}
}

// Load reads defaults, then the YAML file at path (a missing file is fine),
// then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envString("ADDR", c.Server.Addr)
	c.Server.PublicURL = envString("PUBLIC_URL", c.Server.PublicURL)

	c.Storage.Backend = envString("STORE_BACKEND", c.Storage.Backend)
	c.Storage.DataDir = envString("DATA_DIR", c.Storage.DataDir)
	c.Storage.StaticDir = envString("STATIC_DIR", c.Storage.StaticDir)

	c.Database.Host = envString("DB_HOST", c.Database.Host)
	c.Database.Port = envInt("DB_PORT", c.Database.Port)
	c.Database.Name = envString("DB_NAME", c.Database.Name)
	c.Database.User = envString("DB_USER", c.Database.User)
	c.Database.Password = envString("DB_PASSWORD", c.Database.Password)

	c.Redis.Host = envString("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = envInt("REDIS_PORT", c.Redis.Port)
	c.Redis.PopularityTTL = envDuration("REDIS_POPULARITY_TTL", c.Redis.PopularityTTL)

	c.Kafka.Broker = envString("KAFKA_BROKER", c.Kafka.Broker)
	c.Kafka.Topic = envString("KAFKA_TOPIC", c.Kafka.Topic)

	c.Logger.Mode = envString("LOG_MODE", c.Logger.Mode)
	c.Logger.FileEnable = envBool("LOG_FILE_ENABLE", c.Logger.FileEnable)
	if name, ok := os.LookupEnv("LOG_FILE"); ok && name != "" {
		c.Logger.Filename = name
		c.Logger.FileEnable = true
	}
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := cast.ToDurationE(value)
	if err != nil {
		return fallback
	}
	return d
}

// NewLogger builds the process logger. With file output enabled, JSON lines
// go to a rotating file and console lines to stdout.
func NewLogger(cfg LoggerConfig) (*zap.SugaredLogger, error) {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if !cfg.FileEnable {
		logger, err := zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, err
		}
		return logger.Sugar(), nil
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotating),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}

func MustInitPostgres(cfg DatabaseConfig, logger *zap.SugaredLogger) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}

	if err = db.Ping(); err != nil {
		logger.Fatalw("failed to ping database", "host", cfg.Host, "error", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig, logger *zap.SugaredLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatalw("failed to connect to redis", "addr", cfg.Addr(), "error", err)
	}

	return client
}

// NewKafkaWriter flushes every message almost immediately and gives up after a
// short retry budget, since writes happen on the request path.
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           time.Second,
		ReadTimeout:            time.Second,
		MaxAttempts:            2,
		WriteBackoffMax:        100 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
