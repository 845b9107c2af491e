package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Elastic    ElasticsearchConfig
	Media      MediaConfig
	Order      OrderConfig
	Storefront StorefrontConfig
	I18n       I18nConfig
	Cart       CartConfig
}

type ServerConfig struct {
	AppEnv    string
	HTTPPort  string
	GRPCPort  string
	PublicURL string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
	CartTTL  time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
	Index     string
}

type MediaConfig struct {
	StaticDir string
	URLPrefix string
}

type OrderConfig struct {
	NumberPrefix string
}

type StorefrontConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type I18nConfig struct {
	Dir string
}

type CartConfig struct {
	LocalPath string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:    getEnv("APP_ENV", "dev"),
			HTTPPort:  getEnv("HTTP_PORT", ":8080"),
			GRPCPort:  getEnv("GRPC_PORT", ":8082"),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:8080"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "penstore"),
			Password:        getEnv("POSTGRES_PASSWORD", "penstore"),
			DBName:          getEnv("POSTGRES_DB", "penstore"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			SQLitePath:      getEnv("SQLITE_PATH", "file:penstore.db?_foreign_keys=on"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 30),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
			TTL:       getEnvDuration("JWT_TTL", 12*time.Hour),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("REDIS_CACHE_TTL", 5*time.Minute),
			CartTTL:  getEnvDuration("REDIS_CART_TTL", 30*24*time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			GroupID: getEnv("KAFKA_GROUP_STOCK", "penstore-stock"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", true),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:     getEnv("ELASTICSEARCH_INDEX", "products"),
		},
		Media: MediaConfig{
			StaticDir: getEnv("MEDIA_DIR", "media"),
			URLPrefix: getEnv("MEDIA_URL_PREFIX", "/media"),
		},
		Order: OrderConfig{
			NumberPrefix: getEnv("ORDER_NUMBER_PREFIX", "MB"),
		},
		Storefront: StorefrontConfig{
			DefaultPageSize: getEnvInt("STOREFRONT_PAGE_SIZE", 12),
			MaxPageSize:     getEnvInt("STOREFRONT_MAX_PAGE_SIZE", 100),
		},
		I18n: I18nConfig{
			Dir: getEnv("I18N_DIR", ""),
		},
		Cart: CartConfig{
			LocalPath: getEnv("CART_DB_PATH", ".penstore-cart"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
