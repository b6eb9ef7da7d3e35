package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"player-pairing"`
	// Storage selects the device store: postgres or memory.
	Storage string `env:"STORAGE" envDefault:"postgres"`

	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Jaeger   JaegerConfig
	Pairing  PairingConfig
	Presence PresenceConfig
	MQTT     MQTTConfig
	Influx   InfluxConfig
}

type ServerConfig struct {
	Mode   string `env:"SERVER_MODE"   envDefault:"dev"`
	Port   int    `env:"SERVER_PORT"   envDefault:"8080"`
	Scheme string `env:"SERVER_SCHEME" envDefault:"http"`
	Domain string `env:"SERVER_DOMAIN" envDefault:"localhost"`
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `env:"SERVER_TRUST_PROXY" envDefault:"false"`
}

type DBConfig struct {
	Host     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT"     envDefault:"5432"`
	User     string `env:"POSTGRES_USER"     envDefault:"app_owner"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"app_password"`
	Database string `env:"POSTGRES_DB"       envDefault:"db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Pass string `env:"REDIS_PASS"`
	DB   int    `env:"REDIS_DB"   envDefault:"0"`
}

type AuthConfig struct {
	JWT JWTConfig
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET" envDefault:"secret"`
	Issuer string `env:"JWT_ISSUER" envDefault:"player-pairing"`
}

type JaegerConfig struct {
	Sampler  SamplerConfig
	Reporter ReporterConfig
}

type SamplerConfig struct {
	Type  string  `env:"JAEGER_SAMPLER_TYPE"  envDefault:"const"`
	Param float64 `env:"JAEGER_SAMPLER_PARAM" envDefault:"1"`
}

type ReporterConfig struct {
	LogSpans           bool   `env:"JAEGER_REPORTER_LOG_SPANS"  envDefault:"false"`
	LocalAgentHostPort string `env:"JAEGER_REPORTER_AGENT_ADDR" envDefault:"localhost:6831"`
}

type PairingConfig struct {
	CodeTTL        time.Duration `env:"PAIRING_CODE_TTL"          envDefault:"1h"`
	QRBaseURL      string        `env:"PAIRING_QR_BASE_URL"       envDefault:"https://api.ods-cloud.com/players/pair"`
	StatusCacheTTL time.Duration `env:"PAIRING_STATUS_CACHE_TTL"  envDefault:"15s"`
	RateLimit      int           `env:"PAIRING_RATE_LIMIT"        envDefault:"100"`
	RateWindow     time.Duration `env:"PAIRING_RATE_LIMIT_WINDOW" envDefault:"5m"`
}

type PresenceConfig struct {
	ResetOnStart     bool          `env:"PRESENCE_RESET_ON_START"     envDefault:"true"`
	LivenessTimeout  time.Duration `env:"PRESENCE_LIVENESS_TIMEOUT"   envDefault:"0s"`
	SweepInterval    time.Duration `env:"PRESENCE_SWEEP_INTERVAL"     envDefault:"30s"`
	WriteQueueSize   int           `env:"PRESENCE_WRITE_QUEUE_SIZE"   envDefault:"1024"`
	WriteBatchSize   int           `env:"PRESENCE_WRITE_BATCH_SIZE"   envDefault:"128"`
	WSPingInterval   time.Duration `env:"PRESENCE_WS_PING_INTERVAL"   envDefault:"30s"`
	WSPongTimeout    time.Duration `env:"PRESENCE_WS_PONG_TIMEOUT"    envDefault:"10s"`
	WSMaxMessageSize int64         `env:"PRESENCE_WS_MAX_MESSAGE_SIZE" envDefault:"8192"`
}

type MQTTConfig struct {
	Enabled     bool   `env:"MQTT_ENABLED"      envDefault:"false"`
	Host        string `env:"MQTT_HOST"         envDefault:"localhost"`
	Port        int    `env:"MQTT_PORT"         envDefault:"1883"`
	TLS         bool   `env:"MQTT_TLS"          envDefault:"false"`
	ClientID    string `env:"MQTT_CLIENT_ID"    envDefault:"player-pairing"`
	Username    string `env:"MQTT_USERNAME"`
	Password    string `env:"MQTT_PASSWORD"`
	TopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"players"`
	QoS         byte   `env:"MQTT_QOS"          envDefault:"1"`
}

type InfluxConfig struct {
	Enabled bool   `env:"INFLUX_ENABLED" envDefault:"false"`
	URL     string `env:"INFLUX_URL"     envDefault:"http://localhost:8086"`
	Token   string `env:"INFLUX_TOKEN"`
	Org     string `env:"INFLUX_ORG"     envDefault:"players"`
	Bucket  string `env:"INFLUX_BUCKET"  envDefault:"presence"`
}

// MustLoad reads an optional .env file at path and then parses the process
// environment into Config. Missing .env is not an error.
func MustLoad(path string) Config {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.L().Fatal("failed to load env file", zap.String("path", path), zap.Error(err))
	}

	conf := Config{}
	if err := env.Parse(&conf); err != nil {
		zap.L().Fatal("failed to parse config", zap.Error(err))
	}

	return conf
}
