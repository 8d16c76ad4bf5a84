package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Auth       Auth       `yaml:"auth"`
	Uploads    Uploads    `yaml:"uploads"`
	Notify     Notify     `yaml:"notify"`
	Redis      Redis      `yaml:"redis"`
}

type Storage struct {
	Driver     string   `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	SQLitePath string   `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./storage/events.db"`
	Database   Database `yaml:"database"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"events"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type HTTPServer struct {
	Address       string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout       time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" env-default:"60s"`
	CORSOrigins   []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:","`
	RegisterRate  float64       `yaml:"register_rate" env-default:"1"`
	RegisterBurst int           `yaml:"register_burst" env-default:"5"`
	MaxUploadMB   int64         `yaml:"max_upload_mb" env-default:"10"`
}

type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"12h"`
	BcryptCost int           `yaml:"bcrypt_cost" env-default:"10"`
	Admin      AdminAccount  `yaml:"admin"`
}

// AdminAccount is created at startup when Username is set and no such user exists.
type AdminAccount struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type Uploads struct {
	Dir string `yaml:"dir" env:"UPLOADS_DIR" env-default:"./storage/uploads"`
}

type Notify struct {
	Workers     int           `yaml:"workers" env-default:"2"`
	QueueSize   int           `yaml:"queue_size" env-default:"256"`
	MaxAttempts int           `yaml:"max_attempts" env-default:"5"`
	Backoff     time.Duration `yaml:"backoff" env-default:"2s"`
	WebhookURL  string        `yaml:"webhook_url" env:"NOTIFY_WEBHOOK_URL"`
	Rabbit      Rabbit        `yaml:"rabbit"`
	SMTP        SMTP          `yaml:"smtp"`
}

type Rabbit struct {
	URL      string `yaml:"url" env:"RABBIT_URL"`
	Exchange string `yaml:"exchange" env-default:"event-notifications"`
	Queue    string `yaml:"queue" env-default:"event-notifications"`
}

type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env-default:"0"`
	ViewTTL  time.Duration `yaml:"view_ttl" env-default:"24h"`
}

func MustLoad() *Config {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
