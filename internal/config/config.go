package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		BaseURL      string `yaml:"base_url"` // link base for call-to-action URLs
	} `yaml:"email"`

	Push struct {
		CredentialsFile string `yaml:"credentials_file"` // FCM service account; empty disables push
	} `yaml:"push"`

	Queue struct {
		URL       string `yaml:"url"` // AMQP url; empty falls back to in-process delivery
		QueueName string `yaml:"queue_name"`
	} `yaml:"queue"`
}

var AppConfig *Config

// LoadConfig loads config.yaml, or builds the config from environment
// variables when DATABASE_URL is set (test/deploy mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("EMAIL_FROM")
	cfg.Email.FromName = "Allsers"
	cfg.Email.BaseURL = os.Getenv("APP_BASE_URL")

	cfg.Push.CredentialsFile = os.Getenv("FCM_CREDENTIALS_FILE")

	cfg.Queue.URL = os.Getenv("AMQP_URL")
	cfg.Queue.QueueName = os.Getenv("AMQP_QUEUE")
	if cfg.Queue.QueueName == "" {
		cfg.Queue.QueueName = "notification_delivery"
	}

	AppConfig = &cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
