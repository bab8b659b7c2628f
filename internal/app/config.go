package app

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress    string
	DatabasePath  string
	LogLevel      string
	JWTSecretKey  string
	AdminPassword string
	KafkaBrokers  []string
}

func NewConfigFromFlags() *Config {
	cfg := &Config{}
	var brokers string

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "Server address (env: RUN_ADDRESS)")
	flag.StringVar(&cfg.DatabasePath, "d", "./data/lendenbook.db", "SQLite database path (env: DATABASE_PATH)")
	flag.StringVar(&cfg.LogLevel, "l", "info", "Log level (debug|info|warn|error) (env: LOG_LEVEL)")
	flag.StringVar(&cfg.JWTSecretKey, "jwt-secret", "", "JWT secret key (env: JWT_SECRET_KEY)")
	flag.StringVar(&cfg.AdminPassword, "admin-password", "vinsolit", "Bootstrap admin password (env: ADMIN_PASSWORD)")
	flag.StringVar(&brokers, "kafka-brokers", "", "Comma-separated Kafka brokers, empty disables events (env: KAFKA_BROKERS)")
	flag.Parse()

	// A .env file is optional; missing is not an error.
	_ = godotenv.Load()

	cfg.applyEnvVars(&brokers)
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.validate()

	return cfg
}

func (c *Config) applyEnvVars(brokers *string) {
	if envAddr := os.Getenv("RUN_ADDRESS"); envAddr != "" {
		c.RunAddress = envAddr
	}
	if envDB := os.Getenv("DATABASE_PATH"); envDB != "" {
		c.DatabasePath = envDB
	}
	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		c.LogLevel = envLogLevel
	}
	if envSecret := os.Getenv("JWT_SECRET_KEY"); envSecret != "" {
		c.JWTSecretKey = envSecret
	}
	if envAdminPassword := os.Getenv("ADMIN_PASSWORD"); envAdminPassword != "" {
		c.AdminPassword = envAdminPassword
	}
	if envBrokers := os.Getenv("KAFKA_BROKERS"); envBrokers != "" {
		*brokers = envBrokers
	}
}

func (c *Config) validate() {
	if c.JWTSecretKey == "" {
		panic("JWT secret key is required (use -jwt-secret flag or JWT_SECRET_KEY env)")
	}
	if c.DatabasePath == "" {
		panic("Database path is required (use -d flag or DATABASE_PATH env)")
	}
}
