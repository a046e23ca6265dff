package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"coldcommand/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB        *gorm.DB
	AppConfig Config
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type SmartleadConfig struct {
	APIKey  string        `json:"-"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

type Config struct {
	Environment string `json:"environment"`
	ServerPort  string `json:"server_port"`
	LogLevel    string `json:"log_level"`
	SentryDSN   string `json:"-"`

	DBHost         string `json:"db_host"`
	DBPort         string `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPassword     string `json:"-"`
	DBName         string `json:"db_name"`
	DBSSLMode      string `json:"db_ssl_mode"`
	DBMaxIdleConns int    `json:"db_max_idle_conns"`
	DBMaxOpenConns int    `json:"db_max_open_conns"`

	JWTSecret          string   `json:"-"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`

	Redis                   RedisConfig     `json:"redis"`
	RateLimitSequenceWrites int             `json:"rate_limit_sequence_writes"`
	Smartlead               SmartleadConfig `json:"smartlead"`
	StatusSyncInterval      time.Duration   `json:"status_sync_interval"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

func LoadConfig() error {
	AppConfig = Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "coldcommand"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimitSequenceWrites: getEnvAsInt("RATE_LIMIT_SEQUENCE_WRITES", 60),
		Smartlead: SmartleadConfig{
			APIKey:  getEnv("SMARTLEAD_API_KEY", ""),
			BaseURL: getEnv("SMARTLEAD_BASE_URL", "https://server.smartlead.ai/api/v1"),
			Timeout: time.Duration(getEnvAsInt("SMARTLEAD_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		StatusSyncInterval: time.Duration(getEnvAsInt("STATUS_SYNC_INTERVAL_MINUTES", 10)) * time.Minute,
	}

	// Validate required configurations
	if AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if AppConfig.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if AppConfig.Environment == "production" && AppConfig.Smartlead.APIKey == "" {
		return fmt.Errorf("SMARTLEAD_API_KEY is required in production")
	}
	if AppConfig.RateLimitSequenceWrites <= 0 {
		return fmt.Errorf("RATE_LIMIT_SEQUENCE_WRITES must be positive")
	}
	if AppConfig.StatusSyncInterval <= 0 {
		return fmt.Errorf("STATUS_SYNC_INTERVAL_MINUTES must be positive")
	}

	logConfig()
	return nil
}

func ConnectDB() error {
	log := logrus.WithField("component", "database")
	log.Info("Attempting to connect to database...")

	dsn := DSN()
	log.WithField("dsn", maskPassword(dsn)).Debug("Using connection string")

	gormLogLevel := logger.Warn
	if AppConfig.Environment == "production" {
		gormLogLevel = logger.Error
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("✅ Successfully connected to the database")

	log.Info("🔄 Starting database migration...")
	if err := migrateDB(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Info("✅ Database migration completed")
	return nil
}

// CloseDB releases the connection pool.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DSN builds the postgres connection string from AppConfig.
func DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	logrus.WithFields(logrus.Fields{
		"environment":          AppConfig.Environment,
		"server_port":          AppConfig.ServerPort,
		"database":             fmt.Sprintf("%s@%s:%s/%s", AppConfig.DBUser, AppConfig.DBHost, AppConfig.DBPort, AppConfig.DBName),
		"redis_enabled":        AppConfig.Redis.Enabled,
		"smartlead_configured": AppConfig.Smartlead.APIKey != "",
		"status_sync_interval": AppConfig.StatusSyncInterval.String(),
	}).Info("🔧 Loaded configuration")
}

func migrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.EmailAccount{},
		&models.OrgLead{},
		&models.Campaign{},
		&models.CampaignSequence{},
		&models.CampaignLead{},
	)
}
