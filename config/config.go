package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendCSV       = "csv"
	BackendMemory    = "memory"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendSheets    = "sheets"
)

// Attendance policies.
const (
	PolicyPresentAndAbsent = "present_and_absent"
	PolicyPresentOnly      = "present_only"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	StoreBackend string `mapstructure:"STORE_BACKEND"`
	CSVDataDir   string `mapstructure:"CSV_DATA_DIR"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Firebase / Firestore.
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Google Sheets.
	SheetsCredentialsPath string `mapstructure:"SHEETS_CREDENTIALS_PATH"`
	SheetsSpreadsheetID   string `mapstructure:"SHEETS_SPREADSHEET_ID"`
	SheetsRecordsSheet    string `mapstructure:"SHEETS_RECORDS_SHEET"`
	SheetsMembersSheet    string `mapstructure:"SHEETS_MEMBERS_SHEET"`
	SheetsMaxRetries      int    `mapstructure:"SHEETS_MAX_RETRIES"`

	// Redis configuration. An empty address keeps ledger locking in-process.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`

	LockWait         time.Duration `mapstructure:"LOCK_WAIT"`
	LockTTL          time.Duration `mapstructure:"LOCK_TTL"`
	AttendancePolicy string        `mapstructure:"ATTENDANCE_POLICY"`

	// Admin access.
	AdminUsername     string        `mapstructure:"ADMIN_USERNAME"`
	AdminPassword     string        `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
}

// LoadConfig reads configuration from defaults, an optional config.yaml, an optional .env file
// and the environment, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("config: failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("STORE_BACKEND", BackendCSV)
	v.SetDefault("CSV_DATA_DIR", "./data")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "attendify")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("SHEETS_CREDENTIALS_PATH", "")
	v.SetDefault("SHEETS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_RECORDS_SHEET", "Attendance")
	v.SetDefault("SHEETS_MEMBERS_SHEET", "Members")
	v.SetDefault("SHEETS_MAX_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_LOCK_DB", 0)
	v.SetDefault("LOCK_WAIT", 10*time.Second)
	v.SetDefault("LOCK_TTL", 30*time.Second)
	v.SetDefault("ATTENDANCE_POLICY", PolicyPresentAndAbsent)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 12*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.AttendancePolicy = strings.ToLower(strings.TrimSpace(cfg.AttendancePolicy))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendCSV:
		if c.CSVDataDir == "" {
			return fmt.Errorf("config: CSV_DATA_DIR is required for the csv backend")
		}
	case BackendMemory, BackendMongo:
	case BackendFirestore:
		if c.FirebaseCredentialsPath == "" {
			return fmt.Errorf("config: FIREBASE_CREDENTIALS_PATH is required for the firestore backend")
		}
	case BackendSheets:
		if c.SheetsCredentialsPath == "" || c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("config: SHEETS_CREDENTIALS_PATH and SHEETS_SPREADSHEET_ID are required for the sheets backend")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AttendancePolicy {
	case PolicyPresentAndAbsent, PolicyPresentOnly:
	default:
		return fmt.Errorf("config: unknown ATTENDANCE_POLICY %q", c.AttendancePolicy)
	}

	if c.LockWait <= 0 {
		return fmt.Errorf("config: LOCK_WAIT must be positive")
	}
	return nil
}

// IsProduction checks if the environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
