// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/prodtrack/backend-go/internal/domain"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	App        AppConfig
	Cache      CacheConfig
	Production ProductionConfig
	Storage    StorageConfig
	Drive      DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// MaxConcurrentTx bounds concurrent write transactions.
	MaxConcurrentTx int64
}

// DSN renders the lib/pq / pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type AppConfig struct {
	DataDir   string
	ReportDir string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	RecordTTLSeconds int
}

type ProductionConfig struct {
	// ActualDivisor scales actual quantities in plan mode (meters to km).
	ActualDivisor float64
	DefaultMode   domain.AggregationMode
	Areas         []domain.Area
}

// Catalog builds the area catalog, falling back to the built-in areas.
func (p ProductionConfig) Catalog() *domain.AreaCatalog {
	return domain.NewAreaCatalog(p.Areas)
}

type StorageConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// RecordPrefix is the object prefix of the record dumps fetched by seed.
	RecordPrefix string
	ReportPrefix string
}

// Enabled reports whether object storage is configured.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

type DriveConfig struct {
	ServiceAccountPath string
	PlanFolderPath     string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "prodtrack")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DB_MAX_CONCURRENT_TX", 4)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_DATA_DIR", "./data/input")
		viper.SetDefault("APP_REPORT_DIR", "./data/reports")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_RECORD_TTL_SECONDS", 300)
		viper.SetDefault("ACTUAL_UNIT_DIVISOR", 1000)
		viper.SetDefault("DEFAULT_MODE", string(domain.ModeRaw))
		viper.SetDefault("AREA_CODES", "")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("STORAGE_RECORD_PREFIX", "records/")
		viper.SetDefault("STORAGE_REPORT_PREFIX", "reports/")
		viper.SetDefault("DRIVE_SERVICE_ACCOUNT", "")
		viper.SetDefault("DRIVE_PLAN_FOLDER", "")

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_REPORT_DIR"))

		mode, ok := domain.ParseAggregationMode(viper.GetString("DEFAULT_MODE"))
		if !ok {
			mode = domain.ModeRaw
		}
		areas, err := ParseAreaCodes(viper.GetString("AREA_CODES"))
		if err != nil {
			log.Printf("ignoring AREA_CODES: %v", err)
			areas = nil
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:            viper.GetString("DB_HOST"),
				Port:            viper.GetString("DB_PORT"),
				User:            viper.GetString("DB_USER"),
				Password:        viper.GetString("DB_PASSWORD"),
				DBName:          viper.GetString("DB_NAME"),
				SSLMode:         viper.GetString("DB_SSLMODE"),
				MaxConcurrentTx: viper.GetInt64("DB_MAX_CONCURRENT_TX"),
			},
			App: AppConfig{
				DataDir:   viper.GetString("APP_DATA_DIR"),
				ReportDir: viper.GetString("APP_REPORT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				RecordTTLSeconds: viper.GetInt("CACHE_RECORD_TTL_SECONDS"),
			},
			Production: ProductionConfig{
				ActualDivisor: viper.GetFloat64("ACTUAL_UNIT_DIVISOR"),
				DefaultMode:   mode,
				Areas:         areas,
			},
			Storage: StorageConfig{
				Endpoint:     viper.GetString("STORAGE_ENDPOINT"),
				Bucket:       viper.GetString("STORAGE_BUCKET"),
				AccessKey:    viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey:    viper.GetString("STORAGE_SECRET_KEY"),
				UseSSL:       viper.GetBool("STORAGE_USE_SSL"),
				RecordPrefix: viper.GetString("STORAGE_RECORD_PREFIX"),
				ReportPrefix: viper.GetString("STORAGE_REPORT_PREFIX"),
			},
			Drive: DriveConfig{
				ServiceAccountPath: viper.GetString("DRIVE_SERVICE_ACCOUNT"),
				PlanFolderPath:     viper.GetString("DRIVE_PLAN_FOLDER"),
			},
		}
	})

	return instance
}

// ParseAreaCodes reads a comma separated "code:name[:unit]" list. A missing
// unit is derived from the area code.
func ParseAreaCodes(raw string) ([]domain.Area, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var areas []domain.Area
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("area %q: want code:name[:unit]", entry)
		}
		code, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if code == "" || name == "" {
			return nil, fmt.Errorf("area %q: empty code or name", entry)
		}
		unit := domain.UnitForArea(code)
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			unit = strings.TrimSpace(parts[2])
		}
		areas = append(areas, domain.Area{Code: code, Name: name, Unit: unit})
	}
	return areas, nil
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
