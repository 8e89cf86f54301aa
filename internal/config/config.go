package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"schedule-reconciler/internal/domain"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL        string
	HTTPAddr           string
	CORSOrigins        []string
	TelegramToken      string
	BaseAdminChatID    int64
	ReportPath         string
	ReportTemplatePath string
	HolidaysPath       string
	LunchNoteMode      domain.LunchNoteMode
	SyncIntervalMin    int
	LogLevel           logrus.Level
}

var instance *Config
var once sync.Once

// GetConfig загружает конфиг один раз; ошибка конфигурации фатальна.
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает .env (если он есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading env variables: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", "schedule.db"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8000"),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		TelegramToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		BaseAdminChatID:    getEnvAsInt("BASE_ADMIN_CHAT_ID", 0),
		ReportPath:         getEnv("REPORT_PATH", "report.xlsx"),
		ReportTemplatePath: getEnv("REPORT_TEMPLATE_PATH", ""),
		HolidaysPath:       getEnv("HOLIDAYS_PATH", ""),
		SyncIntervalMin:    int(getEnvAsInt("SYNC_INTERVAL", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL must not be empty")
	}
	if cfg.SyncIntervalMin < 0 {
		return nil, fmt.Errorf("SYNC_INTERVAL must not be negative, got %d", cfg.SyncIntervalMin)
	}

	mode, err := domain.ParseLunchNoteMode(getEnv("LUNCH_NOTE_MODE", "always"))
	if err != nil {
		return nil, err
	}
	cfg.LunchNoteMode = mode

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsList(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
