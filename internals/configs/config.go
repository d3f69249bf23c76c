package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"obra360_backend/internals/helpers/worktime"
)

var (
	AppEnv    string
	JWTSecret string

	// Daily threshold between normal and overtime minutes.
	NormalShiftMinutes = worktime.DefaultNormalThreshold

	AccessTokenTTL     = 24 * time.Hour
	TokenBlacklistTTL  = 7 * 24 * time.Hour
	CorsAllowOrigins   = "http://localhost:3000"
	RequestTimeout     = 5 * time.Second
	SlowQueryThreshold = 200 * time.Millisecond
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[INFO] No .env file found, using system environment")
		} else {
			log.Println("[INFO] .env file loaded")
		}
	} else {
		log.Println("[INFO] Running in Railway, using system environment")
	}

	AppEnv = strings.ToLower(GetEnv("APP_ENV", "production"))
	JWTSecret = GetEnv("JWT_SECRET")
	NormalShiftMinutes = GetEnvInt("ATTENDANCE_NORMAL_MINUTES", worktime.DefaultNormalThreshold)
	AccessTokenTTL = time.Duration(GetEnvInt("ACCESS_TOKEN_TTL_HOURS", 24)) * time.Hour
	TokenBlacklistTTL = time.Duration(GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)) * 24 * time.Hour
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", CorsAllowOrigins)

	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set!")
	} else {
		log.Println("[INFO] JWT_SECRET loaded.")
	}
	if NormalShiftMinutes <= 0 {
		log.Printf("[WARN] ATTENDANCE_NORMAL_MINUTES=%d is invalid, falling back to %d", NormalShiftMinutes, worktime.DefaultNormalThreshold)
		NormalShiftMinutes = worktime.DefaultNormalThreshold
	}
}

func IsDevelopment() bool {
	return AppEnv == "development" || AppEnv == "dev"
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if IsDevelopment() {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: SlowQueryThreshold,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && err != gormLogger.ErrRecordNotFound:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
