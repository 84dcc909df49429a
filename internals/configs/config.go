package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret      string
	PagbankToken   string
	PagbankBaseURL string
	BackendURL     string
	FrontendURL    string

	// CheckoutReuseWindow is how long an ACTIVE checkout stays reusable.
	CheckoutReuseWindow time.Duration
	// EnrollMaxRetries bounds re-execution after a serialization conflict.
	EnrollMaxRetries int
	// ReconcileCron is the schedule of the payment reconciliation poller.
	ReconcileCron string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] no .env file found, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	PagbankToken = GetEnv("PAGBANK_TOKEN")
	PagbankBaseURL = GetEnv("PAGBANK_BASE_URL", "https://api.pagbank.com")
	BackendURL = GetEnv("URL_BACKEND", "http://localhost:3000")
	FrontendURL = GetEnv("URL_FRONTEND", "http://localhost:5173")

	CheckoutReuseWindow = time.Duration(GetEnvInt("CHECKOUT_REUSE_WINDOW_MIN", 60)) * time.Minute
	EnrollMaxRetries = GetEnvInt("ENROLL_MAX_RETRIES", 2)
	ReconcileCron = GetEnv("RECONCILE_CRON", "*/5 * * * *")

	if JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set")
	}
	if PagbankToken == "" {
		log.Println("[WARN] PAGBANK_TOKEN is not set, gateway calls will be rejected")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
