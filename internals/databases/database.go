package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	personModel "obra360_backend/internals/features/attendance/persons/model"
	recordModel "obra360_backend/internals/features/attendance/records/model"
	authModel "obra360_backend/internals/features/users/auth/model"
	userModel "obra360_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	if strings.EqualFold(configs.GetEnv("DB_DRIVER", "postgres"), "sqlite") {
		path := configs.GetEnv("DB_PATH", "obra360.db")
		log.Println("[INFO] Opening SQLite database:", path)
		db, err := OpenSQLite(path, configs.NewGormLogger())
		if err != nil {
			log.Fatalf("[ERROR] Failed to open SQLite: %v", err)
		}
		DB = db
		return
	}

	log.Println("[INFO] Connecting to PostgreSQL...")

	// statement_timeout keeps DB work inside the HTTP timeout guard.
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=obra360&options=-c statement_timeout=3000",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect DB: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected.")
}

func TunePool() {
	if DB.Dialector.Name() == "sqlite" {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[ERROR] pool tune: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Printf("[WARN] warm-up ping: %v", err)
		}
	}()
}

// Migrate creates the tables and the (person, date) unique index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&personModel.PersonModel{},
		&recordModel.AttendanceRecordModel{},
	)
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
