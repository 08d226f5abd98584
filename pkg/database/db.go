package database

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxConnectAttempts = 30
	connectRetryDelay  = 2 * time.Second

	// The whole process (request handlers plus both background sweeps)
	// shares this small fixed pool.
	poolMaxOpen = 10
	poolMaxIdle = 1
)

var (
	DB   *gorm.DB
	once sync.Once
)

func Connect() *gorm.DB {
	once.Do(func() {
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			valueOrDefault("DB_HOST", "localhost"),
			valueOrDefault("DB_USER", "postgres"),
			os.Getenv("DB_PASS"),
			valueOrDefault("DB_NAME", "quizverse"),
			valueOrDefault("DB_PORT", "5432"),
		)

		var db *gorm.DB
		var err error
		for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
			db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err == nil {
				break
			}
			log.Printf("attempt %d: database not ready, retrying in %s...", attempt, connectRetryDelay)
			time.Sleep(connectRetryDelay)
		}
		if err != nil {
			log.Fatalf("failed to connect database after %d attempts: %v", maxConnectAttempts, err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("failed to access connection pool: %v", err)
		}
		sqlDB.SetMaxOpenConns(poolMaxOpen)
		sqlDB.SetMaxIdleConns(poolMaxIdle)

		DB = db
	})

	return DB
}

func GetDB() *gorm.DB {
	if DB == nil {
		return Connect()
	}
	return DB
}

// Close releases the shared connection pool. Called on shutdown.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
