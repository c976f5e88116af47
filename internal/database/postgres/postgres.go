package postgres

import (
	"fmt"
	"log"
	"time"

	"farmassist-backend/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DBStatus bool

// Connect opens the farmassist database and verifies the connection. Schema
// for the blob table is owned by the storage layer.
func Connect(cfg config.PostgresConfig) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName)

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DBName)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	DBStatus = true
	return db, nil
}

// RetryConnectOnFailed keeps retrying the connection in the background until
// it succeeds, replacing *db on success.
func RetryConnectOnFailed(wait time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	if DBStatus {
		log.Printf("false database lost connection alert, abort retry")
		return
	}

	if *db != nil {
		if err := (*db).Ping(); err == nil {
			log.Printf("database connection is healthy, no retry needed")
			return
		}
	}

	newDB, err := Connect(cfg)
	if err == nil {
		*db = newDB
		log.Printf("database retry connection successful")
		return
	}

	log.Printf("failed to retry connect database: %s, next retry in %v", err, wait)
	time.Sleep(wait)
	RetryConnectOnFailed(wait, db, cfg)
}
