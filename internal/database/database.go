package database

import (
	"context"
	"fmt"
	"time"

	"survey-gen/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
)

// NewSQLXOracleDB connects through the go-ora driver and verifies the connection.
func NewSQLXOracleDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	logger.Get().Info("Successfully connected to Oracle database")
	return db, nil
}
