package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
)

// openDB is swapped in tests to avoid a real Postgres dependency.
var openDB = sql.Open

// Pool bounds the database/sql connection pool.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

// ServerPool suits the long-running API process: one insert per ranked batch
// plus light history reads.
func ServerPool() Pool {
	return Pool{
		MaxOpen:     8,
		MaxIdle:     4,
		MaxLifetime: 30 * time.Minute,
		MaxIdleTime: 90 * time.Second,
		PingTimeout: 5 * time.Second,
	}
}

// MigratePool suits the one-shot migration command.
func MigratePool() Pool {
	return Pool{
		MaxOpen:     1,
		MaxIdle:     1,
		MaxLifetime: 10 * time.Minute,
		MaxIdleTime: time.Minute,
		PingTimeout: 5 * time.Second,
	}
}

// FromEnv returns a copy of p with DB_* variables applied where set.
func (p Pool) FromEnv() Pool {
	p.MaxOpen = envInt("DB_MAX_OPEN_CONNS", p.MaxOpen)
	p.MaxIdle = envInt("DB_MAX_IDLE_CONNS", p.MaxIdle)
	p.MaxLifetime = envDuration("DB_CONN_MAX_LIFETIME", p.MaxLifetime)
	p.MaxIdleTime = envDuration("DB_CONN_MAX_IDLE_TIME", p.MaxIdleTime)
	p.PingTimeout = envDuration("DB_PING_TIMEOUT", p.PingTimeout)
	return p
}

func (p Pool) apply(database *sql.DB) {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 8
	}
	if p.MaxIdle <= 0 {
		p.MaxIdle = 4
	}
	if p.MaxLifetime <= 0 {
		p.MaxLifetime = 30 * time.Minute
	}
	database.SetMaxOpenConns(p.MaxOpen)
	database.SetMaxIdleConns(p.MaxIdle)
	database.SetConnMaxLifetime(p.MaxLifetime)
	if p.MaxIdleTime > 0 {
		database.SetConnMaxIdleTime(p.MaxIdleTime)
	}
}

// Connect opens a pgx-backed *sql.DB for databaseURL and verifies it with a
// bounded ping. Callers share the returned handle for the process lifetime.
func Connect(ctx context.Context, databaseURL string, pool Pool) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	database, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pool.apply(database)

	timeout := pool.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Printf("db connected: max_open=%d", database.Stats().MaxOpenConnections)
	return database, nil
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("db env %s: %v", key, err)
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("db env %s: %v", key, err)
		return fallback
	}
	return v
}
