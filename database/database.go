package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	dsn           string
	managementDsn string
	pool          *pgxpool.Pool
}

func NewDatabase(dsn string, managementDsn string) *Database {
	return &Database{
		dsn:           dsn,
		managementDsn: managementDsn,
	}
}

// Connect opens the connection pool and verifies it with a ping.
func (db *Database) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, db.dsn)
	if err != nil {
		return fmt.Errorf("unable to connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	db.pool = pool
	return nil
}

func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *Database) ManagementDsn() string {
	return db.managementDsn
}

func (db *Database) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
