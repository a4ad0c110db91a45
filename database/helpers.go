package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"f0oster/regwatch/logging"
)

//go:embed schema.sql
var schemaSQL string

// ResetDatabase drops and recreates dbName through the management connection,
// then applies the schema through dsn.
func ResetDatabase(ctx context.Context, log *logging.Logger, managementDsn, dsn, dbName string) error {
	managementPool, err := pgxpool.New(ctx, managementDsn)
	if err != nil {
		return fmt.Errorf("connect management database: %w", err)
	}
	defer managementPool.Close()

	ident := pgx.Identifier{dbName}.Sanitize()
	if _, err := managementPool.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("drop database %s: %w", dbName, err)
	}
	log.Info("database dropped (if it existed)", "database", dbName)

	if _, err := managementPool.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	log.Info("database created", "database", dbName)
	managementPool.Close()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect %s: %w", dbName, err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	log.Info("tables created", "database", dbName)
	return nil
}
