package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"f0oster/regwatch/config"
	"f0oster/regwatch/database"
	"f0oster/regwatch/logging"
	"f0oster/regwatch/notify"
	"f0oster/regwatch/snapshot"
	"f0oster/regwatch/versioning"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg     config.RegwatchConfiguration
	log     *logging.Logger
	db      *database.Database
	client  *database.DBClient
	memory  *database.MemoryStore
	service *versioning.Service
	closers []func()
}

func loadConfig() (config.RegwatchConfiguration, error) {
	return config.LoadEnvConfig(configFile)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, log.Sync)

	heuristics, err := config.LoadHeuristics(cfg.HeuristicsFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := heuristics.VersioningOptions()
	opts.MaxConcurrency = cfg.MaxConcurrency
	opts.SourceRate = cfg.SourceRate

	a.service = versioning.NewService(store, a.buildSink(), log, opts)
	if a.client != nil {
		a.service.SetRecordSink(a.client)
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (versioning.DocumentStore, error) {
	if a.cfg.Dsn == "" {
		a.log.Warn("no REGWATCH_DSN configured, using in-memory document store")
		a.memory = database.NewMemoryStore()
		if seedFile != "" {
			captures, err := readCaptures(seedFile)
			if err != nil {
				return nil, err
			}
			res, err := snapshot.NewService(a.log).Ingest(ctx, a.memory, captures)
			if err != nil {
				return nil, fmt.Errorf("seed in-memory store: %w", err)
			}
			a.log.Info("in-memory store seeded",
				"file", seedFile,
				"inserted", res.Inserted,
				"duplicates", res.Duplicates,
				"invalid", res.Invalid,
			)
		}
		return a.memory, nil
	}

	a.db = database.NewDatabase(a.cfg.Dsn, a.cfg.ManagementDsn)
	if err := a.db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, a.db.Close)
	a.client = database.NewDBClient(a.db.Pool())
	return a.client, nil
}

func (a *app) buildSink() notify.Sink {
	sinks := notify.Multi{notify.NewLogSink(a.log)}
	if a.cfg.RedisAddr == "" {
		return sinks
	}
	redisSink, err := notify.NewRedisSink(a.log, a.cfg.RedisAddr, a.cfg.RedisChannel)
	if err != nil {
		a.log.Warn("redis alerts disabled", "error", err)
		return sinks
	}
	a.closers = append(a.closers, func() { _ = redisSink.Close() })
	return append(sinks, redisSink)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// readCaptures decodes a YAML (or JSON) list of captured document entries.
func readCaptures(path string) ([]snapshot.Capture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read captures file: %w", err)
	}
	var captures []snapshot.Capture
	if err := yaml.Unmarshal(raw, &captures); err != nil {
		return nil, fmt.Errorf("parse captures file: %w", err)
	}
	return captures, nil
}
