package main

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/config"
	"github.com/verte-zerg/cogni/internal/logger"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"
	"github.com/verte-zerg/cogni/internal/sink"
	"github.com/verte-zerg/cogni/internal/store"
)

// app bundles everything a command needs to read or record progress.
type app struct {
	file     config.FileConfig
	log      *logger.Logger
	store    *store.Store
	progress *progress.Store
	catalog  *catalog.Catalog
	closers  []io.Closer
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

// openApp opens the database and rehydrates progress.
// playableOnly restricts plans to games with a terminal version. withSink
// connects the result mirror; only commands that record results need it.
func openApp(ctx context.Context, fileCfg config.FileConfig, playableOnly, withSink bool) (*app, error) {
	log, err := newLogger(fileCfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	a := &app{file: fileCfg, log: log, store: st, catalog: catalog.Default()}
	if playableOnly {
		a.catalog = a.catalog.TerminalOnly()
	}

	syncCfg := resolveSyncConfig(fileCfg)
	var resultSink progress.ResultSink
	if withSink {
		resultSink, err = a.newSink(syncCfg)
		if err != nil {
			// The mirror is optional; local progress still works.
			log.Warn("result sync disabled", "error", err)
			resultSink = nil
		}
	}

	a.progress = progress.New(progress.Options{
		Catalog:      a.catalog,
		Achievements: achievement.Default(),
		Persister:    st,
		Sink:         resultSink,
		UserID:       syncCfg.UserID,
		SinkTimeout:  syncCfg.Timeout,
		Logger:       log,
	})
	if err := a.progress.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return a, nil
}

func newLogger(fileCfg config.FileConfig) (*logger.Logger, error) {
	level := defaultLogLevel
	path := config.DefaultLogPath()
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	if fileCfg.Log.File != nil {
		path = *fileCfg.Log.File
	}
	log, err := logger.New(level, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func resolveSyncConfig(fileCfg config.FileConfig) model.SyncConfig {
	cfg := model.SyncConfig{
		KafkaTopic: sink.DefaultTopic,
		Timeout:    defaultSyncTimeout,
	}
	s := fileCfg.Sync
	if s.UserID != nil {
		cfg.UserID = *s.UserID
	}
	if s.Endpoint != nil {
		cfg.Endpoint = *s.Endpoint
	}
	if s.KafkaBrokers != nil {
		cfg.KafkaBrokers = append([]string(nil), *s.KafkaBrokers...)
	}
	if s.KafkaTopic != nil && *s.KafkaTopic != "" {
		cfg.KafkaTopic = *s.KafkaTopic
	}
	if s.Timeout != nil && s.Timeout.Duration > 0 {
		cfg.Timeout = s.Timeout.Duration
	}
	return cfg
}

const (
	sinkNone  = ""
	sinkKafka = "kafka"
	sinkHTTP  = "http"
)

// sinkKind picks the mirror for cfg. Kafka wins over HTTP. Without a user id
// results are never submitted, so no sink is built.
func sinkKind(cfg model.SyncConfig) string {
	if cfg.UserID == "" {
		return sinkNone
	}
	switch {
	case len(cfg.KafkaBrokers) > 0:
		return sinkKafka
	case cfg.Endpoint != "":
		return sinkHTTP
	default:
		return sinkNone
	}
}

func (a *app) newSink(cfg model.SyncConfig) (progress.ResultSink, error) {
	switch sinkKind(cfg) {
	case sinkKafka:
		ks, err := sink.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, ks)
		return ks, nil
	case sinkHTTP:
		return sink.NewHTTP(cfg.Endpoint, cfg.Timeout), nil
	}
	if len(cfg.KafkaBrokers) > 0 || cfg.Endpoint != "" {
		a.log.Warn("result sync configured without user-id; results stay local")
	}
	return nil, nil
}

// save persists progress and reports failures on stderr.
func (a *app) save(ctx context.Context) error {
	if err := a.progress.Save(ctx); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Close waits for pending result uploads, then releases resources.
func (a *app) Close() {
	a.progress.Close()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("failed to close sink", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	a.log.Sync()
}
