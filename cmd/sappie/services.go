package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sacredtrees/sappie/internal/aitable"
	"github.com/sacredtrees/sappie/internal/config"
	"github.com/sacredtrees/sappie/internal/database"
	"github.com/sacredtrees/sappie/internal/gemini"
	"github.com/sacredtrees/sappie/internal/persona"
	"github.com/sacredtrees/sappie/internal/poster"
	"github.com/sacredtrees/sappie/internal/retry"
	"github.com/sacredtrees/sappie/internal/twitter"

	_ "modernc.org/sqlite"
)

// services are the long-lived clients shared by every command that talks
// to the outside world.
type services struct {
	db      *sqlx.DB
	store   database.Store
	gemini  gemini.Client
	persona *persona.Persona
	poster  *poster.Service
}

const (
	dbPingAttempts = 3
	dbPingDelay    = 500 * time.Millisecond
)

// openStore opens the post log and checks it answers before handing it out.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sqlx.DB, database.Store, error) {
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}
	store := database.NewStore(db, log)
	if err := retry.Do(ctx, dbPingAttempts, dbPingDelay, store.Ping); err != nil {
		database.CloseDB(db)
		return nil, nil, fmt.Errorf("database %s is not responding: %w", cfg.Database.Path, err)
	}
	return db, store, nil
}

func newServices(ctx context.Context, cfg *config.Config, log *slog.Logger) (*services, error) {
	db, store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	gem, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		database.CloseDB(db)
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	var tw twitter.Poster
	if cfg.Twitter.Enabled {
		tw = twitter.NewClient(cfg.Twitter, log)
	} else {
		log.Info("Twitter posting disabled")
	}

	p := persona.New(nil, log)
	return &services{
		db:      db,
		store:   store,
		gemini:  gem,
		persona: p,
		poster: poster.New(poster.Deps{
			Persona:   p,
			Generator: gem,
			Twitter:   tw,
			Records:   aitable.NewClient(cfg.AITable, log),
			Store:     store,
			Config:    cfg,
			Logger:    log,
		}),
	}, nil
}

func (s *services) Close() {
	database.CloseDB(s.db)
}
