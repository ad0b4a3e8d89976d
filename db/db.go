package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/config"
	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order, then applies indexes.
// Index statements the dialect rejects are logged and skipped so the same
// schema setup works for the SQLite databases used in tests.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Game)(nil),
		(*models.Score)(nil),
		(*models.VenueSettings)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS scores_game_id_idx ON scores (game_id)`,
		`CREATE INDEX IF NOT EXISTS scores_game_score_idx ON scores (game_id, score DESC)`,
		`CREATE INDEX IF NOT EXISTS games_display_order_idx ON games (display_order, created_at)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}
