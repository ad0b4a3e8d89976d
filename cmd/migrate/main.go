// cmd/migrate/main.go
// Imports the legacy MySQL high-score database into the local PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/highscores?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/config"
	bundb "github.com/Darrellri/Arcade-Game-Leaderboard-sub000/db"
	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/highscores?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	gameIDs, err := migrateGames(ctx, myDB, pgDB)
	if err != nil {
		log.Fatalf("migrate games: %v", err)
	}
	log.Printf("migrated %d games", len(gameIDs))

	n, err := migrateScores(ctx, myDB, pgDB, gameIDs)
	if err != nil {
		log.Fatalf("migrate scores: %v", err)
	}
	log.Printf("migrated %d scores", n)

	if err := rebuildChampionCaches(ctx, pgDB); err != nil {
		log.Fatalf("rebuild champion caches: %v", err)
	}
	log.Println("champion caches rebuilt from imported scores")
}

// migrateGames copies the legacy games table and returns old-id -> new-id.
// Legacy rows carry the "true"/"false" string hidden flag; it is converted to
// a native boolean here.
func migrateGames(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (map[int]int, error) {
	rows, err := myDB.QueryContext(ctx, `
		SELECT id, name, COALESCE(subtitle, ''), COALESCE(image_url, ''),
		       COALESCE(overlay_image_url, ''), type, display_order,
		       COALESCE(hidden, 'false'), created_at
		FROM games ORDER BY display_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int]int)
	for rows.Next() {
		var (
			oldID, displayOrder              int
			name, subtitle, imageURL         string
			overlayURL, gameType, hiddenText string
			createdAt                        time.Time
		)
		if err := rows.Scan(&oldID, &name, &subtitle, &imageURL, &overlayURL,
			&gameType, &displayOrder, &hiddenText, &createdAt); err != nil {
			return nil, err
		}

		game := &models.Game{
			Name:         name,
			ImageURL:     imageURL,
			GameType:     gameType,
			DisplayOrder: displayOrder,
			Hidden:       hiddenText == "true",
			CreatedAt:    createdAt,
		}
		if subtitle != "" {
			game.Subtitle = &subtitle
		}
		if overlayURL != "" {
			game.OverlayImageURL = &overlayURL
		}
		if !models.ValidGameType(game.GameType) {
			game.GameType = models.GameTypeArcade
		}

		if _, err := pgDB.NewInsert().Model(game).Exec(ctx); err != nil {
			return nil, err
		}
		ids[oldID] = game.GameID
	}
	return ids, rows.Err()
}

func migrateScores(ctx context.Context, myDB *sql.DB, pgDB *bun.DB, gameIDs map[int]int) (int, error) {
	rows, err := myDB.QueryContext(ctx, `
		SELECT game_id, player_name, score, COALESCE(phone_number, ''),
		       COALESCE(image_url, ''), COALESCE(latitude, 0), COALESCE(longitude, 0),
		       submitted_at
		FROM scores ORDER BY id`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var (
		batch   []*models.Score
		total   int
		skipped int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pgDB.NewInsert().Model(&batch).Exec(ctx); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		var (
			oldGameID, points  int
			player, phone, img string
			lat, lng           float64
			submittedAt        time.Time
		)
		if err := rows.Scan(&oldGameID, &player, &points, &phone, &img,
			&lat, &lng, &submittedAt); err != nil {
			return total, err
		}

		newGameID, ok := gameIDs[oldGameID]
		if !ok {
			skipped++
			continue
		}

		score := &models.Score{
			GameID:      newGameID,
			PlayerName:  player,
			Score:       points,
			PhoneNumber: phone,
			Latitude:    lat,
			Longitude:   lng,
			SubmittedAt: submittedAt,
		}
		if img != "" {
			score.ImageURL = &img
		}

		batch = append(batch, score)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}

	if skipped > 0 {
		log.Printf("skipped %d scores referencing unknown games", skipped)
	}
	return total, nil
}

// rebuildChampionCaches recomputes every game's cached high score from the
// imported score rows, so the caches are authoritative at cutover.
func rebuildChampionCaches(ctx context.Context, pgDB *bun.DB) error {
	var games []models.Game
	if err := pgDB.NewSelect().Model(&games).Scan(ctx); err != nil {
		return err
	}

	for i := range games {
		game := &games[i]

		best := new(models.Score)
		err := pgDB.NewSelect().Model(best).
			Where("game_id = ?", game.GameID).
			Order("score DESC").
			Order("submitted_at ASC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return err
		}

		game.CurrentHighScore = best.Score
		game.TopScorerName = &best.PlayerName
		game.TopScoreDate = &best.SubmittedAt
		if _, err := pgDB.NewUpdate().Model(game).
			Column("current_high_score", "top_scorer_name", "top_score_date").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
