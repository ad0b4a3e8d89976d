// cmd/seed/main.go
// Inserts a demo game roster for venue bring-up.
//
// Usage:
//
//	go run ./cmd/seed [-wipe]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/config"
	bundb "github.com/Darrellri/Arcade-Game-Leaderboard-sub000/db"
	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/models"
)

func main() {
	wipe := flag.Bool("wipe", false, "delete existing games and scores first")
	flag.Parse()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	if *wipe {
		if _, err := db.NewDelete().Model((*models.Score)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			log.Fatal("wipe scores:", err)
		}
		if _, err := db.NewDelete().Model((*models.Game)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			log.Fatal("wipe games:", err)
		}
	}

	roster := []struct {
		name     string
		subtitle string
		gameType string
	}{
		{"Pac-Man", "Midway, 1980", models.GameTypeArcade},
		{"Galaga", "Namco, 1981", models.GameTypeArcade},
		{"Donkey Kong", "Nintendo, 1981", models.GameTypeArcade},
		{"Medieval Madness", "Williams, 1997", models.GameTypePinball},
		{"Attack from Mars", "Bally, 1995", models.GameTypePinball},
		{"The Addams Family", "Bally, 1992", models.GameTypePinball},
	}

	for i, entry := range roster {
		subtitle := entry.subtitle
		game := &models.Game{
			Name:         entry.name,
			Subtitle:     &subtitle,
			GameType:     entry.gameType,
			DisplayOrder: i + 1,
		}
		if _, err := db.NewInsert().Model(game).Exec(ctx); err != nil {
			log.Fatal("insert game:", err)
		}
	}

	fmt.Printf("seeded %d games\n", len(roster))
}
