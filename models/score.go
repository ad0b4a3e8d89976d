package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Score is a single submitted score. Rows are insert-only: a score is never
// updated after submission, only deleted (individually by an admin, or in
// cascade when its game is removed).
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ScoreID     int       `bun:"score_id,pk,autoincrement" json:"id"`
	GameID      int       `bun:"game_id,notnull" json:"gameId"`
	PlayerName  string    `bun:"player_name,notnull" json:"playerName"`
	Score       int       `bun:"score,notnull" json:"score"`
	PhoneNumber string    `bun:"phone_number,notnull" json:"phoneNumber"`
	ImageURL    *string   `bun:"image_url" json:"imageUrl,omitempty"`
	Latitude    float64   `bun:"latitude,notnull" json:"latitude"`
	Longitude   float64   `bun:"longitude,notnull" json:"longitude"`
	SubmittedAt time.Time `bun:"submitted_at,nullzero,notnull,default:current_timestamp" json:"submittedAt"`

	Game *Game `bun:"rel:belongs-to,join:game_id=game_id" json:"-"`
}
