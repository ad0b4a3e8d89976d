package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Game types accepted by the API.
const (
	GameTypeArcade  = "arcade"
	GameTypePinball = "pinball"
)

// Game represents a cabinet or pinball machine on the venue floor.
//
// CurrentHighScore, TopScorerName and TopScoreDate are a denormalized cache of
// the best Score row for this game. They are maintained inside the score
// submission transaction and must never be written from anywhere else.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	GameID          int     `bun:"game_id,pk,autoincrement" json:"id"`
	Name            string  `bun:"name,notnull" json:"name"`
	Subtitle        *string `bun:"subtitle" json:"subtitle,omitempty"`
	ImageURL        string  `bun:"image_url,notnull,default:''" json:"imageUrl"`
	OverlayImageURL *string `bun:"overlay_image_url" json:"overlayImageUrl,omitempty"`
	GameType        string  `bun:"game_type,notnull" json:"type"`
	DisplayOrder    int     `bun:"display_order,notnull" json:"displayOrder"`
	Hidden          bool    `bun:"hidden,notnull,default:false" json:"hidden"`

	CurrentHighScore int        `bun:"current_high_score,notnull,default:0" json:"currentHighScore"`
	TopScorerName    *string    `bun:"top_scorer_name" json:"topScorerName,omitempty"`
	TopScoreDate     *time.Time `bun:"top_score_date" json:"topScoreDate,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// ValidGameType reports whether t is one of the accepted game types.
func ValidGameType(t string) bool {
	return t == GameTypeArcade || t == GameTypePinball
}
