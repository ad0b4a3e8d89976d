package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Display modes for the public leaderboard screen.
const (
	DisplayModeSingle = "single"
	DisplayModeScroll = "scroll"
	DisplayModeGrid   = "grid"
)

// Theme holds the venue's display theme.
type Theme struct {
	Primary    string  `json:"primary"`
	Variant    string  `json:"variant"`
	Appearance string  `json:"appearance"`
	Radius     float64 `json:"radius"`
}

// ThemePreset is a named Theme selectable from the admin UI.
type ThemePreset struct {
	Name  string `json:"name"`
	Theme Theme  `json:"theme"`
}

// VenueSettings is the singleton configuration row. Exactly one row exists,
// pinned to SettingsRowID; it is created lazily on first read and mutated only
// by merge-by-presence partial updates.
type VenueSettings struct {
	bun.BaseModel `bun:"table:venue_settings,alias:vs"`

	ID               int    `bun:"id,pk" json:"-"`
	Name             string `bun:"name,notnull" json:"name"`
	LeaderboardTitle string `bun:"leaderboard_title,notnull" json:"leaderboardTitle"`
	Subtitle         string `bun:"subtitle,notnull,default:''" json:"subtitle"`
	LogoURL          string `bun:"logo_url,notnull,default:''" json:"logoUrl"`
	SmallLogoURL     string `bun:"small_logo_url,notnull,default:''" json:"smallLogoUrl"`

	SubtitleBold    bool `bun:"subtitle_bold,notnull,default:false" json:"subtitleBold"`
	ShowQRCodes     bool `bun:"show_qr_codes,notnull,default:true" json:"showQrCodes"`
	ShowGameImages  bool `bun:"show_game_images,notnull,default:true" json:"showGameImages"`
	ShowScoreDates  bool `bun:"show_score_dates,notnull,default:false" json:"showScoreDates"`
	RotationEnabled bool `bun:"rotation_enabled,notnull,default:true" json:"rotationEnabled"`

	DisplayMode     string  `bun:"display_mode,notnull" json:"displayMode"`
	RotationSeconds int     `bun:"rotation_seconds,notnull" json:"rotationSeconds"`
	ScrollSpeed     int     `bun:"scroll_speed,notnull" json:"scrollSpeed"`
	RowSpacing      int     `bun:"row_spacing,notnull" json:"rowSpacing"`
	GridColumns     int     `bun:"grid_columns,notnull" json:"gridColumns"`
	FontScale       float64 `bun:"font_scale,notnull" json:"fontScale"`

	Theme        Theme         `bun:"theme,type:jsonb" json:"theme"`
	ThemePresets []ThemePreset `bun:"theme_presets,type:jsonb" json:"themePresets"`

	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// SettingsRowID pins the singleton row's primary key.
const SettingsRowID = 1

// ValidDisplayMode reports whether m is one of the accepted display modes.
func ValidDisplayMode(m string) bool {
	return m == DisplayModeSingle || m == DisplayModeScroll || m == DisplayModeGrid
}

// DefaultSettings returns the row inserted on first settings read.
func DefaultSettings() *VenueSettings {
	return &VenueSettings{
		ID:               SettingsRowID,
		Name:             "High Score Haven",
		LeaderboardTitle: "High Scores",
		SubtitleBold:     false,
		ShowQRCodes:      true,
		ShowGameImages:   true,
		ShowScoreDates:   false,
		RotationEnabled:  true,
		DisplayMode:      DisplayModeSingle,
		RotationSeconds:  12,
		ScrollSpeed:      40,
		RowSpacing:       8,
		GridColumns:      3,
		FontScale:        1.0,
		Theme: Theme{
			Primary:    "#e11d48",
			Variant:    "vibrant",
			Appearance: "dark",
			Radius:     0.5,
		},
		ThemePresets: DefaultThemePresets(),
	}
}

// DefaultThemePresets returns the built-in theme choices shown in the admin UI.
func DefaultThemePresets() []ThemePreset {
	return []ThemePreset{
		{Name: "Neon Rose", Theme: Theme{Primary: "#e11d48", Variant: "vibrant", Appearance: "dark", Radius: 0.5}},
		{Name: "Electric Blue", Theme: Theme{Primary: "#2563eb", Variant: "vibrant", Appearance: "dark", Radius: 0.5}},
		{Name: "Arcade Purple", Theme: Theme{Primary: "#7c3aed", Variant: "vibrant", Appearance: "dark", Radius: 0.75}},
		{Name: "CRT Green", Theme: Theme{Primary: "#16a34a", Variant: "professional", Appearance: "dark", Radius: 0}},
		{Name: "Sunset Orange", Theme: Theme{Primary: "#ea580c", Variant: "vibrant", Appearance: "dark", Radius: 0.5}},
		{Name: "Hot Pink", Theme: Theme{Primary: "#db2777", Variant: "vibrant", Appearance: "dark", Radius: 1}},
		{Name: "Gold Rush", Theme: Theme{Primary: "#ca8a04", Variant: "tint", Appearance: "dark", Radius: 0.25}},
		{Name: "Ice Cold", Theme: Theme{Primary: "#0891b2", Variant: "tint", Appearance: "light", Radius: 0.5}},
		{Name: "Classic Light", Theme: Theme{Primary: "#334155", Variant: "professional", Appearance: "light", Radius: 0.5}},
		{Name: "Midnight", Theme: Theme{Primary: "#475569", Variant: "professional", Appearance: "dark", Radius: 0.25}},
	}
}
