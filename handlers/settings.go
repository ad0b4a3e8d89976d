package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/models"
)

// updateSettingsRequest is all-pointers so that merge-by-presence works:
// a field omitted from the body stays nil and keeps its stored value.
type updateSettingsRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	LeaderboardTitle *string `json:"leaderboardTitle" validate:"omitempty,min=1,max=100"`
	Subtitle         *string `json:"subtitle" validate:"omitempty,max=200"`
	LogoURL          *string `json:"logoUrl" validate:"omitempty,max=500"`
	SmallLogoURL     *string `json:"smallLogoUrl" validate:"omitempty,max=500"`

	SubtitleBold    *bool `json:"subtitleBold"`
	ShowQRCodes     *bool `json:"showQrCodes"`
	ShowGameImages  *bool `json:"showGameImages"`
	ShowScoreDates  *bool `json:"showScoreDates"`
	RotationEnabled *bool `json:"rotationEnabled"`

	DisplayMode     *string  `json:"displayMode" validate:"omitempty,oneof=single scroll grid"`
	RotationSeconds *int     `json:"rotationSeconds" validate:"omitempty,gte=1,lte=600"`
	ScrollSpeed     *int     `json:"scrollSpeed" validate:"omitempty,gte=1,lte=500"`
	RowSpacing      *int     `json:"rowSpacing" validate:"omitempty,gte=0,lte=100"`
	GridColumns     *int     `json:"gridColumns" validate:"omitempty,gte=1,lte=8"`
	FontScale       *float64 `json:"fontScale" validate:"omitempty,gte=0.5,lte=3"`

	Theme        *models.Theme         `json:"theme"`
	ThemePresets *[]models.ThemePreset `json:"themePresets" validate:"omitempty,max=20"`
}

// GetSettings returns the venue settings singleton, creating it with defaults
// on first read.
func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := loadSettings(c.Request().Context(), h.db)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings merges the provided fields over the stored singleton. Fields
// omitted from the body keep their previous values, never the schema defaults.
// The body is decoded strictly: unknown or wrongly typed fields are rejected.
func (h *Handler) UpdateSettings(c echo.Context) error {
	var req updateSettingsRequest
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return invalidField("body", "must be a valid settings object")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Theme != nil {
		if err := validateTheme(req.Theme); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	var settings *models.VenueSettings
	err := runInTx(ctx, h.db, func(tx bun.Tx) error {
		var err error
		settings, err = loadSettings(ctx, tx)
		if err != nil {
			return err
		}

		applySettingsPatch(settings, &req)
		settings.UpdatedAt = time.Now().UTC()

		if _, err := tx.NewUpdate().Model(settings).WherePK().Exec(ctx); err != nil {
			return storeErr("update settings", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}

// loadSettings fetches the singleton row, lazily creating it with defaults.
// Creation is guarded by an insert-if-absent on the fixed primary key, so a
// concurrent first read cannot produce a second row.
func loadSettings(ctx context.Context, db bun.IDB) (*models.VenueSettings, error) {
	defaults := models.DefaultSettings()
	if _, err := db.NewInsert().Model(defaults).
		On("CONFLICT DO NOTHING").
		Exec(ctx); err != nil {
		return nil, storeErr("init settings", err)
	}

	settings := new(models.VenueSettings)
	err := db.NewSelect().Model(settings).
		Where("id = ?", models.SettingsRowID).
		Scan(ctx)
	if err != nil {
		return nil, storeErr("select settings", err)
	}
	return settings, nil
}

func applySettingsPatch(s *models.VenueSettings, req *updateSettingsRequest) {
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.LeaderboardTitle != nil {
		s.LeaderboardTitle = *req.LeaderboardTitle
	}
	if req.Subtitle != nil {
		s.Subtitle = *req.Subtitle
	}
	if req.LogoURL != nil {
		s.LogoURL = *req.LogoURL
	}
	if req.SmallLogoURL != nil {
		s.SmallLogoURL = *req.SmallLogoURL
	}
	if req.SubtitleBold != nil {
		s.SubtitleBold = *req.SubtitleBold
	}
	if req.ShowQRCodes != nil {
		s.ShowQRCodes = *req.ShowQRCodes
	}
	if req.ShowGameImages != nil {
		s.ShowGameImages = *req.ShowGameImages
	}
	if req.ShowScoreDates != nil {
		s.ShowScoreDates = *req.ShowScoreDates
	}
	if req.RotationEnabled != nil {
		s.RotationEnabled = *req.RotationEnabled
	}
	if req.DisplayMode != nil {
		s.DisplayMode = *req.DisplayMode
	}
	if req.RotationSeconds != nil {
		s.RotationSeconds = *req.RotationSeconds
	}
	if req.ScrollSpeed != nil {
		s.ScrollSpeed = *req.ScrollSpeed
	}
	if req.RowSpacing != nil {
		s.RowSpacing = *req.RowSpacing
	}
	if req.GridColumns != nil {
		s.GridColumns = *req.GridColumns
	}
	if req.FontScale != nil {
		s.FontScale = *req.FontScale
	}
	if req.Theme != nil {
		s.Theme = *req.Theme
	}
	if req.ThemePresets != nil {
		s.ThemePresets = *req.ThemePresets
	}
}

func validateTheme(t *models.Theme) error {
	fields := []FieldError{}
	if t.Primary == "" {
		fields = append(fields, FieldError{Field: "theme.primary", Message: "is required"})
	}
	switch t.Variant {
	case "professional", "tint", "vibrant":
	default:
		fields = append(fields, FieldError{Field: "theme.variant", Message: "must be one of: professional, tint, vibrant"})
	}
	switch t.Appearance {
	case "light", "dark", "system":
	default:
		fields = append(fields, FieldError{Field: "theme.appearance", Message: "must be one of: light, dark, system"})
	}
	if t.Radius < 0 || t.Radius > 2 {
		fields = append(fields, FieldError{Field: "theme.radius", Message: "must be between 0 and 2"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
