package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/models"
)

type submitScoreRequest struct {
	GameID      int        `json:"gameId" validate:"required,gt=0"`
	PlayerName  string     `json:"playerName" validate:"required,max=50"`
	Score       *int       `json:"score" validate:"required,gte=0"`
	PhoneNumber string     `json:"phoneNumber" validate:"required,e164"`
	ImageURL    *string    `json:"imageUrl" validate:"omitempty,max=500"`
	Latitude    *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude   *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	SubmittedAt *time.Time `json:"submittedAt"`
}

// SubmitScore records a score and promotes the game's champion cache when the
// new score strictly beats the cached high score. The insert and the promotion
// run in one transaction, and the promotion is a conditional update guarded by
// the cached value, so two concurrent submissions cannot lose the higher one.
func (h *Handler) SubmitScore(c echo.Context) error {
	var req submitScoreRequest
	if err := c.Bind(&req); err != nil {
		return invalidField("body", "must be valid JSON")
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	submittedAt := time.Now().UTC()
	if req.SubmittedAt != nil {
		submittedAt = *req.SubmittedAt
	}

	score := &models.Score{
		GameID:      req.GameID,
		PlayerName:  req.PlayerName,
		Score:       *req.Score,
		PhoneNumber: req.PhoneNumber,
		ImageURL:    req.ImageURL,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		SubmittedAt: submittedAt,
	}

	err := runInTx(ctx, h.db, func(tx bun.Tx) error {
		if err := requireGame(ctx, tx, req.GameID); err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(score).Exec(ctx); err != nil {
			return storeErr("insert score", err)
		}

		// Promotes only when strictly greater; equal scores keep the
		// incumbent champion.
		if _, err := tx.NewUpdate().Model((*models.Game)(nil)).
			Set("current_high_score = ?", score.Score).
			Set("top_scorer_name = ?", score.PlayerName).
			Set("top_score_date = ?", score.SubmittedAt).
			Where("game_id = ?", score.GameID).
			Where("current_high_score < ?", score.Score).
			Exec(ctx); err != nil {
			return storeErr("promote high score", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, score)
}

// GameScores returns the scores for one game, best first.
func (h *Handler) GameScores(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := requireGame(ctx, h.db, id); err != nil {
		return err
	}

	scores := []models.Score{}
	err = h.db.NewSelect().Model(&scores).
		Where("game_id = ?", id).
		Order("score DESC").
		Order("submitted_at ASC").
		Scan(ctx)
	if err != nil {
		return storeErr("list scores", err)
	}

	return c.JSON(http.StatusOK, scores)
}

// DeleteScore removes a single score. The champion cache is intentionally left
// alone: deleting the current champion's row does not demote the cached score.
func (h *Handler) DeleteScore(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.db.NewDelete().Model((*models.Score)(nil)).
		Where("score_id = ?", id).
		Exec(ctx)
	if err != nil {
		return storeErr("delete score", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Resource: "score", ID: id}
	}

	return c.NoContent(http.StatusNoContent)
}
