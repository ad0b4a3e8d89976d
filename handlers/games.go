package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/Darrellri/Arcade-Game-Leaderboard-sub000/models"
)

type createGameRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Subtitle        *string `json:"subtitle" validate:"omitempty,max=100"`
	ImageURL        string  `json:"imageUrl" validate:"omitempty,max=500"`
	OverlayImageURL *string `json:"overlayImageUrl" validate:"omitempty,max=500"`
	GameType        string  `json:"type" validate:"required,oneof=arcade pinball"`
}

type updateGameRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Subtitle        *string `json:"subtitle" validate:"omitempty,max=100"`
	ImageURL        *string `json:"imageUrl" validate:"omitempty,max=500"`
	OverlayImageURL *string `json:"overlayImageUrl" validate:"omitempty,max=500"`
	GameType        *string `json:"type" validate:"omitempty,oneof=arcade pinball"`
	DisplayOrder    *int    `json:"displayOrder"`
	Hidden          *bool   `json:"hidden"`
}

type gameOrderEntry struct {
	ID           int `json:"id" validate:"required,gt=0"`
	DisplayOrder int `json:"displayOrder"`
}

type reorderRequest struct {
	GameOrders []gameOrderEntry `json:"gameOrders" validate:"required,min=1,dive"`
}

// ListGames returns all games ordered for display. Hidden games are filtered
// out unless includeHidden=true; this is the read path behind every public view.
func (h *Handler) ListGames(c echo.Context) error {
	includeHidden := c.QueryParam("includeHidden") == "true"

	games := []models.Game{}
	q := h.db.NewSelect().Model(&games).
		Order("display_order ASC").
		Order("created_at ASC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return storeErr("list games", err)
	}

	return c.JSON(http.StatusOK, games)
}

// GetGame returns a single game or 404.
func (h *Handler) GetGame(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	game, err := gameByID(c.Request().Context(), h.db, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, game)
}

// CreateGame adds a game to the roster. The new game's displayOrder is the
// current maximum plus one, so added games always append to the end of the
// display rotation. The champion cache starts empty.
func (h *Handler) CreateGame(c echo.Context) error {
	var req createGameRequest
	if err := c.Bind(&req); err != nil {
		return invalidField("body", "must be valid JSON")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	game := &models.Game{
		Name:            req.Name,
		Subtitle:        req.Subtitle,
		ImageURL:        req.ImageURL,
		OverlayImageURL: req.OverlayImageURL,
		GameType:        req.GameType,
	}

	err := runInTx(ctx, h.db, func(tx bun.Tx) error {
		var maxOrder int
		if err := tx.NewSelect().Model((*models.Game)(nil)).
			ColumnExpr("COALESCE(MAX(display_order), 0)").
			Scan(ctx, &maxOrder); err != nil {
			return storeErr("max display order", err)
		}

		game.DisplayOrder = maxOrder + 1
		if _, err := tx.NewInsert().Model(game).Exec(ctx); err != nil {
			return storeErr("insert game", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, game)
}

// UpdateGame applies a partial update to a game. Omitted fields keep their
// current values. The champion cache is never touched here, even when hidden
// or type changes.
func (h *Handler) UpdateGame(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateGameRequest
	if err := c.Bind(&req); err != nil {
		return invalidField("body", "must be valid JSON")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	game, err := gameByID(ctx, h.db, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		game.Name = *req.Name
	}
	if req.Subtitle != nil {
		game.Subtitle = req.Subtitle
	}
	if req.ImageURL != nil {
		game.ImageURL = *req.ImageURL
	}
	if req.OverlayImageURL != nil {
		game.OverlayImageURL = req.OverlayImageURL
	}
	if req.GameType != nil {
		game.GameType = *req.GameType
	}
	if req.DisplayOrder != nil {
		game.DisplayOrder = *req.DisplayOrder
	}
	if req.Hidden != nil {
		game.Hidden = *req.Hidden
	}

	if _, err := h.db.NewUpdate().Model(game).WherePK().Exec(ctx); err != nil {
		return storeErr("update game", err)
	}

	return c.JSON(http.StatusOK, game)
}

// DeleteGame removes a game and cascades to all of its scores in one
// transaction. Not reversible; there is no soft delete.
func (h *Handler) DeleteGame(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	err = runInTx(ctx, h.db, func(tx bun.Tx) error {
		if err := requireGame(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Score)(nil)).
			Where("game_id = ?", id).
			Exec(ctx); err != nil {
			return storeErr("delete scores for game", err)
		}
		if _, err := tx.NewDelete().Model((*models.Game)(nil)).
			Where("game_id = ?", id).
			Exec(ctx); err != nil {
			return storeErr("delete game", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ReorderGames applies a bulk displayOrder reassignment as a single
// all-or-nothing transaction. If any id in the batch does not resolve to an
// existing game the whole batch rolls back, so a mid-batch failure can never
// leave the ordering half-applied.
func (h *Handler) ReorderGames(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return invalidField("body", "must be valid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	err := runInTx(ctx, h.db, func(tx bun.Tx) error {
		ids := make([]int, 0, len(req.GameOrders))
		seen := make(map[int]bool, len(req.GameOrders))
		for _, entry := range req.GameOrders {
			if !seen[entry.ID] {
				seen[entry.ID] = true
				ids = append(ids, entry.ID)
			}
		}

		count, err := tx.NewSelect().Model((*models.Game)(nil)).
			Where("game_id IN (?)", bun.In(ids)).
			Count(ctx)
		if err != nil {
			return storeErr("validate reorder ids", err)
		}
		if count != len(ids) {
			return firstMissingGame(ctx, tx, ids)
		}

		for _, entry := range req.GameOrders {
			if _, err := tx.NewUpdate().Model((*models.Game)(nil)).
				Set("display_order = ?", entry.DisplayOrder).
				Where("game_id = ?", entry.ID).
				Exec(ctx); err != nil {
				return storeErr("apply display order", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// firstMissingGame identifies which id in a failed reorder batch was unknown.
func firstMissingGame(ctx context.Context, tx bun.Tx, ids []int) error {
	existing := []int{}
	err := tx.NewSelect().Model((*models.Game)(nil)).
		Column("game_id").
		Where("game_id IN (?)", bun.In(ids)).
		Scan(ctx, &existing)
	if err != nil {
		return storeErr("resolve missing game", err)
	}

	found := make(map[int]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if !found[id] {
			return &NotFoundError{Resource: "game", ID: id}
		}
	}
	return &NotFoundError{Resource: "game"}
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, invalidField("id", "must be a positive integer")
	}
	return id, nil
}

func gameByID(ctx context.Context, db bun.IDB, id int) (*models.Game, error) {
	game := new(models.Game)
	err := db.NewSelect().Model(game).Where("g.game_id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "game", ID: id}
		}
		return nil, storeErr("select game", err)
	}
	return game, nil
}

func requireGame(ctx context.Context, db bun.IDB, id int) error {
	exists, err := db.NewSelect().Model((*models.Game)(nil)).
		Where("game_id = ?", id).
		Exists(ctx)
	if err != nil {
		return storeErr("check game exists", err)
	}
	if !exists {
		return &NotFoundError{Resource: "game", ID: id}
	}
	return nil
}

// runInTx runs fn inside a transaction, rolling back unless it commits.
func runInTx(ctx context.Context, db *bun.DB, fn func(tx bun.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit tx", err)
	}
	committed = true
	return nil
}
