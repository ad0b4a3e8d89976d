package handlers

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// NewRouter builds an echo instance with request validation, the JSON error
// handler and every API route registered. Transport middleware (request
// logging, CORS, recovery) is layered on by main.
func NewRouter(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	api := e.Group("/api")

	api.GET("/games", h.ListGames)
	api.POST("/games", h.CreateGame)
	// Registered ahead of the :id routes so "reorder" never parses as a game id.
	api.PATCH("/games/reorder", h.ReorderGames)
	api.GET("/games/:id", h.GetGame)
	api.PATCH("/games/:id", h.UpdateGame)
	api.DELETE("/games/:id", h.DeleteGame)
	api.GET("/games/:id/scores", h.GameScores)

	api.POST("/scores", h.SubmitScore)
	api.DELETE("/scores/:id", h.DeleteScore)

	api.GET("/admin/settings", h.GetSettings)
	api.PATCH("/admin/settings", h.UpdateSettings)
	api.PUT("/admin/settings", h.UpdateSettings)

	// The extra megabyte leaves room for the multipart envelope around the file.
	api.POST("/upload/image", h.UploadImage, echomw.BodyLimit(fmt.Sprintf("%dM", h.maxUploadMB+1)))

	e.Static("/uploads", h.uploadDir)

	return e
}
