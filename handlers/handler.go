package handlers

import "github.com/uptrace/bun"

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db          *bun.DB
	uploadDir   string
	maxUploadMB int
}

// New creates a Handler with the given database connection and upload settings.
func New(db *bun.DB, uploadDir string, maxUploadMB int) *Handler {
	return &Handler{db: db, uploadDir: uploadDir, maxUploadMB: maxUploadMB}
}
