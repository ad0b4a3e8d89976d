package handlers

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadImage accepts a multipart image, validates extension and sniffed MIME
// type, and stores it under the uploads directory with a randomized filename.
// A partially written file is removed on any failure.
func (h *Handler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return &UploadError{Reason: "missing image file"}
	}

	maxBytes := int64(h.maxUploadMB) << 20
	if file.Size > maxBytes {
		return &UploadError{Reason: "image exceeds maximum upload size"}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	wantMIME, ok := allowedImageTypes[ext]
	if !ok {
		return &UploadError{Reason: "unsupported image extension"}
	}

	src, err := file.Open()
	if err != nil {
		return &UploadError{Reason: "unreadable upload"}
	}
	defer src.Close()

	// Sniff the real content type; the extension alone is not trusted.
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return &UploadError{Reason: "unreadable upload"}
	}
	head = head[:n]

	sniffed := http.DetectContentType(head)
	if sniffed != wantMIME && !equivalentImageType(sniffed, wantMIME) {
		return &UploadError{Reason: "file content does not match an allowed image type"}
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return storeErr("create upload dir", err)
	}

	name, err := randomFilename(ext)
	if err != nil {
		return storeErr("generate filename", err)
	}
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return storeErr("create upload file", err)
	}

	written, err := io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(head), src), maxBytes+1))
	closeErr := dst.Close()
	if err == nil && written > maxBytes {
		err = &UploadError{Reason: "image exceeds maximum upload size"}
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		if ue, ok := err.(*UploadError); ok {
			return ue
		}
		return storeErr("write upload file", err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"url": "/uploads/" + name,
	})
}

// equivalentImageType tolerates the image/jpg spelling some sniffers emit.
func equivalentImageType(sniffed, want string) bool {
	return sniffed == "image/jpg" && want == "image/jpeg"
}

func randomFilename(ext string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf) + ext, nil
}
