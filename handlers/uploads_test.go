package handlers

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 1x1 transparent PNG.
const tinyPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMBAp4pWZkAAAAASUVORK5CYII="

func uploadFile(t *testing.T, ts *httptest.Server, filename string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/upload/image", &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestUploadImageStoresWithRandomName(t *testing.T) {
	ts, h := newTestServer(t)

	png, err := base64.StdEncoding.DecodeString(tinyPNGBase64)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	resp := uploadFile(t, ts, "marquee.png", png)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	body := decodeBody(t, resp)
	url, ok := body["url"].(string)
	if !ok || !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("expected /uploads/ url, got %#v", body)
	}
	if strings.Contains(url, "marquee") {
		t.Fatalf("expected randomized filename, got %q", url)
	}

	stored := filepath.Join(h.uploadDir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(data, png) {
		t.Fatal("stored file does not match uploaded bytes")
	}

	// The stored file is reachable through the static route.
	getResp, err := ts.Client().Get(ts.URL + url)
	if err != nil {
		t.Fatalf("fetch stored file: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, getResp.StatusCode)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	ts, h := newTestServer(t)

	resp := uploadFile(t, ts, "notes.txt", []byte("just text"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	assertUploadDirEmpty(t, h)
}

func TestUploadRejectsMismatchedContent(t *testing.T) {
	ts, h := newTestServer(t)

	resp := uploadFile(t, ts, "fake.png", []byte("this is not a png"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	assertUploadDirEmpty(t, h)
}

func assertUploadDirEmpty(t *testing.T, h *Handler) {
	t.Helper()
	entries, err := os.ReadDir(h.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files after rejected upload, found %d", len(entries))
	}
}
