package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	appdb "github.com/Darrellri/Arcade-Game-Leaderboard-sub000/db"
)

var testDBSeq atomic.Int64

// newTestHandler builds a Handler backed by a fresh in-memory SQLite database
// with the full schema applied.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bdb.Close() })

	if err := appdb.CreateTables(context.Background(), bdb); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	return New(bdb, t.TempDir(), 4)
}

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	h := newTestHandler(t)
	ts := httptest.NewServer(NewRouter(h))
	t.Cleanup(ts.Close)
	return ts, h
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode list body: %v", err)
	}
	return body
}

func createGame(t *testing.T, ts *httptest.Server, name, gameType string) int {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", map[string]any{
		"name": name,
		"type": gameType,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return int(body["id"].(float64))
}

func submitScore(t *testing.T, ts *httptest.Server, gameID int, player string, points int) *http.Response {
	t.Helper()
	return doRequest(t, ts, http.MethodPost, "/api/scores", map[string]any{
		"gameId":      gameID,
		"playerName":  player,
		"score":       points,
		"phoneNumber": "+15551234567",
		"latitude":    41.82,
		"longitude":   -71.41,
	})
}

func fetchGame(t *testing.T, ts *httptest.Server, id int) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, fmt.Sprintf("/api/games/%d", id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}
