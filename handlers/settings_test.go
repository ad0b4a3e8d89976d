package handlers

import (
	"net/http"
	"testing"
)

func TestSettingsLazyCreation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, ts, http.MethodGet, "/api/admin/settings", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["leaderboardTitle"] != "High Scores" {
		t.Fatalf("expected default leaderboard title, got %v", body["leaderboardTitle"])
	}
	presets, ok := body["themePresets"].([]any)
	if !ok || len(presets) != 10 {
		t.Fatalf("expected 10 default theme presets, got %#v", body["themePresets"])
	}

	// A second read must return the same singleton, not a second row.
	resp = doRequest(t, ts, http.MethodGet, "/api/admin/settings", nil)
	again := decodeBody(t, resp)
	if again["name"] != body["name"] {
		t.Fatalf("expected stable singleton, got %v then %v", body["name"], again["name"])
	}
}

func TestSettingsMergeByPresence(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPatch, "/api/admin/settings", map[string]any{
		"name":        "Flip City",
		"displayMode": "grid",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	// Patching one boolean must leave every other field as previously set.
	resp = doRequest(t, ts, http.MethodPatch, "/api/admin/settings", map[string]any{
		"subtitleBold": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/admin/settings", nil)
	body := decodeBody(t, resp)
	if body["name"] != "Flip City" {
		t.Fatalf("expected name preserved, got %v", body["name"])
	}
	if body["displayMode"] != "grid" {
		t.Fatalf("expected displayMode preserved, got %v", body["displayMode"])
	}
	if body["subtitleBold"] != true {
		t.Fatalf("expected subtitleBold true, got %v", body["subtitleBold"])
	}
}

func TestSettingsPutAlias(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPut, "/api/admin/settings", map[string]any{
		"rotationSeconds": 30,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["rotationSeconds"].(float64) != 30 {
		t.Fatalf("expected rotationSeconds 30, got %v", body["rotationSeconds"])
	}
}

func TestSettingsRejectsMalformedTheme(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPatch, "/api/admin/settings", map[string]any{
		"theme": map[string]any{
			"primary":    "#123456",
			"variant":    "sparkly",
			"appearance": "dark",
			"radius":     0.5,
		},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	body := decodeBody(t, resp)
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) == 0 {
		t.Fatalf("expected theme field errors, got %#v", body)
	}
}

func TestSettingsRejectsUnknownFields(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPatch, "/api/admin/settings", map[string]any{
		"definitelyNotAField": 1,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSettingsRejectsInvalidDisplayMode(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, ts, http.MethodPatch, "/api/admin/settings", map[string]any{
		"displayMode": "carousel",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
