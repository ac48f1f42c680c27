package wcl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/polyhill/wow/internal/model"
)

func testConfig() model.AnalyzeConfig {
	return model.AnalyzeConfig{
		ReportID: "abc123",
		FightID:  4,
		PlayerID: 7,
		Status:   model.DefaultStatus(),
		Attrs:    model.Attributes{AttackPower: 50},
	}
}

func TestAnalyzeRequestShape(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %q", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content type %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"damage_breakdown": []}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.Analyze(context.Background(), testConfig()); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if captured["report_id"] != "abc123" {
		t.Fatalf("expected report_id abc123, got %v", captured["report_id"])
	}
	status, ok := captured["current_status"].(map[string]any)
	if !ok {
		t.Fatalf("expected current_status object, got %T", captured["current_status"])
	}
	if status["main_hand_speed"] != 2.4 {
		t.Fatalf("expected main_hand_speed 2.4, got %v", status["main_hand_speed"])
	}
	attrs, ok := captured["attributes"].(map[string]any)
	if !ok {
		t.Fatalf("expected attributes object, got %T", captured["attributes"])
	}
	if attrs["attackPower"] != 50.0 {
		t.Fatalf("expected attackPower 50, got %v", attrs["attackPower"])
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"title": "x", "startTime": "y"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "sekrit", time.Second)
	if _, err := client.Report(context.Background(), "abc123"); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(`{"error": "fight not found"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.Fights(context.Background(), "abc123")
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if !strings.Contains(err.Error(), "fight not found") {
		t.Fatalf("expected analyzer message in error, got %q", err.Error())
	}
}

func TestFightsMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/fights/abc123" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`[{"id": 4, "name": "Patchwerk", "duration": 158000}]`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	fights, err := client.Fights(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fights failed: %v", err)
	}
	if len(fights) != 1 {
		t.Fatalf("expected 1 fight, got %d", len(fights))
	}
	if fights[0].Name != "Patchwerk" || fights[0].DurationMs != 158000 {
		t.Fatalf("unexpected fight %+v", fights[0])
	}
}

func TestFetchAnalysisJoinsBothRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/analyze":
			if _, err := w.Write([]byte(`{"damage_breakdown": [{"ability": "Total", "dps": 777.7}]}`)); err != nil {
				t.Fatalf("failed to write response: %v", err)
			}
		case "/api/dps_simulation_stack":
			if _, err := w.Write([]byte(`{"individual_gains": [{"attribute": "crit", "total_dps_gain": 21.0}], "total_gains": {"Bloodthirst": 8.4}}`)); err != nil {
				t.Fatalf("failed to write response: %v", err)
			}
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	analysis, err := client.FetchAnalysis(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("FetchAnalysis failed: %v", err)
	}
	if analysis.Result == nil || analysis.Stack == nil {
		t.Fatalf("expected both results, got %+v", analysis)
	}
	if analysis.Result.Breakdown[0].DPS != 777.7 {
		t.Fatalf("unexpected total dps %v", analysis.Result.Breakdown[0].DPS)
	}
	if analysis.Stack.IndividualGains[0].Attribute != "crit" {
		t.Fatalf("unexpected stack attribute %q", analysis.Stack.IndividualGains[0].Attribute)
	}
}

func TestFetchAnalysisFailsWhenStackFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/dps_simulation_stack" {
			w.WriteHeader(http.StatusInternalServerError)
			if _, err := w.Write([]byte(`{"error": "simulation exploded"}`)); err != nil {
				t.Fatalf("failed to write response: %v", err)
			}
			return
		}
		if _, err := w.Write([]byte(`{"damage_breakdown": []}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.FetchAnalysis(context.Background(), testConfig()); err == nil {
		t.Fatalf("expected error when stack request fails")
	}
}

func TestClientRejectsBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`not json`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.Players(context.Background(), "abc123"); err == nil {
		t.Fatalf("expected decode error")
	}
}
