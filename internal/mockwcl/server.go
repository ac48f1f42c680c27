// Package mockwcl serves a local stand-in for the fight analyzer API with
// deterministic canned data. It backs the mock subcommand and integration
// tests.
package mockwcl

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/polyhill/wow/internal/model"
)

// abilities is the canned fury-warrior rotation, roughly ordered by damage.
var abilities = []string{
	"Melee (MH)",
	"Melee (OH)",
	"Bloodthirst",
	"Whirlwind",
	"Heroic Strike",
	"Execute",
	"Deep Wounds",
}

var fights = []fightJSON{
	{ID: 4, Name: "Patchwerk", Duration: 158000},
	{ID: 9, Name: "Thaddius", Duration: 204000},
	{ID: 15, Name: "Loatheb", Duration: 136000},
}

var players = []playerJSON{
	{ID: 3, Name: "Grimjaw"},
	{ID: 7, Name: "Steelsong"},
	{ID: 12, Name: "破军"},
}

type fightJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
}

type playerJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type analyzeRequest struct {
	ReportID      string              `json:"report_id"`
	FightID       int                 `json:"fight_id"`
	PlayerID      int                 `json:"player_id"`
	CurrentStatus model.CurrentStatus `json:"current_status"`
	Attributes    model.Attributes    `json:"attributes"`
}

// Handler returns the mock analyzer's HTTP handler.
func Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/report/{id}", handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/fights/{id}", handleFights).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{id}", handlePlayers).Methods(http.MethodGet)
	r.HandleFunc("/api/analyze", handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/api/dps_simulation_stack", handleStack).Methods(http.MethodPost)
	return r
}

func handleReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "report id is required")
		return
	}
	writeJSON(w, map[string]string{
		"title":     "Naxxramas clear (" + id + ")",
		"startTime": "2026-08-12 19:30",
	})
}

func handleFights(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["id"] == "" {
		writeError(w, http.StatusBadRequest, "report id is required")
		return
	}
	writeJSON(w, fights)
}

func handlePlayers(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["id"] == "" {
		writeError(w, http.StatusBadRequest, "report id is required")
		return
	}
	writeJSON(w, players)
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, buildAnalysis(req))
}

func handleStack(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, buildStack(req))
}

func decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return analyzeRequest{}, false
	}
	if req.ReportID == "" {
		writeError(w, http.StatusBadRequest, "report_id is required")
		return analyzeRequest{}, false
	}
	if req.FightID <= 0 || req.PlayerID <= 0 {
		writeError(w, http.StatusNotFound, "fight or player not found")
		return analyzeRequest{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Too late for a status change, the header is already out.
		_ = err
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		_ = err
	}
}
