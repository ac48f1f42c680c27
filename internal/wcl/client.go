package wcl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polyhill/wow/internal/model"
)

const defaultTimeout = 60 * time.Second

// Client talks to the analyzer's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the given analyzer base URL. A zero timeout
// falls back to the default. The api key is optional.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	ReportID      string              `json:"report_id"`
	FightID       int                 `json:"fight_id"`
	PlayerID      int                 `json:"player_id"`
	CurrentStatus model.CurrentStatus `json:"current_status"`
	Attributes    model.Attributes    `json:"attributes"`
}

type reportResponse struct {
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
}

type fightResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Duration Number `json:"duration"`
}

type playerResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Report fetches report metadata.
func (c *Client) Report(ctx context.Context, reportID string) (model.ReportMeta, error) {
	var resp reportResponse
	if err := c.getJSON(ctx, "/api/report/"+reportID, &resp); err != nil {
		return model.ReportMeta{}, fmt.Errorf("failed to fetch report %s: %w", reportID, err)
	}
	return model.ReportMeta{Title: resp.Title, StartTime: resp.StartTime}, nil
}

// Fights fetches the report's successful boss fights.
func (c *Client) Fights(ctx context.Context, reportID string) ([]model.Fight, error) {
	var resp []fightResponse
	if err := c.getJSON(ctx, "/api/fights/"+reportID, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch fights for %s: %w", reportID, err)
	}
	fights := make([]model.Fight, 0, len(resp))
	for _, f := range resp {
		fights = append(fights, model.Fight{
			ID:         f.ID,
			Name:       f.Name,
			DurationMs: int64(f.Duration.Float()),
		})
	}
	return fights, nil
}

// Players fetches the report's warrior players.
func (c *Client) Players(ctx context.Context, reportID string) ([]model.Player, error) {
	var resp []playerResponse
	if err := c.getJSON(ctx, "/api/players/"+reportID, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch players for %s: %w", reportID, err)
	}
	players := make([]model.Player, 0, len(resp))
	for _, p := range resp {
		players = append(players, model.Player{ID: p.ID, Name: p.Name})
	}
	return players, nil
}

// Analyze runs the full damage analysis for one fight and player.
func (c *Client) Analyze(ctx context.Context, cfg model.AnalyzeConfig) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := c.postJSON(ctx, "/api/analyze", newAnalyzeRequest(cfg), &result); err != nil {
		return nil, fmt.Errorf("analysis failed for report %s fight %d: %w", cfg.ReportID, cfg.FightID, err)
	}
	return &result, nil
}

// SimulateStack runs the per-attribute DPS stack decomposition.
func (c *Client) SimulateStack(ctx context.Context, cfg model.AnalyzeConfig) (*StackResult, error) {
	var result StackResult
	if err := c.postJSON(ctx, "/api/dps_simulation_stack", newAnalyzeRequest(cfg), &result); err != nil {
		return nil, fmt.Errorf("stack simulation failed for report %s fight %d: %w", cfg.ReportID, cfg.FightID, err)
	}
	return &result, nil
}

// FetchAnalysis issues the analyze and stack requests concurrently and joins
// both results. Either failure fails the whole action.
func (c *Client) FetchAnalysis(ctx context.Context, cfg model.AnalyzeConfig) (*Analysis, error) {
	var analysis Analysis
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result, err := c.Analyze(ctx, cfg)
		if err != nil {
			return err
		}
		analysis.Result = result
		return nil
	})
	group.Go(func() error {
		stack, err := c.SimulateStack(ctx, cfg)
		if err != nil {
			return err
		}
		analysis.Stack = stack
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func newAnalyzeRequest(cfg model.AnalyzeConfig) analyzeRequest {
	return analyzeRequest{
		ReportID:      cfg.ReportID,
		FightID:       cfg.FightID,
		PlayerID:      cfg.PlayerID,
		CurrentStatus: cfg.Status,
		Attributes:    cfg.Attrs,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		// Best-effort body close.
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("analyzer returned %s: %s", resp.Status, apiErrorMessage(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiErrorMessage extracts the analyzer's {"error": "..."} body, falling back
// to the raw text when the body is not the expected shape.
func apiErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
