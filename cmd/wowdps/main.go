// Package main provides the CLI entrypoint for wowdps.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/polyhill/wow/internal/analysisui"
	"github.com/polyhill/wow/internal/config"
	"github.com/polyhill/wow/internal/export"
	"github.com/polyhill/wow/internal/i18n"
	"github.com/polyhill/wow/internal/mockwcl"
	"github.com/polyhill/wow/internal/model"
	"github.com/polyhill/wow/internal/plot"
	"github.com/polyhill/wow/internal/store"
	"github.com/polyhill/wow/internal/wcl"
)

const (
	defaultBaseURL = "http://localhost:5000"
	defaultLang    = "en"
	defaultTimeout = 60
)

var (
	apiBaseURL string
	apiKey     string
	apiTimeout int

	rootReport string
	rootFight  int
	rootPlayer int
	rootLang   string

	fightsReport  string
	playersReport string

	exportReport string
	exportFight  int
	exportPlayer int
	exportLang   string
	exportOut    string

	historyLast int

	mockAddr string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wowdps",
		Short:         "TUI client for the warrior DPS analyzer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", defaultBaseURL, "analyzer base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "analyzer API key (optional)")
	rootCmd.PersistentFlags().IntVar(&apiTimeout, "timeout", defaultTimeout, "request timeout in seconds")

	rootCmd.Flags().StringVar(&rootReport, "report", "", "report code")
	rootCmd.Flags().IntVar(&rootFight, "fight", 0, "fight id (default: first boss kill)")
	rootCmd.Flags().IntVar(&rootPlayer, "player", 0, "player id (default: first warrior)")
	rootCmd.Flags().StringVar(&rootLang, "lang", defaultLang, "display language code")

	rootCmd.AddCommand(newFightsCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMockCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "report", &rootReport, fileCfg.Analyze.Report)
	applyIntConfig(cmd, "fight", &rootFight, fileCfg.Analyze.Fight)
	applyIntConfig(cmd, "player", &rootPlayer, fileCfg.Analyze.Player)
	applyStringConfig(cmd, "lang", &rootLang, fileCfg.Analyze.Lang)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	loadTargetPreferences(ctx, cmd, st)
	if rootReport == "" {
		return fmt.Errorf("report code is required (use --report or the config file)")
	}

	client := newClient(cmd, fileCfg)
	if err := resolveTarget(ctx, client); err != nil {
		return err
	}
	saveTargetPreferences(ctx, st)

	tr, err := i18n.New(rootLang)
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}

	cfg := model.AnalyzeConfig{
		ReportID: rootReport,
		FightID:  rootFight,
		PlayerID: rootPlayer,
		Lang:     tr.Lang(),
		Status:   resolveStatus(ctx, st, fileCfg),
		Attrs:    loadAttributes(ctx, st),
	}

	uiModel := analysisui.NewModel(st, client, tr, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveTarget fills in the fight and player when not given, mirroring the
// first entries of the analyzer's filtered lists.
func resolveTarget(ctx context.Context, client *wcl.Client) error {
	if rootFight == 0 {
		fights, err := client.Fights(ctx, rootReport)
		if err != nil {
			return err
		}
		if len(fights) == 0 {
			return fmt.Errorf("report %s has no boss kills", rootReport)
		}
		rootFight = fights[0].ID
		logErrf("using fight %d (%s)\n", fights[0].ID, fights[0].Name)
	}
	if rootPlayer == 0 {
		players, err := client.Players(ctx, rootReport)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			return fmt.Errorf("report %s has no warriors", rootReport)
		}
		rootPlayer = players[0].ID
		logErrf("using player %d (%s)\n", players[0].ID, players[0].Name)
	}
	return nil
}

// loadTargetPreferences restores the last-used report, fight, player, and
// language for any value no flag or config entry pinned. Fight and player
// only carry over within the same report.
func loadTargetPreferences(ctx context.Context, cmd *cobra.Command, st *store.Store) {
	prefs, err := st.Preferences(ctx)
	if err != nil {
		logErrf("failed to load preferences: %v\n", err)
		return
	}
	sameReport := rootReport == "" || rootReport == prefs[store.PrefReport]
	if rootReport == "" {
		rootReport = prefs[store.PrefReport]
	}
	if rootFight == 0 && sameReport {
		if v, err := parsePositiveInt(prefs[store.PrefFight]); err == nil {
			rootFight = v
		}
	}
	if rootPlayer == 0 && sameReport {
		if v, err := parsePositiveInt(prefs[store.PrefPlayer]); err == nil {
			rootPlayer = v
		}
	}
	if !cmd.Flags().Changed("lang") {
		if v, ok := prefs[store.PrefLang]; ok && v != "" {
			rootLang = v
		}
	}
}

func saveTargetPreferences(ctx context.Context, st *store.Store) {
	prefs := map[string]string{
		store.PrefReport: rootReport,
		store.PrefFight:  fmt.Sprintf("%d", rootFight),
		store.PrefPlayer: fmt.Sprintf("%d", rootPlayer),
		store.PrefLang:   rootLang,
	}
	for key, value := range prefs {
		if err := st.SetPreference(ctx, key, value); err != nil {
			logErrf("failed to save preference %s: %v\n", key, err)
		}
	}
}

// resolveStatus layers the character baseline: defaults, then the stored
// preference, then the config file.
func resolveStatus(ctx context.Context, st *store.Store, fileCfg config.FileConfig) model.CurrentStatus {
	status := model.DefaultStatus()
	if raw, ok, err := st.GetPreference(ctx, store.PrefStatus); err == nil && ok {
		var stored model.CurrentStatus
		if err := json.Unmarshal([]byte(raw), &stored); err == nil && stored != (model.CurrentStatus{}) {
			status = stored
		}
	}
	applyStatusValue(&status.MainHandSpeed, fileCfg.Status.MainHandSpeed)
	applyStatusValue(&status.OffHandSpeed, fileCfg.Status.OffHandSpeed)
	applyStatusValue(&status.MainHandSkill, fileCfg.Status.MainHandSkill)
	applyStatusValue(&status.OffHandSkill, fileCfg.Status.OffHandSkill)
	applyStatusValue(&status.Hit, fileCfg.Status.Hit)
	applyStatusValue(&status.Crit, fileCfg.Status.Crit)
	if raw, err := json.Marshal(status); err == nil {
		if err := st.SetPreference(ctx, store.PrefStatus, string(raw)); err != nil {
			logErrf("failed to save status preference: %v\n", err)
		}
	}
	return status
}

func applyStatusValue(target *float64, value *float64) {
	if value != nil {
		*target = *value
	}
}

func loadAttributes(ctx context.Context, st *store.Store) model.Attributes {
	raw, ok, err := st.GetPreference(ctx, store.PrefAttributes)
	if err != nil || !ok {
		return model.Attributes{}
	}
	var attrs model.Attributes
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return model.Attributes{}
	}
	return attrs
}

func newFightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fights",
		Short: "List a report's boss kills",
		Args:  cobra.NoArgs,
		RunE:  runFightsCmd,
	}
	cmd.Flags().StringVar(&fightsReport, "report", "", "report code")
	return cmd
}

func runFightsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "report", &fightsReport, fileCfg.Analyze.Report)
	if fightsReport == "" {
		return fmt.Errorf("--report is required")
	}

	client := newClient(cmd, fileCfg)
	fights, err := client.Fights(context.Background(), fightsReport)
	if err != nil {
		return err
	}
	if len(fights) == 0 {
		return fmt.Errorf("report %s has no boss kills", fightsReport)
	}

	rows := make([][]string, 0, len(fights))
	for _, f := range fights {
		rows = append(rows, []string{
			fmt.Sprintf("%d", f.ID),
			f.Name,
			formatDuration(f.DurationMs),
		})
	}
	return printTable(cmd, []string{"ID", "Name", "Duration"}, rows, map[int]bool{0: true, 2: true})
}

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "List a report's warriors",
		Args:  cobra.NoArgs,
		RunE:  runPlayersCmd,
	}
	cmd.Flags().StringVar(&playersReport, "report", "", "report code")
	return cmd
}

func runPlayersCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "report", &playersReport, fileCfg.Analyze.Report)
	if playersReport == "" {
		return fmt.Errorf("--report is required")
	}

	client := newClient(cmd, fileCfg)
	players, err := client.Players(context.Background(), playersReport)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return fmt.Errorf("report %s has no warriors", playersReport)
	}

	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, []string{fmt.Sprintf("%d", p.ID), p.Name})
	}
	return printTable(cmd, []string{"ID", "Name"}, rows, map[int]bool{0: true})
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an analysis to xlsx",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportReport, "report", "", "report code")
	cmd.Flags().IntVar(&exportFight, "fight", 0, "fight id")
	cmd.Flags().IntVar(&exportPlayer, "player", 0, "player id")
	cmd.Flags().StringVar(&exportLang, "lang", defaultLang, "header language code")
	cmd.Flags().StringVar(&exportOut, "out", "", "output directory (default: data dir)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "report", &exportReport, fileCfg.Analyze.Report)
	applyIntConfig(cmd, "fight", &exportFight, fileCfg.Analyze.Fight)
	applyIntConfig(cmd, "player", &exportPlayer, fileCfg.Analyze.Player)
	applyStringConfig(cmd, "lang", &exportLang, fileCfg.Analyze.Lang)
	if exportReport == "" {
		return fmt.Errorf("--report is required")
	}
	if exportFight <= 0 || exportPlayer <= 0 {
		return fmt.Errorf("--fight and --player are required")
	}
	if exportOut == "" {
		exportOut = config.DefaultExportDir()
	}

	tr, err := i18n.New(exportLang)
	if err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}

	client := newClient(cmd, fileCfg)
	cfg := model.AnalyzeConfig{
		ReportID: exportReport,
		FightID:  exportFight,
		PlayerID: exportPlayer,
		Status:   model.DefaultStatus(),
	}
	analysis, err := client.FetchAnalysis(context.Background(), cfg)
	if err != nil {
		return err
	}

	path, err := export.WriteWorkbook(exportOut, exportReport, exportFight, exportPlayer, tr, analysis.Result, analysis.Stack)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List cached analyses",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N entries")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.ListAnalyses(context.Background(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no cached analyses yet")
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.FetchedAt.Local().Format("2006-01-02 15:04"),
			rec.ReportID,
			fmt.Sprintf("%d", rec.FightID),
			fmt.Sprintf("%d", rec.PlayerID),
		})
	}
	return printTable(cmd, []string{"Fetched", "Report", "Fight", "Player"}, rows, map[int]bool{2: true, 3: true})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newMockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock analyzer",
		Args:  cobra.NoArgs,
		RunE:  runMockCmd,
	}
	cmd.Flags().StringVar(&mockAddr, "addr", "localhost:5000", "listen address")
	return cmd
}

func runMockCmd(_ *cobra.Command, _ []string) error {
	logErrf("mock analyzer listening on %s\n", mockAddr)
	server := &http.Server{
		Addr:              mockAddr,
		Handler:           mockwcl.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("mock analyzer failed: %w", err)
	}
	return nil
}

func newClient(cmd *cobra.Command, fileCfg config.FileConfig) *wcl.Client {
	applyStringConfig(cmd, "api", &apiBaseURL, fileCfg.API.BaseURL)
	applyStringConfig(cmd, "api-key", &apiKey, fileCfg.API.APIKey)
	applyIntConfig(cmd, "timeout", &apiTimeout, fileCfg.API.TimeoutSeconds)
	return wcl.NewClient(apiBaseURL, apiKey, time.Duration(apiTimeout)*time.Second)
}

func printTable(cmd *cobra.Command, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range plot.FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func parsePositiveInt(raw string) (int, error) {
	var v int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &v); err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("value must be positive")
	}
	return v, nil
}

func formatDuration(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wowdps configuration
# Uncomment a value to enable it. CLI flags override config values.

[api]
# base-url = %q    # Analyzer base URL
# api-key = ""                     # Bearer token, if the analyzer requires one
# timeout-seconds = %d             # Request timeout

[analyze]
# report = ""                      # Default report code
# fight = 0                        # Default fight id
# player = 0                       # Default player id
# lang = %q                        # Display language (en, zh)

[status]
# main-hand-speed = 2.4
# off-hand-speed = 1.8
# mh-skill = 300
# oh-skill = 300
# hit = 10
# crit = 45
`,
		defaultBaseURL,
		defaultTimeout,
		defaultLang,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
