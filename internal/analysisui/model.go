// Package analysisui provides the Bubble Tea analysis interface.
package analysisui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polyhill/wow/internal/i18n"
	"github.com/polyhill/wow/internal/model"
	"github.com/polyhill/wow/internal/store"
	"github.com/polyhill/wow/internal/wcl"
)

const (
	tabBreakdown = iota
	tabAttackPower
	tabWeaponSkill
	tabHitCrit
	tabGains
	tabStack
)

const (
	plotHeight   = 10
	fetchTimeout = 90 * time.Second
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Fetcher is the analyzer surface the UI needs.
type Fetcher interface {
	Report(ctx context.Context, reportID string) (model.ReportMeta, error)
	FetchAnalysis(ctx context.Context, cfg model.AnalyzeConfig) (*wcl.Analysis, error)
}

// Model implements the Bubble Tea analysis UI.
type Model struct {
	store  *store.Store
	client Fetcher
	tr     *i18n.Translator
	cfg    model.AnalyzeConfig

	meta      model.ReportMeta
	analysis  *wcl.Analysis
	fromCache bool
	fetchedAt time.Time

	loading bool
	errMsg  string

	tabs           []string
	activeTab      int
	viewports      []viewport.Model
	breakdownTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
}

type analysisMsg struct {
	analysis  *wcl.Analysis
	fromCache bool
	fetchedAt time.Time
	err       error
}

type metaMsg struct {
	meta model.ReportMeta
	err  error
}

// NewModel constructs an analysis UI model.
func NewModel(st *store.Store, client Fetcher, tr *i18n.Translator, cfg model.AnalyzeConfig) *Model {
	m := &Model{
		store:  st,
		client: client,
		tr:     tr,
		cfg:    cfg,
	}
	m.rebuildTabs()
	m.initForm()
	m.initViewports()
	m.breakdownTable = table.New(table.WithHeight(1))
	m.breakdownTable.SetStyles(breakdownTableStyles())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.fetchCmd(), m.metaCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case analysisMsg:
		m.loading = false
		if msg.analysis == nil {
			m.errMsg = msg.err.Error()
			m.renderTabContents()
			return m, nil
		}
		m.analysis = msg.analysis
		m.fromCache = msg.fromCache
		m.fetchedAt = msg.fetchedAt
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		m.applyBreakdownTable()
		m.renderTabContents()
		return m, nil
	case metaMsg:
		if msg.err == nil {
			m.meta = msg.meta
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.formMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.activeTab == tabBreakdown {
			m.breakdownTable.Focus()
		} else {
			m.breakdownTable.Blur()
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startForm()
		case "L":
			m.toggleLanguage()
			return m, tea.ClearScreen
		case "r":
			m.loading = true
			m.errMsg = ""
			return m, m.fetchCmd()
		case "g", "home":
			if m.activeTab == tabBreakdown {
				m.breakdownTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabBreakdown {
				m.breakdownTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabBreakdown {
				var cmd tea.Cmd
				m.breakdownTable, cmd = m.breakdownTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) rebuildTabs() {
	m.tabs = []string{
		m.tr.T("tab.breakdown"),
		m.tr.T("tab.attack_power"),
		m.tr.T("tab.weapon_skill"),
		m.tr.T("tab.hit_crit"),
		m.tr.T("tab.gains"),
		m.tr.T("tab.stack"),
	}
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initForm() {
	m.formInputs = []textinput.Model{
		newFormInput(m.tr.T("form.strength") + ": "),
		newFormInput(m.tr.T("form.agility") + ": "),
		newFormInput(m.tr.T("form.attack_power") + ": "),
		newFormInput(m.tr.T("form.haste") + ": "),
		newFormInput(m.tr.T("form.crit") + ": "),
		newFormInput(m.tr.T("form.hit") + ": "),
		newFormInput(m.tr.T("form.mh_skill") + ": "),
		newFormInput(m.tr.T("form.oh_skill") + ": "),
	}
	m.setFormFromConfig()
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setFormFromConfig() {
	values := []float64{
		m.cfg.Attrs.Strength,
		m.cfg.Attrs.Agility,
		m.cfg.Attrs.AttackPower,
		m.cfg.Attrs.Haste,
		m.cfg.Attrs.Crit,
		m.cfg.Attrs.Hit,
		m.cfg.Attrs.MainHandSkill,
		m.cfg.Attrs.OffHandSkill,
	}
	for i, v := range values {
		if v == 0 {
			m.formInputs[i].SetValue("")
			continue
		}
		m.formInputs[i].SetValue(strconv.FormatFloat(v, 'f', -1, 64))
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.formMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.breakdownTable.SetWidth(m.width)
	m.breakdownTable.SetHeight(maxInt(1, vpHeight-summaryCardsHeight()))
	for i := range m.formInputs {
		promptWidth := lipgloss.Width(m.formInputs[i].Prompt)
		m.formInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabBreakdown {
		m.breakdownTable.Focus()
	} else {
		m.breakdownTable.Blur()
	}
}

func (m *Model) toggleLanguage() {
	m.cfg.Lang = m.tr.Toggle()
	m.savePreference(store.PrefLang, m.cfg.Lang)
	active := m.activeTab
	m.rebuildTabs()
	m.activeTab = active
	m.initForm()
	m.updateLayout()
	m.applyBreakdownTable()
	m.renderTabContents()
}

func (m *Model) startForm() (tea.Model, tea.Cmd) {
	m.formMode = true
	m.formError = ""
	m.setFormFromConfig()
	return m, m.setFormIndex(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.formMode = false
		m.formError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyForm(); err != nil {
			m.formError = err.Error()
			return m, nil
		}
		m.formMode = false
		m.formError = ""
		m.loading = true
		return m, m.fetchCmd()
	case tea.KeyTab:
		return m, m.setFormIndex(m.formIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFormIndex(m.formIndex - 1)
	}
	var cmd tea.Cmd
	m.formInputs[m.formIndex], cmd = m.formInputs[m.formIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFormIndex(idx int) tea.Cmd {
	count := len(m.formInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.formIndex = idx
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyForm() error {
	values := make([]float64, len(m.formInputs))
	for i, input := range m.formInputs {
		raw := strings.TrimSpace(input.Value())
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q (use a number)", raw)
		}
		values[i] = parsed
	}
	m.cfg.Attrs = model.Attributes{
		Strength:      values[0],
		Agility:       values[1],
		AttackPower:   values[2],
		Haste:         values[3],
		Crit:          values[4],
		Hit:           values[5],
		MainHandSkill: values[6],
		OffHandSkill:  values[7],
	}
	if raw, err := json.Marshal(m.cfg.Attrs); err == nil {
		m.savePreference(store.PrefAttributes, string(raw))
	}
	return nil
}

func (m *Model) savePreference(key, value string) {
	if m.store == nil {
		return
	}
	if err := m.store.SetPreference(context.Background(), key, value); err != nil {
		// Preferences are convenience state; losing one is not fatal.
		_ = err
	}
}

func (m *Model) fetchCmd() tea.Cmd {
	cfg := m.cfg
	client := m.client
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		analysis, err := client.FetchAnalysis(ctx, cfg)
		if err != nil {
			if cached, fetchedAt, ok := loadCached(ctx, st, cfg); ok {
				return analysisMsg{analysis: cached, fromCache: true, fetchedAt: fetchedAt, err: err}
			}
			return analysisMsg{err: err}
		}
		saveAnalysis(ctx, st, cfg, analysis)
		return analysisMsg{analysis: analysis, fetchedAt: time.Now()}
	}
}

func (m *Model) metaCmd() tea.Cmd {
	client := m.client
	reportID := m.cfg.ReportID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		meta, err := client.Report(ctx, reportID)
		return metaMsg{meta: meta, err: err}
	}
}

func loadCached(ctx context.Context, st *store.Store, cfg model.AnalyzeConfig) (*wcl.Analysis, time.Time, bool) {
	if st == nil {
		return nil, time.Time{}, false
	}
	rec, ok, err := st.LatestAnalysis(ctx, cfg.ReportID, cfg.FightID, cfg.PlayerID)
	if err != nil || !ok {
		return nil, time.Time{}, false
	}
	var result wcl.AnalysisResult
	if err := json.Unmarshal([]byte(rec.ResultJSON), &result); err != nil {
		return nil, time.Time{}, false
	}
	analysis := &wcl.Analysis{Result: &result}
	if rec.StackJSON != "" {
		var stack wcl.StackResult
		if err := json.Unmarshal([]byte(rec.StackJSON), &stack); err == nil {
			analysis.Stack = &stack
		}
	}
	return analysis, rec.FetchedAt, true
}

func saveAnalysis(ctx context.Context, st *store.Store, cfg model.AnalyzeConfig, analysis *wcl.Analysis) {
	if st == nil || analysis.Result == nil {
		return
	}
	request, err := json.Marshal(map[string]any{
		"report_id":      cfg.ReportID,
		"fight_id":       cfg.FightID,
		"player_id":      cfg.PlayerID,
		"current_status": cfg.Status,
		"attributes":     cfg.Attrs,
	})
	if err != nil {
		return
	}
	result, err := json.Marshal(analysis.Result)
	if err != nil {
		return
	}
	stack := []byte("")
	if analysis.Stack != nil {
		if raw, err := json.Marshal(analysis.Stack); err == nil {
			stack = raw
		}
	}
	if _, err := st.SaveAnalysis(ctx, store.AnalysisRecord{
		ReportID:    cfg.ReportID,
		FightID:     cfg.FightID,
		PlayerID:    cfg.PlayerID,
		FetchedAt:   time.Now(),
		RequestJSON: string(request),
		ResultJSON:  string(result),
		StackJSON:   string(stack),
	}); err != nil {
		// History is best effort; the fetched result still renders.
		_ = err
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
