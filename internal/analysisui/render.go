package analysisui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/polyhill/wow/internal/analysis"
	"github.com/polyhill/wow/internal/plot"
	"github.com/polyhill/wow/internal/wcl"
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	context := padLines(m.renderContext(), m.width)
	return tabs + "\n" + context
}

func (m *Model) renderContext() string {
	title := m.meta.Title
	if title == "" {
		title = m.cfg.ReportID
	}
	if m.meta.StartTime != "" {
		title += " (" + m.meta.StartTime + ")"
	}
	context := fmt.Sprintf("%s: %s  %s: %d  %s: %d",
		m.tr.T("header.report"), title,
		m.tr.T("header.fight"), m.cfg.FightID,
		m.tr.T("header.player"), m.cfg.PlayerID)
	if !m.cfg.Attrs.IsZero() {
		context += "  [" + m.tr.T("form.title") + "]"
	}
	if m.fromCache {
		context += fmt.Sprintf("  [%s %s]", m.tr.T("msg.offline"), m.fetchedAt.Format("2006-01-02 15:04"))
	}
	return headerStyle.Render(truncateLine(context, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render(m.tr.T("help.main"))
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return headerStyle.Render(m.tr.T("form.hint"))
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderForm() string {
	lines := []string{cardValueStyle.Render(m.tr.T("form.title"))}
	for _, input := range m.formInputs {
		lines = append(lines, input.View())
	}
	if m.formError != "" {
		lines = append(lines, errorStyle.Render(m.formError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.formMode {
		return fitLines(m.renderForm(), m.width, height)
	}
	if m.loading {
		return fitLines(m.tr.T("help.loading"), m.width, height)
	}
	if m.analysis == nil || m.analysis.Result == nil {
		if m.errMsg != "" {
			return fitLines(m.tr.T("msg.no_data"), m.width, height)
		}
		return fitLines(m.tr.T("help.loading"), m.width, height)
	}
	if m.activeTab == tabBreakdown {
		cards := m.renderSummaryCards()
		view := tableMutedStyle.Render(m.breakdownTable.View())
		return fitLines(cards+"\n"+view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.analysis == nil || m.analysis.Result == nil {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	result := m.analysis.Result
	m.viewports[tabAttackPower].SetContent(m.renderAttackPower(result, width))
	m.viewports[tabWeaponSkill].SetContent(m.renderWeaponSkill(result, width))
	m.viewports[tabHitCrit].SetContent(m.renderHitCrit(result, width))
	m.viewports[tabGains].SetContent(m.renderGains(result))
	m.viewports[tabStack].SetContent(m.renderStack(m.analysis.Stack))
}

func summaryCardsHeight() int {
	return lipgloss.Height(cardStyle.Render("X\nY"))
}

func (m *Model) renderSummaryCards() string {
	s := analysis.Summarize(m.analysis.Result.Breakdown)
	cards := []string{
		metricCard(m.tr.T("summary.total_dps"), fmt.Sprintf("%.1f", s.TotalDPS)),
		metricCard(m.tr.T("summary.total_damage"), fmt.Sprintf("%.0f", s.TotalDamage)),
		metricCard(m.tr.T("summary.crit_rate"), fmt.Sprintf("%.1f%%", s.CritRate)),
		metricCard(m.tr.T("summary.miss_rate"), fmt.Sprintf("%.1f%%", s.MissRate)),
		metricCard(m.tr.T("summary.abilities"), fmt.Sprintf("%d", s.Abilities)),
	}
	if m.width < 80 {
		return strings.Join(cards[:2], "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) applyBreakdownTable() {
	if m.analysis == nil || m.analysis.Result == nil {
		return
	}
	columns := []table.Column{
		{Title: m.tr.T("col.ability"), Width: 18},
		{Title: m.tr.T("col.damage"), Width: 10},
		{Title: m.tr.T("col.dps"), Width: 8},
		{Title: m.tr.T("col.percent"), Width: 8},
		{Title: m.tr.T("col.casts"), Width: 6},
		{Title: m.tr.T("col.hits"), Width: 6},
		{Title: m.tr.T("col.crits"), Width: 6},
		{Title: m.tr.T("col.misses"), Width: 7},
		{Title: m.tr.T("col.crit_rate"), Width: 9},
		{Title: m.tr.T("col.miss_rate"), Width: 9},
	}
	sorted := analysis.SortBreakdown(m.analysis.Result.Breakdown)
	rows := make([]table.Row, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, table.Row{
			r.Ability,
			fmt.Sprintf("%.0f", r.TotalDamage.Float()),
			fmt.Sprintf("%.1f", r.DPS.Float()),
			fmt.Sprintf("%.1f%%", r.DamagePercent.Float()),
			fmt.Sprintf("%.0f", r.Casts.Float()),
			fmt.Sprintf("%.0f", r.Hits.Float()),
			fmt.Sprintf("%.0f", r.Crits.Float()),
			fmt.Sprintf("%.0f", r.Misses.Float()),
			fmt.Sprintf("%.1f%%", r.CritRate.Float()),
			fmt.Sprintf("%.1f%%", r.MissRate.Float()),
		})
	}
	m.breakdownTable.SetColumns(columns)
	m.breakdownTable.SetRows(rows)
}

func breakdownTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) renderAttackPower(result *wcl.AnalysisResult, width int) string {
	series := []plot.Series{
		{Name: m.tr.T("gains.attack_power"), Values: analysis.CurveValues(result.Curves.AttackPower)},
	}
	return m.renderPlot(m.tr.T("curve.attack_power"), series, width)
}

func (m *Model) renderWeaponSkill(result *wcl.AnalysisResult, width int) string {
	curves := result.Curves.WeaponSkill
	series := []plot.Series{
		{Name: m.tr.T("series.main_hand"), Values: analysis.CurveValues(curves.MainHand)},
		{Name: m.tr.T("series.off_hand"), Values: analysis.CurveValues(curves.OffHand)},
		{Name: m.tr.T("series.total"), Values: analysis.CurveValues(analysis.CombinedSkillTotal(curves))},
	}
	return m.renderPlot(m.tr.T("curve.weapon_skill"), series, width)
}

func (m *Model) renderHitCrit(result *wcl.AnalysisResult, width int) string {
	hit, crit := analysis.SplitHitCrit(result.Curves.HitCrit)
	series := []plot.Series{
		{Name: m.tr.T("series.hit"), Values: analysis.CurveValues(hit)},
		{Name: m.tr.T("series.crit"), Values: analysis.CurveValues(crit)},
	}
	return m.renderPlot(m.tr.T("curve.hit_crit"), series, width)
}

func (m *Model) renderPlot(title string, series []plot.Series, width int) string {
	var buf bytes.Buffer
	if err := plot.PlotSeriesWithColor(&buf, title, series, plot.PlotWidthFor(width), plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render plot: %v", err)
	}
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return m.tr.T("msg.no_data")
	}
	return out
}

func (m *Model) renderGains(result *wcl.AnalysisResult) string {
	tables := analysis.BuildGainTables(result.GainDetails)
	sections := []struct {
		title string
		table analysis.GainTable
	}{
		{m.tr.T("gains.attack_power"), tables.AttackPower},
		{m.tr.T("gains.crit"), tables.Crit},
		{m.tr.T("gains.hit"), tables.Hit},
		{m.tr.T("gains.mh_skill"), tables.MainHand},
		{m.tr.T("gains.oh_skill"), tables.OffHand},
	}

	var parts []string
	for _, sec := range sections {
		if len(sec.table.Rows) == 0 {
			continue
		}
		parts = append(parts, cardValueStyle.Render(sec.title))
		parts = append(parts, m.renderGainTable(sec.table))
		parts = append(parts, "")
	}
	if len(parts) == 0 {
		return m.tr.T("msg.no_data")
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}

func (m *Model) renderGainTable(t analysis.GainTable) string {
	headers := append([]string{m.tr.T("col.ability")}, t.Columns...)
	rightAlign := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		rightAlign[i] = true
	}
	rows := make([][]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		row := make([]string, 0, len(r.Values)+1)
		row = append(row, r.Ability)
		for _, v := range r.Values {
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		rows = append(rows, row)
	}
	totals := t.ColumnTotals()
	totalRow := make([]string, 0, len(totals)+1)
	totalRow = append(totalRow, m.tr.T("col.total"))
	for _, v := range totals {
		totalRow = append(totalRow, fmt.Sprintf("%.2f", v))
	}
	rows = append(rows, totalRow)
	return strings.Join(plot.FormatTable(headers, rows, rightAlign), "\n")
}

func (m *Model) renderStack(stack *wcl.StackResult) string {
	if stack == nil || len(stack.IndividualGains) == 0 {
		return m.tr.T("msg.stack_empty")
	}
	t := analysis.BuildStackTable(*stack)
	headers := append([]string{m.tr.T("col.attribute"), m.tr.T("col.total")}, t.Abilities...)
	rightAlign := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		rightAlign[i] = true
	}
	rows := make([][]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		row := make([]string, 0, len(r.Gains)+2)
		row = append(row, r.Attribute, fmt.Sprintf("%.2f", r.TotalGain))
		for _, v := range r.Gains {
			row = append(row, fmt.Sprintf("%.2f", v))
		}
		rows = append(rows, row)
	}
	combined := make([]string, 0, len(t.Combined)+2)
	var combinedTotal float64
	for _, v := range t.Combined {
		combinedTotal += v
	}
	combined = append(combined, m.tr.T("col.total"), fmt.Sprintf("%.2f", combinedTotal))
	for _, v := range t.Combined {
		combined = append(combined, fmt.Sprintf("%.2f", v))
	}
	rows = append(rows, combined)

	lines := plot.FormatTable(headers, rows, rightAlign)
	lines = append(lines, "", headerStyle.Render(plot.Sparkline(t.Combined)))
	return strings.Join(lines, "\n")
}
