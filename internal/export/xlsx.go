// Package export writes analysis results to an xlsx workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/polyhill/wow/internal/analysis"
	"github.com/polyhill/wow/internal/i18n"
	"github.com/polyhill/wow/internal/wcl"
)

// WriteWorkbook renders the breakdown, gain tables, and stack into an xlsx
// file under outDir and returns the written path. Headers follow the active
// language of the translator.
func WriteWorkbook(outDir, reportID string, fightID, playerID int, tr *i18n.Translator, result *wcl.AnalysisResult, stack *wcl.StackResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no analysis result to export")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	fileBase := fmt.Sprintf("%s_%s_f%d_p%d.xlsx",
		time.Now().Format("20060102"), sanitizeFilenamePart(reportID), fightID, playerID)
	outPath := filepath.Join(outDir, fileBase)

	f := excelize.NewFile()
	breakdownSheet := tr.T("tab.breakdown")
	if err := f.SetSheetName("Sheet1", breakdownSheet); err != nil {
		return "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", err
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Italic: true}})
	if err != nil {
		return "", err
	}

	if err := writeBreakdownSheet(f, breakdownSheet, headerStyle, tr, result.Breakdown); err != nil {
		return "", err
	}
	gainsSheet := tr.T("tab.gains")
	if _, err := f.NewSheet(gainsSheet); err != nil {
		return "", err
	}
	if err := writeGainsSheet(f, gainsSheet, headerStyle, sectionStyle, tr, result.GainDetails); err != nil {
		return "", err
	}
	if stack != nil && len(stack.IndividualGains) > 0 {
		stackSheet := tr.T("tab.stack")
		if _, err := f.NewSheet(stackSheet); err != nil {
			return "", err
		}
		if err := writeStackSheet(f, stackSheet, headerStyle, tr, *stack); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return outPath, nil
}

func writeBreakdownSheet(f *excelize.File, sheet string, headerStyle int, tr *i18n.Translator, rows []wcl.BreakdownRow) error {
	headers := []string{
		tr.T("col.ability"), tr.T("col.damage"), tr.T("col.dps"), tr.T("col.percent"),
		tr.T("col.casts"), tr.T("col.hits"), tr.T("col.crits"), tr.T("col.misses"),
		tr.T("col.dodges"), tr.T("col.parries"), tr.T("col.crit_rate"), tr.T("col.miss_rate"),
	}
	if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, len(headers), headerStyle); err != nil {
		return err
	}

	row := 2
	for _, r := range analysis.SortBreakdown(rows) {
		cells := []any{
			r.Ability,
			r.TotalDamage.Float(),
			r.DPS.Float(),
			r.DamagePercent.Float(),
			int(r.Casts.Float()),
			int(r.Hits.Float()),
			int(r.Crits.Float()),
			int(r.Misses.Float()),
			int(r.Dodges.Float()),
			int(r.Parries.Float()),
			r.CritRate.Float(),
			r.MissRate.Float(),
		}
		if err := writeRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(sheet, "A", "A", 22)
}

func writeGainsSheet(f *excelize.File, sheet string, headerStyle, sectionStyle int, tr *i18n.Translator, details wcl.GainDetails) error {
	tables := analysis.BuildGainTables(details)
	sections := []struct {
		title string
		table analysis.GainTable
	}{
		{tr.T("gains.attack_power"), tables.AttackPower},
		{tr.T("gains.crit"), tables.Crit},
		{tr.T("gains.hit"), tables.Hit},
		{tr.T("gains.mh_skill"), tables.MainHand},
		{tr.T("gains.oh_skill"), tables.OffHand},
	}

	row := 1
	for _, sec := range sections {
		if len(sec.table.Rows) == 0 {
			continue
		}
		if err := writeRow(f, sheet, row, []any{sec.title}); err != nil {
			return err
		}
		if err := styleRow(f, sheet, row, 1, sectionStyle); err != nil {
			return err
		}
		row++

		headers := append([]string{tr.T("col.ability")}, sec.table.Columns...)
		if err := writeRow(f, sheet, row, toCells(headers)); err != nil {
			return err
		}
		if err := styleRow(f, sheet, row, len(headers), headerStyle); err != nil {
			return err
		}
		row++

		for _, r := range sec.table.Rows {
			cells := make([]any, 0, len(r.Values)+1)
			cells = append(cells, r.Ability)
			for _, v := range r.Values {
				cells = append(cells, v)
			}
			if err := writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
		row++ // blank row between sections
	}
	return f.SetColWidth(sheet, "A", "A", 22)
}

func writeStackSheet(f *excelize.File, sheet string, headerStyle int, tr *i18n.Translator, stack wcl.StackResult) error {
	table := analysis.BuildStackTable(stack)
	headers := append([]string{tr.T("col.attribute"), tr.T("col.total")}, table.Abilities...)
	if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, len(headers), headerStyle); err != nil {
		return err
	}

	row := 2
	for _, r := range table.Rows {
		cells := make([]any, 0, len(r.Gains)+2)
		cells = append(cells, r.Attribute, r.TotalGain)
		for _, v := range r.Gains {
			cells = append(cells, v)
		}
		if err := writeRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}

	combined := make([]any, 0, len(table.Combined)+2)
	combined = append(combined, tr.T("col.total"), sumValues(table.Combined))
	for _, v := range table.Combined {
		combined = append(combined, v)
	}
	if err := writeRow(f, sheet, row, combined); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 22)
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	for i, cell := range cells {
		name, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, cell); err != nil {
			return err
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func sumValues(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

func sanitizeFilenamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return strconv.Itoa(int(time.Now().Unix()))
	}
	return b.String()
}
