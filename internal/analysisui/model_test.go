package analysisui

import (
	"strings"
	"testing"

	"github.com/polyhill/wow/internal/i18n"
	"github.com/polyhill/wow/internal/model"
	"github.com/polyhill/wow/internal/wcl"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load locales: %v", err)
	}
	cfg := model.AnalyzeConfig{
		ReportID: "abc123",
		FightID:  4,
		PlayerID: 7,
		Status:   model.DefaultStatus(),
	}
	m := NewModel(nil, nil, tr, cfg)
	m.width = 100
	m.height = 30
	return m
}

func testAnalysis() *wcl.Analysis {
	return &wcl.Analysis{
		Result: &wcl.AnalysisResult{
			Breakdown: []wcl.BreakdownRow{
				{Ability: "Total", TotalDamage: 65000, DPS: 420.5, CritRate: 27.4, MissRate: 4.8},
				{Ability: "Whirlwind", TotalDamage: 20000, DPS: 130},
				{Ability: "Bloodthirst", TotalDamage: 45000, DPS: 290.5},
			},
			Curves: wcl.Curves{
				AttackPower: []wcl.CurvePoint{{X: 0, Y: 0}, {X: 10, Y: 0.8}},
				HitCrit:     []wcl.HitCritPoint{{Step: 0}, {Step: 1, HitDPS: 8.2, CritDPS: 10.5}},
			},
			GainDetails: wcl.GainDetails{
				AttackPower: []wcl.GainRow{
					{Ability: "Bloodthirst", Steps: map[string]float64{"+10 AP": 1.2}},
				},
			},
		},
		Stack: &wcl.StackResult{
			IndividualGains: []wcl.AttributeGain{
				{
					Attribute:    "crit",
					TotalGain:    10,
					AbilityGains: map[string]wcl.Number{"Bloodthirst": 10},
				},
			},
			TotalGains: map[string]wcl.Number{"Bloodthirst": 10},
		},
	}
}

func TestBreakdownTablePinsTotalLast(t *testing.T) {
	m := newTestModel(t)
	m.analysis = testAnalysis()
	m.applyBreakdownTable()

	rows := m.breakdownTable.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Bloodthirst" {
		t.Fatalf("expected Bloodthirst first, got %q", rows[0][0])
	}
	if rows[2][0] != "Total" {
		t.Fatalf("expected Total last, got %q", rows[2][0])
	}
}

func TestRenderStackTable(t *testing.T) {
	m := newTestModel(t)
	out := m.renderStack(testAnalysis().Stack)
	if !strings.Contains(out, "crit") {
		t.Fatalf("missing attribute row:\n%s", out)
	}
	if !strings.Contains(out, "Bloodthirst") {
		t.Fatalf("missing ability column:\n%s", out)
	}
	if !strings.Contains(out, "10.00") {
		t.Fatalf("missing gain value:\n%s", out)
	}
}

func TestRenderStackEmpty(t *testing.T) {
	m := newTestModel(t)
	out := m.renderStack(nil)
	if out != m.tr.T("msg.stack_empty") {
		t.Fatalf("expected empty-stack message, got %q", out)
	}
}

func TestRenderGainsIncludesTotalsRow(t *testing.T) {
	m := newTestModel(t)
	out := m.renderGains(testAnalysis().Result)
	if !strings.Contains(out, "+10 AP") {
		t.Fatalf("missing step column:\n%s", out)
	}
	if !strings.Contains(out, "Total") {
		t.Fatalf("missing totals row:\n%s", out)
	}
}

func TestToggleLanguageRerendersTabs(t *testing.T) {
	m := newTestModel(t)
	if m.tabs[0] != "Breakdown" {
		t.Fatalf("unexpected initial tab %q", m.tabs[0])
	}
	m.toggleLanguage()
	if m.tabs[0] != "伤害明细" {
		t.Fatalf("expected Chinese tab after toggle, got %q", m.tabs[0])
	}
	if m.cfg.Lang != "zh" {
		t.Fatalf("expected lang zh, got %q", m.cfg.Lang)
	}
}

func TestApplyFormParsesAttributes(t *testing.T) {
	m := newTestModel(t)
	m.formInputs[0].SetValue("30")
	m.formInputs[4].SetValue("2.5")
	if err := m.applyForm(); err != nil {
		t.Fatalf("applyForm failed: %v", err)
	}
	if m.cfg.Attrs.Strength != 30 {
		t.Fatalf("expected strength 30, got %v", m.cfg.Attrs.Strength)
	}
	if m.cfg.Attrs.Crit != 2.5 {
		t.Fatalf("expected crit 2.5, got %v", m.cfg.Attrs.Crit)
	}
}

func TestApplyFormRejectsGarbage(t *testing.T) {
	m := newTestModel(t)
	m.formInputs[0].SetValue("lots")
	if err := m.applyForm(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a  " {
		t.Fatalf("expected padded line, got %q", lines[0])
	}

	out = fitLines("a", 3, 3)
	lines = strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[2] != "   " {
		t.Fatalf("expected blank fill line, got %q", lines[2])
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("expected unchanged line, got %q", got)
	}
}
