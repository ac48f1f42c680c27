package export

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/polyhill/wow/internal/i18n"
	"github.com/polyhill/wow/internal/wcl"
)

func testResult() *wcl.AnalysisResult {
	return &wcl.AnalysisResult{
		Breakdown: []wcl.BreakdownRow{
			{Ability: "Total", TotalDamage: 65000, DPS: 420.5},
			{Ability: "Whirlwind", TotalDamage: 20000, DPS: 130},
			{Ability: "Bloodthirst", TotalDamage: 45000, DPS: 290.5},
		},
		GainDetails: wcl.GainDetails{
			AttackPower: []wcl.GainRow{
				{Ability: "Bloodthirst", Steps: map[string]float64{"+10 AP": 1.2, "+20 AP": 2.4}},
			},
		},
	}
}

func testStack() *wcl.StackResult {
	return &wcl.StackResult{
		IndividualGains: []wcl.AttributeGain{
			{
				Attribute:    "crit",
				TotalGain:    10,
				AbilityGains: map[string]wcl.Number{"Bloodthirst": 10},
			},
		},
		TotalGains: map[string]wcl.Number{"Bloodthirst": 10},
	}
}

func TestWriteWorkbook(t *testing.T) {
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load locales: %v", err)
	}

	path, err := WriteWorkbook(t.TempDir(), "abc123", 4, 7, tr, testResult(), testStack())
	if err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			t.Fatalf("failed to close workbook: %v", cerr)
		}
	}()

	sheets := f.GetSheetList()
	expected := map[string]bool{"Breakdown": false, "Gain Details": false, "DPS Stack": false}
	for _, sheet := range sheets {
		if _, ok := expected[sheet]; ok {
			expected[sheet] = true
		}
	}
	for sheet, found := range expected {
		if !found {
			t.Fatalf("missing sheet %q in %v", sheet, sheets)
		}
	}

	header, err := f.GetCellValue("Breakdown", "A1")
	if err != nil {
		t.Fatalf("failed to read header: %v", err)
	}
	if header != "Ability" {
		t.Fatalf("unexpected header %q", header)
	}

	first, err := f.GetCellValue("Breakdown", "A2")
	if err != nil {
		t.Fatalf("failed to read first row: %v", err)
	}
	if first != "Bloodthirst" {
		t.Fatalf("expected Bloodthirst first, got %q", first)
	}
	last, err := f.GetCellValue("Breakdown", "A4")
	if err != nil {
		t.Fatalf("failed to read last row: %v", err)
	}
	if last != "Total" {
		t.Fatalf("expected Total pinned last, got %q", last)
	}
}

func TestWriteWorkbookWithoutStack(t *testing.T) {
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load locales: %v", err)
	}

	path, err := WriteWorkbook(t.TempDir(), "abc123", 4, 7, tr, testResult(), nil)
	if err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			t.Fatalf("failed to close workbook: %v", cerr)
		}
	}()

	for _, sheet := range f.GetSheetList() {
		if sheet == "DPS Stack" {
			t.Fatalf("expected no stack sheet without stack data")
		}
	}
}

func TestWriteWorkbookNilResult(t *testing.T) {
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to load locales: %v", err)
	}
	if _, err := WriteWorkbook(t.TempDir(), "abc123", 4, 7, tr, nil, nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}

func TestSanitizeFilenamePart(t *testing.T) {
	if got := sanitizeFilenamePart("aB3-_x"); got != "aB3-_x" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	if got := sanitizeFilenamePart("a/b:c"); got != "a_b_c" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}
