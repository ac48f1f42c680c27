package analysis

import (
	"testing"

	"github.com/polyhill/wow/internal/wcl"
)

func TestBuildGainTableAlignsColumns(t *testing.T) {
	rows := []wcl.GainRow{
		{Ability: "Whirlwind", Steps: map[string]float64{"+10 AP": 0.5, "+20 AP": 1.0}},
		{Ability: "Bloodthirst", Steps: map[string]float64{"+10 AP": 1.2, "+100 AP": 12.0}},
	}
	table := BuildGainTable(rows)

	expectedCols := []string{"+10 AP", "+20 AP", "+100 AP"}
	if len(table.Columns) != len(expectedCols) {
		t.Fatalf("expected %d columns, got %d", len(expectedCols), len(table.Columns))
	}
	for i, col := range expectedCols {
		if table.Columns[i] != col {
			t.Fatalf("expected column %q at index %d, got %q", col, i, table.Columns[i])
		}
	}

	if table.Rows[0].Ability != "Bloodthirst" {
		t.Fatalf("expected rows sorted by ability, got %q first", table.Rows[0].Ability)
	}
	// Bloodthirst has no +20 AP column; absent cells read as zero.
	if table.Rows[0].Values[1] != 0 {
		t.Fatalf("expected missing cell to be 0, got %v", table.Rows[0].Values[1])
	}
	if table.Rows[1].Values[0] != 0.5 {
		t.Fatalf("expected 0.5, got %v", table.Rows[1].Values[0])
	}
}

func TestBuildGainTableEmpty(t *testing.T) {
	table := BuildGainTable(nil)
	if len(table.Columns) != 0 || len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}

func TestColumnTotals(t *testing.T) {
	table := GainTable{
		Columns: []string{"+10 AP", "+20 AP"},
		Rows: []GainTableRow{
			{Ability: "A", Values: []float64{1, 2}},
			{Ability: "B", Values: []float64{3, 4}},
		},
	}
	totals := table.ColumnTotals()
	if totals[0] != 4 || totals[1] != 6 {
		t.Fatalf("unexpected totals %v", totals)
	}
}

func TestBuildGainTablesCoversAllAttributes(t *testing.T) {
	details := wcl.GainDetails{
		AttackPower: []wcl.GainRow{{Ability: "A", Steps: map[string]float64{"+10 AP": 1}}},
		Crit:        []wcl.GainRow{{Ability: "A", Steps: map[string]float64{"1%": 2}}},
		Hit:         []wcl.GainRow{{Ability: "A", Steps: map[string]float64{"1%": 3}}},
		WeaponSkill: wcl.SkillGainDetails{
			MainHand: []wcl.GainRow{{Ability: "A", Steps: map[string]float64{"+1 Skill": 4}}},
			OffHand:  []wcl.GainRow{{Ability: "A", Steps: map[string]float64{"+1 Skill": 5}}},
		},
	}
	tables := BuildGainTables(details)
	if tables.AttackPower.Rows[0].Values[0] != 1 {
		t.Fatalf("unexpected AP table %+v", tables.AttackPower)
	}
	if tables.Crit.Rows[0].Values[0] != 2 {
		t.Fatalf("unexpected crit table %+v", tables.Crit)
	}
	if tables.Hit.Rows[0].Values[0] != 3 {
		t.Fatalf("unexpected hit table %+v", tables.Hit)
	}
	if tables.MainHand.Rows[0].Values[0] != 4 {
		t.Fatalf("unexpected mh table %+v", tables.MainHand)
	}
	if tables.OffHand.Rows[0].Values[0] != 5 {
		t.Fatalf("unexpected oh table %+v", tables.OffHand)
	}
}
