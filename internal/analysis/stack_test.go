package analysis

import (
	"testing"

	"github.com/polyhill/wow/internal/wcl"
)

func testStack() wcl.StackResult {
	return wcl.StackResult{
		IndividualGains: []wcl.AttributeGain{
			{
				Attribute: "crit",
				TotalGain: 10,
				AbilityGains: map[string]wcl.Number{
					"Bloodthirst": 6,
					"Whirlwind":   4,
				},
			},
			{
				Attribute: "attack_power",
				TotalGain: 20,
				AbilityGains: map[string]wcl.Number{
					"Bloodthirst": 12,
					"Whirlwind":   8,
				},
			},
		},
		TotalGains: map[string]wcl.Number{
			"Bloodthirst": 18,
			"Whirlwind":   12,
		},
	}
}

func TestBuildStackTableOrdering(t *testing.T) {
	table := BuildStackTable(testStack())

	if len(table.Abilities) != 2 {
		t.Fatalf("expected 2 abilities, got %d", len(table.Abilities))
	}
	if table.Abilities[0] != "Bloodthirst" {
		t.Fatalf("expected abilities by combined gain, got %q first", table.Abilities[0])
	}
	if table.Rows[0].Attribute != "attack_power" {
		t.Fatalf("expected rows by total gain, got %q first", table.Rows[0].Attribute)
	}
	if table.Rows[0].Gains[0] != 12 {
		t.Fatalf("expected aligned gain 12, got %v", table.Rows[0].Gains[0])
	}
	if table.Combined[0] != 18 || table.Combined[1] != 12 {
		t.Fatalf("unexpected combined row %v", table.Combined)
	}
}

func TestBuildStackTableSparseGains(t *testing.T) {
	stack := wcl.StackResult{
		IndividualGains: []wcl.AttributeGain{
			{
				Attribute:    "hit",
				TotalGain:    5,
				AbilityGains: map[string]wcl.Number{"Execute": 5},
			},
		},
		TotalGains: map[string]wcl.Number{"Bloodthirst": 3},
	}
	table := BuildStackTable(stack)
	if len(table.Abilities) != 2 {
		t.Fatalf("expected union of abilities, got %v", table.Abilities)
	}
	// Execute appears only in individual gains; Bloodthirst only in totals.
	var executeIdx int
	for i, ability := range table.Abilities {
		if ability == "Execute" {
			executeIdx = i
		}
	}
	if table.Rows[0].Gains[executeIdx] != 5 {
		t.Fatalf("expected Execute gain 5, got %v", table.Rows[0].Gains[executeIdx])
	}
}

func TestBuildStackTableEmpty(t *testing.T) {
	table := BuildStackTable(wcl.StackResult{})
	if len(table.Abilities) != 0 || len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}
