package analysis

import (
	"sort"

	"github.com/polyhill/wow/internal/wcl"
)

// StackTable lays out the DPS stack decomposition: one row per contributing
// attribute, one column per ability, plus each row's total gain.
type StackTable struct {
	Abilities []string
	Rows      []StackRow
	Combined  []float64
}

// StackRow is one attribute's contribution across abilities.
type StackRow struct {
	Attribute string
	TotalGain float64
	Gains     []float64
}

// BuildStackTable shapes a stack result for display. Ability columns order by
// combined gain descending (name-tie ascending); attribute rows order by
// total gain descending.
func BuildStackTable(stack wcl.StackResult) StackTable {
	abilities := stackAbilities(stack)

	table := StackTable{
		Abilities: abilities,
		Rows:      make([]StackRow, 0, len(stack.IndividualGains)),
		Combined:  make([]float64, len(abilities)),
	}
	for i, ability := range abilities {
		table.Combined[i] = stack.TotalGains[ability].Float()
	}
	for _, gain := range stack.IndividualGains {
		row := StackRow{
			Attribute: gain.Attribute,
			TotalGain: gain.TotalGain.Float(),
			Gains:     make([]float64, len(abilities)),
		}
		for i, ability := range abilities {
			row.Gains[i] = gain.AbilityGains[ability].Float()
		}
		table.Rows = append(table.Rows, row)
	}
	sort.SliceStable(table.Rows, func(i, j int) bool {
		if table.Rows[i].TotalGain == table.Rows[j].TotalGain {
			return table.Rows[i].Attribute < table.Rows[j].Attribute
		}
		return table.Rows[i].TotalGain > table.Rows[j].TotalGain
	})
	return table
}

// stackAbilities unions the abilities seen in the combined and individual
// gains so a sparse response still yields a full set of columns.
func stackAbilities(stack wcl.StackResult) []string {
	seen := map[string]float64{}
	for ability, gain := range stack.TotalGains {
		seen[ability] = gain.Float()
	}
	for _, gain := range stack.IndividualGains {
		for ability, v := range gain.AbilityGains {
			if _, ok := seen[ability]; !ok {
				seen[ability] = v.Float()
			}
		}
	}
	abilities := make([]string, 0, len(seen))
	for ability := range seen {
		abilities = append(abilities, ability)
	}
	sort.Slice(abilities, func(i, j int) bool {
		if seen[abilities[i]] == seen[abilities[j]] {
			return abilities[i] < abilities[j]
		}
		return seen[abilities[i]] > seen[abilities[j]]
	})
	return abilities
}
