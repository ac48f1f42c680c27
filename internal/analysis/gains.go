package analysis

import (
	"sort"

	"github.com/polyhill/wow/internal/wcl"
)

// GainTable is a per-ability gain-detail table with step columns in ascending
// stat-increment order.
type GainTable struct {
	Columns []string
	Rows    []GainTableRow
}

// GainTableRow holds one ability's gains aligned to the table columns.
type GainTableRow struct {
	Ability string
	Values  []float64
}

// BuildGainTable flattens the analyzer's map-shaped gain rows into an aligned
// table. Columns are the union of all step keys in ascending step order; rows
// sort by ability name; cells absent from a row read as zero.
func BuildGainTable(rows []wcl.GainRow) GainTable {
	if len(rows) == 0 {
		return GainTable{}
	}

	merged := wcl.GainRow{Steps: map[string]float64{}}
	for _, row := range rows {
		for key := range row.Steps {
			merged.Steps[key] = 0
		}
	}
	columns := merged.StepKeys()

	out := GainTable{Columns: columns, Rows: make([]GainTableRow, 0, len(rows))}
	for _, row := range rows {
		values := make([]float64, len(columns))
		for i, key := range columns {
			values[i] = row.Steps[key]
		}
		out.Rows = append(out.Rows, GainTableRow{Ability: row.Ability, Values: values})
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Ability < out.Rows[j].Ability
	})
	return out
}

// ColumnTotals sums each step column across abilities.
func (t GainTable) ColumnTotals() []float64 {
	totals := make([]float64, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row.Values {
			if i < len(totals) {
				totals[i] += v
			}
		}
	}
	return totals
}

// GainTables groups the built tables for every simulated attribute.
type GainTables struct {
	AttackPower GainTable
	Crit        GainTable
	Hit         GainTable
	MainHand    GainTable
	OffHand     GainTable
}

// BuildGainTables builds all gain-detail tables from one analysis result.
func BuildGainTables(details wcl.GainDetails) GainTables {
	return GainTables{
		AttackPower: BuildGainTable(details.AttackPower),
		Crit:        BuildGainTable(details.Crit),
		Hit:         BuildGainTable(details.Hit),
		MainHand:    BuildGainTable(details.WeaponSkill.MainHand),
		OffHand:     BuildGainTable(details.WeaponSkill.OffHand),
	}
}
