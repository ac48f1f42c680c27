// Package analysis reshapes analyzer responses for display.
package analysis

import (
	"sort"

	"github.com/polyhill/wow/internal/wcl"
)

// TotalAbility is the name of the synthetic summary row the analyzer appends
// to the damage breakdown.
const TotalAbility = "Total"

// SortBreakdown orders breakdown rows by total damage descending with the
// Total row pinned last. Ties break on ability name for stable output.
func SortBreakdown(rows []wcl.BreakdownRow) []wcl.BreakdownRow {
	out := append([]wcl.BreakdownRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if isTotal(out[i]) != isTotal(out[j]) {
			return !isTotal(out[i])
		}
		if out[i].TotalDamage == out[j].TotalDamage {
			return out[i].Ability < out[j].Ability
		}
		return out[i].TotalDamage > out[j].TotalDamage
	})
	return out
}

// TotalRow returns the breakdown's Total row, or false when the analyzer did
// not produce one (empty fight).
func TotalRow(rows []wcl.BreakdownRow) (wcl.BreakdownRow, bool) {
	for _, row := range rows {
		if isTotal(row) {
			return row, true
		}
	}
	return wcl.BreakdownRow{}, false
}

// Summary carries the headline numbers shown above the tables.
type Summary struct {
	TotalDPS    float64
	TotalDamage float64
	CritRate    float64
	MissRate    float64
	Abilities   int
}

// Summarize extracts headline metrics from a breakdown.
func Summarize(rows []wcl.BreakdownRow) Summary {
	var s Summary
	for _, row := range rows {
		if isTotal(row) {
			s.TotalDPS = row.DPS.Float()
			s.TotalDamage = row.TotalDamage.Float()
			s.CritRate = row.CritRate.Float()
			s.MissRate = row.MissRate.Float()
			continue
		}
		s.Abilities++
	}
	return s
}

func isTotal(row wcl.BreakdownRow) bool {
	return row.Ability == TotalAbility
}
