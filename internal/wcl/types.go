// Package wcl provides the client for the WCL fight analyzer service.
package wcl

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates the analyzer's loose typing. JSON null,
// absent fields, numeric strings, and anything unparsable all read as zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = coerceNumber(data)
	return nil
}

// Float returns the value as a plain float64.
func (n Number) Float() float64 {
	return float64(n)
}

func coerceNumber(data []byte) Number {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return 0
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Number(parsed)
}

// CurvePoint is one sample of a DPS-gain curve.
type CurvePoint struct {
	X Number `json:"x"`
	Y Number `json:"y"`
}

// HitCritPoint carries the combined hit/crit curve sample: the hit curve DPS
// gain and the crit curve DPS gain at the same stat increment.
type HitCritPoint struct {
	Step    Number `json:"hit"`
	HitDPS  Number `json:"dps"`
	CritDPS Number `json:"crit_dps"`
}

// BreakdownRow is one per-ability row of the damage breakdown, including the
// synthetic "Total" row the analyzer appends.
type BreakdownRow struct {
	Ability       string `json:"ability"`
	TotalDamage   Number `json:"total_damage"`
	DPS           Number `json:"dps"`
	DamagePercent Number `json:"damage_percent"`
	Casts         Number `json:"casts"`
	Hits          Number `json:"hits"`
	Crits         Number `json:"crits"`
	Misses        Number `json:"misses"`
	Dodges        Number `json:"dodges"`
	Parries       Number `json:"parries"`
	Glances       Number `json:"glances"`
	Blocks        Number `json:"blocks"`
	CritRate      Number `json:"crit_rate"`
	MissRate      Number `json:"miss_rate"`
}

// GainRow maps one ability to its per-step DPS gains. The analyzer emits
// these rows as flat objects whose column keys vary by attribute
// ("+10 AP", "3%", "+5 Skill"), so decoding is by hand.
type GainRow struct {
	Ability string
	Steps   map[string]float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *GainRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Steps = make(map[string]float64, len(raw))
	for key, value := range raw {
		if key == "ability" {
			var name string
			if err := json.Unmarshal(value, &name); err == nil {
				g.Ability = name
			}
			continue
		}
		g.Steps[key] = coerceNumber(value).Float()
	}
	return nil
}

// StepKeys returns the row's column keys sorted by their numeric step.
func (g GainRow) StepKeys() []string {
	keys := make([]string, 0, len(g.Steps))
	for key := range g.Steps {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := stepValue(keys[i]), stepValue(keys[j])
		if si == sj {
			return keys[i] < keys[j]
		}
		return si < sj
	})
	return keys
}

func stepValue(key string) float64 {
	trimmed := strings.TrimLeft(key, "+")
	var digits strings.Builder
	for _, r := range trimmed {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			digits.WriteRune(r)
			continue
		}
		break
	}
	parsed, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// SkillCurves groups weapon-skill curves by hand plus their sum.
type SkillCurves struct {
	MainHand []CurvePoint `json:"mh"`
	OffHand  []CurvePoint `json:"oh"`
	Total    []CurvePoint `json:"total"`
}

// Curves groups the DPS-gain curves keyed by attribute.
type Curves struct {
	AttackPower []CurvePoint   `json:"attack_power"`
	WeaponSkill SkillCurves    `json:"weapon_skill"`
	HitCrit     []HitCritPoint `json:"hit_crit"`
}

// SkillGainDetails groups weapon-skill gain tables by hand.
type SkillGainDetails struct {
	MainHand []GainRow `json:"mh"`
	OffHand  []GainRow `json:"oh"`
}

// GainDetails groups the per-ability gain tables keyed by attribute.
type GainDetails struct {
	AttackPower []GainRow        `json:"attack_power"`
	Crit        []GainRow        `json:"crit"`
	Hit         []GainRow        `json:"hit"`
	WeaponSkill SkillGainDetails `json:"weapon_skill"`
}

// AnalysisResult is the full /api/analyze response.
type AnalysisResult struct {
	Breakdown   []BreakdownRow `json:"damage_breakdown"`
	Curves      Curves         `json:"dps_curves"`
	GainDetails GainDetails    `json:"dps_gain_details"`
}

// AttributeGain is the stack contribution of a single attribute.
type AttributeGain struct {
	Attribute    string            `json:"attribute"`
	TotalGain    Number            `json:"total_dps_gain"`
	AbilityGains map[string]Number `json:"ability_gains"`
}

// StackResult is the /api/dps_simulation_stack response: the combined gain of
// all requested attributes plus each attribute's individual contribution.
type StackResult struct {
	IndividualGains []AttributeGain   `json:"individual_gains"`
	TotalGains      map[string]Number `json:"total_gains"`
}

// Analysis joins the two per-action responses.
type Analysis struct {
	Result *AnalysisResult
	Stack  *StackResult
}
