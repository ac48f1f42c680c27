package mockwcl

import (
	"fmt"
	"math"
)

// baseDPS is each ability's canned contribution before attribute deltas.
var baseDPS = []float64{310, 205, 240, 160, 190, 85, 60}

// buildAnalysis shapes a deterministic /api/analyze response. Attribute deltas
// in the request shift the numbers so what-if runs look different from the
// baseline.
func buildAnalysis(req analyzeRequest) map[string]any {
	boost := attributeBoost(req)
	duration := fightDuration(req.FightID)

	breakdown := make([]map[string]any, 0, len(abilities)+1)
	var totalDamage, totalDPS float64
	for i, ability := range abilities {
		dps := baseDPS[i] * boost
		damage := dps * duration
		totalDamage += damage
		totalDPS += dps
		breakdown = append(breakdown, map[string]any{
			"ability":      ability,
			"total_damage": math.Round(damage),
			"dps":          round2(dps),
			"casts":        80 - i*8,
			"hits":         64 - i*7,
			"crits":        22 - i*2,
			"misses":       4,
			"dodges":       3,
			"parries":      1,
			"glances":      9,
			"blocks":       0,
			"crit_rate":    round2(28 + float64(i)),
			"miss_rate":    round2(5.5 - float64(i)*0.3),
		})
	}
	for _, row := range breakdown {
		row["damage_percent"] = round2(row["total_damage"].(float64) / totalDamage * 100)
	}
	breakdown = append(breakdown, map[string]any{
		"ability":        "Total",
		"total_damage":   math.Round(totalDamage),
		"dps":            round2(totalDPS),
		"damage_percent": 100.0,
		"casts":          0, "hits": 0, "crits": 0, "misses": 0,
		"dodges": 0, "parries": 0, "glances": 0, "blocks": 0,
		"crit_rate": 27.4, "miss_rate": 4.8,
	})

	return map[string]any{
		"damage_breakdown": breakdown,
		"dps_curves": map[string]any{
			"attack_power": curve(0, 200, 10, 0.082*boost),
			"weapon_skill": map[string]any{
				"mh":    curve(0, 15, 1, 1.9*boost),
				"oh":    curve(0, 15, 1, 1.1*boost),
				"total": curve(0, 15, 1, 3.0*boost),
			},
			"hit_crit": hitCritCurve(boost),
		},
		"dps_gain_details": map[string]any{
			"attack_power": gainRows("+%d AP", 10, 10, 0.082*boost),
			"crit":         gainRows("%d%%", 1, 10, 10.5*boost),
			"hit":          gainRows("%d%%", 1, 10, 8.2*boost),
			"weapon_skill": map[string]any{
				"mh": gainRows("+%d Skill", 1, 10, 1.9*boost),
				"oh": gainRows("+%d Skill", 1, 10, 1.1*boost),
			},
		},
	}
}

// buildStack shapes a deterministic /api/dps_simulation_stack response,
// covering only the attributes the request actually changes.
func buildStack(req analyzeRequest) map[string]any {
	perPoint := map[string]float64{
		"strength":     0.17,
		"agility":      0.12,
		"attack_power": 0.082,
		"haste":        1.4,
		"crit":         10.5,
		"hit":          8.2,
		"mh_skill":     1.9,
		"oh_skill":     1.1,
	}
	deltas := map[string]float64{
		"strength":     req.Attributes.Strength,
		"agility":      req.Attributes.Agility,
		"attack_power": req.Attributes.AttackPower,
		"haste":        req.Attributes.Haste,
		"crit":         req.Attributes.Crit,
		"hit":          req.Attributes.Hit,
		"mh_skill":     req.Attributes.MainHandSkill,
		"oh_skill":     req.Attributes.OffHandSkill,
	}
	order := []string{"strength", "agility", "attack_power", "haste", "crit", "hit", "mh_skill", "oh_skill"}

	individual := []map[string]any{}
	totals := map[string]float64{}
	for _, attr := range order {
		delta := deltas[attr]
		if delta == 0 {
			continue
		}
		gain := delta * perPoint[attr]
		abilityGains := map[string]float64{}
		var dpsSum float64
		for i := range abilities {
			dpsSum += baseDPS[i]
		}
		for i, ability := range abilities {
			share := round2(gain * baseDPS[i] / dpsSum)
			abilityGains[ability] = share
			totals[ability] += share
		}
		individual = append(individual, map[string]any{
			"attribute":      attr,
			"total_dps_gain": round2(gain),
			"ability_gains":  abilityGains,
		})
	}

	totalGains := map[string]float64{}
	for ability, v := range totals {
		totalGains[ability] = round2(v)
	}
	return map[string]any{
		"individual_gains": individual,
		"total_gains":      totalGains,
	}
}

func attributeBoost(req analyzeRequest) float64 {
	a := req.Attributes
	extra := a.Strength*0.0002 + a.Agility*0.00012 + a.AttackPower*0.0001 +
		a.Haste*0.002 + a.Crit*0.012 + a.Hit*0.009 +
		a.MainHandSkill*0.0022 + a.OffHandSkill*0.0013
	return 1 + extra
}

func fightDuration(fightID int) float64 {
	for _, f := range fights {
		if f.ID == fightID {
			return float64(f.Duration) / 1000
		}
	}
	return 150
}

func curve(from, to, step int, perPoint float64) []map[string]float64 {
	points := []map[string]float64{}
	for x := from; x <= to; x += step {
		points = append(points, map[string]float64{
			"x": float64(x),
			"y": round2(float64(x) * perPoint),
		})
	}
	return points
}

func hitCritCurve(boost float64) []map[string]float64 {
	points := []map[string]float64{}
	for x := 0; x <= 15; x++ {
		points = append(points, map[string]float64{
			"hit":      float64(x),
			"dps":      round2(float64(x) * 8.2 * boost),
			"crit_dps": round2(float64(x) * 10.5 * boost),
		})
	}
	return points
}

// gainRows emits the analyzer's flat map-shaped rows: an "ability" key plus
// one column per increment step.
func gainRows(keyFormat string, step, count int, perPoint float64) []map[string]any {
	var dpsSum float64
	for i := range abilities {
		dpsSum += baseDPS[i]
	}
	rows := make([]map[string]any, 0, len(abilities))
	for i, ability := range abilities {
		row := map[string]any{"ability": ability}
		for n := 1; n <= count; n++ {
			increment := float64(n * step)
			key := fmt.Sprintf(keyFormat, n*step)
			row[key] = round2(increment * perPoint * baseDPS[i] / dpsSum)
		}
		rows = append(rows, row)
	}
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
