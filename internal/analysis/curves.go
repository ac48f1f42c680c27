package analysis

import "github.com/polyhill/wow/internal/wcl"

// CurveSeries is a named curve ready for plotting.
type CurveSeries struct {
	Name   string
	Values []float64
}

// CurveValues extracts the y values of a curve in sample order.
func CurveValues(points []wcl.CurvePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Y.Float()
	}
	return values
}

// CombinedSkillTotal returns the analyzer's summed weapon-skill curve, or
// recomputes it from the per-hand curves when the payload omits it.
func CombinedSkillTotal(curves wcl.SkillCurves) []wcl.CurvePoint {
	if len(curves.Total) > 0 {
		return curves.Total
	}
	n := len(curves.MainHand)
	if len(curves.OffHand) < n {
		n = len(curves.OffHand)
	}
	total := make([]wcl.CurvePoint, 0, n)
	for i := 0; i < n; i++ {
		total = append(total, wcl.CurvePoint{
			X: curves.MainHand[i].X,
			Y: curves.MainHand[i].Y + curves.OffHand[i].Y,
		})
	}
	return total
}

// SplitHitCrit unpacks the combined hit/crit payload into two curves.
func SplitHitCrit(points []wcl.HitCritPoint) (hit, crit []wcl.CurvePoint) {
	hit = make([]wcl.CurvePoint, 0, len(points))
	crit = make([]wcl.CurvePoint, 0, len(points))
	for _, p := range points {
		hit = append(hit, wcl.CurvePoint{X: p.Step, Y: p.HitDPS})
		crit = append(crit, wcl.CurvePoint{X: p.Step, Y: p.CritDPS})
	}
	return hit, crit
}

// SkillSeries builds the three weapon-skill plot series.
func SkillSeries(curves wcl.SkillCurves) []CurveSeries {
	return []CurveSeries{
		{Name: "Main Hand", Values: CurveValues(curves.MainHand)},
		{Name: "Off Hand", Values: CurveValues(curves.OffHand)},
		{Name: "Total", Values: CurveValues(CombinedSkillTotal(curves))},
	}
}

// HitCritSeries builds the two hit/crit plot series.
func HitCritSeries(points []wcl.HitCritPoint) []CurveSeries {
	hit, crit := SplitHitCrit(points)
	return []CurveSeries{
		{Name: "Hit", Values: CurveValues(hit)},
		{Name: "Crit", Values: CurveValues(crit)},
	}
}
