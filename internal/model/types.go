// Package model defines shared data structures.
package model

// Attributes holds the what-if stat deltas applied on top of the character's
// state during the fight. Zero values mean "unchanged".
type Attributes struct {
	Strength      float64 `json:"strength"`
	Agility       float64 `json:"agility"`
	AttackPower   float64 `json:"attackPower"`
	Haste         float64 `json:"haste"`
	Crit          float64 `json:"crit"`
	Hit           float64 `json:"hit"`
	MainHandSkill float64 `json:"mainHandSkill"`
	OffHandSkill  float64 `json:"offHandSkill"`
}

// IsZero reports whether no stat delta is set.
func (a Attributes) IsZero() bool {
	return a == Attributes{}
}

// CurrentStatus describes the character as it was during the logged fight.
// The analyzer uses it to rebuild the attack table before applying deltas.
type CurrentStatus struct {
	MainHandSpeed float64 `json:"main_hand_speed"`
	OffHandSpeed  float64 `json:"off_hand_speed"`
	MainHandSkill float64 `json:"mh_skill"`
	OffHandSkill  float64 `json:"oh_skill"`
	Hit           float64 `json:"hit"`
	Crit          float64 `json:"crit"`
}

// DefaultStatus returns the analyzer's assumed fury-warrior baseline.
func DefaultStatus() CurrentStatus {
	return CurrentStatus{
		MainHandSpeed: 2.4,
		OffHandSpeed:  1.8,
		MainHandSkill: 300,
		OffHandSkill:  300,
		Hit:           10,
		Crit:          45,
	}
}

// AnalyzeConfig defines a single analysis action: which report, fight, and
// player to analyze, and under what simulated stat changes.
type AnalyzeConfig struct {
	ReportID string
	FightID  int
	PlayerID int
	Lang     string
	Status   CurrentStatus
	Attrs    Attributes
}

// Fight identifies one boss kill within a report.
type Fight struct {
	ID         int
	Name       string
	DurationMs int64
}

// Player identifies a warrior in a report.
type Player struct {
	ID   int
	Name string
}

// ReportMeta carries report-level metadata for display.
type ReportMeta struct {
	Title     string
	StartTime string
}
