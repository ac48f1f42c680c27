package model

import (
	"encoding/json"
	"testing"
)

func TestAttributesIsZero(t *testing.T) {
	if !(Attributes{}).IsZero() {
		t.Fatalf("expected zero attributes")
	}
	if (Attributes{Crit: 1}).IsZero() {
		t.Fatalf("expected non-zero attributes")
	}
}

func TestCurrentStatusWireNames(t *testing.T) {
	raw, err := json.Marshal(DefaultStatus())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	expected := map[string]float64{
		"main_hand_speed": 2.4,
		"off_hand_speed":  1.8,
		"mh_skill":        300,
		"oh_skill":        300,
		"hit":             10,
		"crit":            45,
	}
	for key, value := range expected {
		if decoded[key] != value {
			t.Fatalf("expected %s=%v, got %v", key, value, decoded[key])
		}
	}
}
