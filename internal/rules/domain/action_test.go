package rules

import (
	"errors"
	"testing"

	"growmind-cloud/internal/roles"
)

func testDirectory() *roles.Directory {
	dir := roles.NewDirectory()
	dir.Register("air_circulation", roles.CategoryClimate)
	dir.Register("exhaust_fan", roles.CategoryVentilation)
	dir.Register("irrigation_pump", roles.CategoryIrrigation)
	dir.Register("target_humidity", roles.CategorySetpoints)
	return dir
}

func TestParseActionToggleOn(t *testing.T) {
	action, err := ParseAction("Schalte air_circulation an", testDirectory())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if action.Role != "air_circulation" {
		t.Fatalf("role: got %s", action.Role)
	}
	if action.Category != roles.CategoryClimate {
		t.Fatalf("category: got %s", action.Category)
	}
	if action.Value.Kind != ValueToggle || !action.Value.On {
		t.Fatalf("value: got %+v, want toggle on", action.Value)
	}
}

func TestParseActionToggleOff(t *testing.T) {
	cases := []string{
		"turn exhaust_fan off",
		"Schalte exhaust_fan aus",
	}
	for _, text := range cases {
		action, err := ParseAction(text, testDirectory())
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		if action.Value.Kind != ValueToggle || action.Value.On {
			t.Fatalf("parse %q: got %+v, want toggle off", text, action.Value)
		}
	}
}

func TestParseActionSetpoint(t *testing.T) {
	action, err := ParseAction("Set irrigation_pump to 60", testDirectory())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if action.Value.Kind != ValueSetpoint || action.Value.Setpoint != 60 {
		t.Fatalf("value: got %+v, want setpoint 60", action.Value)
	}
	if action.Category != roles.CategoryIrrigation {
		t.Fatalf("category: got %s", action.Category)
	}
}

func TestParseActionSetpointCommaDecimal(t *testing.T) {
	action, err := ParseAction("Stelle target_humidity auf 62,5", testDirectory())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if action.Value.Kind != ValueSetpoint || action.Value.Setpoint != 62.5 {
		t.Fatalf("value: got %+v, want setpoint 62.5", action.Value)
	}
}

func TestParseActionSetpointRoleWithDigits(t *testing.T) {
	dir := roles.NewDirectory()
	dir.Register("target_co2", roles.CategorySetpoints)

	action, err := ParseAction("set target_co2 to 800", dir)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if action.Value.Kind != ValueSetpoint || action.Value.Setpoint != 800 {
		t.Fatalf("value: got %+v, want setpoint 800", action.Value)
	}
}

func TestParseActionUnknownRole(t *testing.T) {
	if _, err := ParseAction("Erhöhe Bewässerung auf 60", testDirectory()); !errors.Is(err, ErrUnresolvedRole) {
		t.Fatalf("expected ErrUnresolvedRole, got %v", err)
	}
}

func TestParseActionNoValue(t *testing.T) {
	if _, err := ParseAction("adjust irrigation_pump somehow", testDirectory()); !errors.Is(err, ErrUnresolvedRole) {
		t.Fatalf("expected ErrUnresolvedRole, got %v", err)
	}
}

func TestParseActionFirstRegisteredRoleWins(t *testing.T) {
	dir := roles.NewDirectory()
	dir.Register("heater", roles.CategoryClimate)
	dir.Register("humidifier", roles.CategoryClimate)

	action, err := ParseAction("turn humidifier and heater on", dir)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if action.Role != "heater" {
		t.Fatalf("tie-break: got %s, want first registered role heater", action.Role)
	}
}

func TestParseActionNilDirectory(t *testing.T) {
	if _, err := ParseAction("turn heater on", nil); !errors.Is(err, ErrUnresolvedRole) {
		t.Fatalf("expected ErrUnresolvedRole, got %v", err)
	}
}
