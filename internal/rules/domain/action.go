package rules

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"growmind-cloud/internal/roles"
)

// ValueKind discriminates toggle and setpoint action values.
type ValueKind string

const (
	ValueToggle   ValueKind = "toggle"
	ValueSetpoint ValueKind = "setpoint"
)

// Value is the payload an action applies to its role: either a boolean
// toggle or a float setpoint, never both.
type Value struct {
	Kind     ValueKind `json:"kind"`
	On       bool      `json:"on,omitempty"`
	Setpoint float64   `json:"setpoint,omitempty"`
}

// ToggleValue builds a toggle value.
func ToggleValue(on bool) Value {
	return Value{Kind: ValueToggle, On: on}
}

// SetpointValue builds a setpoint value.
func SetpointValue(v float64) Value {
	return Value{Kind: ValueSetpoint, Setpoint: v}
}

// ErrUnresolvedRole is returned when a then-text names no known role, or
// names a role but carries neither a toggle verb nor a numeric literal.
var ErrUnresolvedRole = errors.New("rules: unresolved role")

// Action is the structured form of a rule's then-text.
type Action struct {
	Role     string         `json:"role"`
	Category roles.Category `json:"category"`
	Value    Value          `json:"value"`
}

var (
	toggleOnPattern  = regexp.MustCompile(`(?i)\b(toggle|turn|schalte)\b.*\b(on|an)\b`)
	toggleOffPattern = regexp.MustCompile(`(?i)\b(toggle|turn|schalte)\b.*\b(off|aus)\b`)
	numberPattern    = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
)

// ParseAction extracts an action from free text against a role directory.
// The directory is scanned in registration order and the first role whose
// key appears as a substring of the lowercased text wins. When several
// role keys are substrings of the same text this tie-break is deliberate
// and must stay deterministic.
func ParseAction(text string, directory *roles.Directory) (Action, error) {
	if directory == nil {
		return Action{}, ErrUnresolvedRole
	}
	lowered := strings.ToLower(text)

	var role string
	for _, key := range directory.Roles() {
		if strings.Contains(lowered, key) {
			role = key
			break
		}
	}
	if role == "" {
		return Action{}, ErrUnresolvedRole
	}
	category, _ := directory.Category(role)

	// Strip the role key before scanning for a setpoint, so digits inside
	// role names like target_co2 are not read as the value.
	value, err := parseValue(strings.Replace(lowered, role, " ", 1))
	if err != nil {
		return Action{}, err
	}
	return Action{Role: role, Category: category, Value: value}, nil
}

func parseValue(lowered string) (Value, error) {
	if toggleOnPattern.MatchString(lowered) {
		return ToggleValue(true), nil
	}
	if toggleOffPattern.MatchString(lowered) {
		return ToggleValue(false), nil
	}
	raw := numberPattern.FindString(lowered)
	if raw == "" {
		return Value{}, ErrUnresolvedRole
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return Value{}, ErrUnresolvedRole
	}
	return SetpointValue(parsed), nil
}
