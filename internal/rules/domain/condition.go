package rules

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Operator compares a resolved metric value against a threshold.
type Operator string

const (
	OperatorGreater        Operator = ">"
	OperatorGreaterOrEqual Operator = ">="
	OperatorLess           Operator = "<"
	OperatorLessOrEqual    Operator = "<="
	OperatorEqual          Operator = "="
)

// EqualityTolerance is the absolute tolerance applied to the = operator.
// Decimal/comma normalization introduces representation noise, so exact
// floating equality is never used.
const EqualityTolerance = 1e-4

// Valid returns true when the operator is supported.
func (o Operator) Valid() bool {
	switch o {
	case OperatorGreater, OperatorGreaterOrEqual, OperatorLess, OperatorLessOrEqual, OperatorEqual:
		return true
	default:
		return false
	}
}

// ErrUnparseableCondition is returned when a when-text contains no
// recognizable metric/operator/number pattern.
var ErrUnparseableCondition = errors.New("rules: unparseable condition")

// Condition is the structured form of a rule's when-text.
type Condition struct {
	Metric    string   `json:"metric"`
	Operator  Operator `json:"operator"`
	Threshold float64  `json:"threshold"`
}

// Operators must be listed longest-first so >= is tried before >.
var conditionPattern = regexp.MustCompile(`([A-Za-z_]+)\s*(>=|<=|>|<|=)\s*(-?\d+(?:[.,]\d+)?)`)

var metricAliases = map[string]string{
	"rh":   "humidity",
	"hum":  "humidity",
	"temp": "temperature",
}

// ParseCondition extracts the first metric/operator/number triple from
// free text. Surrounding prose is tolerated; the match is not anchored.
// The decimal separator may be "." or ",".
func ParseCondition(text string) (Condition, error) {
	m := conditionPattern.FindStringSubmatch(text)
	if m == nil {
		return Condition{}, ErrUnparseableCondition
	}
	number := strings.ReplaceAll(m[3], ",", ".")
	threshold, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return Condition{}, ErrUnparseableCondition
	}
	metric := strings.ToLower(m[1])
	if canonical, ok := metricAliases[metric]; ok {
		metric = canonical
	}
	return Condition{
		Metric:    metric,
		Operator:  Operator(m[2]),
		Threshold: threshold,
	}, nil
}

// Holds reports whether the condition is satisfied by the given value.
func (c Condition) Holds(value float64) bool {
	switch c.Operator {
	case OperatorGreater:
		return value > c.Threshold
	case OperatorGreaterOrEqual:
		return value >= c.Threshold
	case OperatorLess:
		return value < c.Threshold
	case OperatorLessOrEqual:
		return value <= c.Threshold
	case OperatorEqual:
		return math.Abs(value-c.Threshold) <= EqualityTolerance
	default:
		return false
	}
}
