package rules

import (
	"errors"
	"testing"
)

func TestParseCondition(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Condition
	}{
		{
			name: "basic greater",
			text: "VPD > 1.6",
			want: Condition{Metric: "vpd", Operator: OperatorGreater, Threshold: 1.6},
		},
		{
			name: "comma decimal separator",
			text: "temp >= 23,5",
			want: Condition{Metric: "temperature", Operator: OperatorGreaterOrEqual, Threshold: 23.5},
		},
		{
			name: "surrounding prose tolerated",
			text: "Alarm wenn RH < 52 im Zelt",
			want: Condition{Metric: "humidity", Operator: OperatorLess, Threshold: 52},
		},
		{
			name: "hum alias",
			text: "hum <= 60",
			want: Condition{Metric: "humidity", Operator: OperatorLessOrEqual, Threshold: 60},
		},
		{
			name: "equality",
			text: "ec = 2.0",
			want: Condition{Metric: "ec", Operator: OperatorEqual, Threshold: 2},
		},
		{
			name: "negative threshold",
			text: "temp < -2",
			want: Condition{Metric: "temperature", Operator: OperatorLess, Threshold: -2},
		},
		{
			name: "longer operator wins over prefix",
			text: "vwc >= 40",
			want: Condition{Metric: "vwc", Operator: OperatorGreaterOrEqual, Threshold: 40},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCondition(tc.text)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.text, err)
			}
			if got != tc.want {
				t.Fatalf("parse %q: got %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestParseConditionFailures(t *testing.T) {
	cases := []string{
		"",
		"Erhöhe Bewässerung",
		"vpd >",
		"> 1.6",
		"42",
	}
	for _, text := range cases {
		if _, err := ParseCondition(text); !errors.Is(err, ErrUnparseableCondition) {
			t.Fatalf("parse %q: expected ErrUnparseableCondition, got %v", text, err)
		}
	}
}

func TestConditionHolds(t *testing.T) {
	cases := []struct {
		op    Operator
		value float64
		want  bool
	}{
		{OperatorGreater, 1.7, true},
		{OperatorGreater, 1.6, false},
		{OperatorGreaterOrEqual, 1.6, true},
		{OperatorGreaterOrEqual, 1.5, false},
		{OperatorLess, 1.5, true},
		{OperatorLess, 1.6, false},
		{OperatorLessOrEqual, 1.6, true},
		{OperatorLessOrEqual, 1.7, false},
		{OperatorEqual, 1.6, true},
		{OperatorEqual, 1.60005, true},
		{OperatorEqual, 1.61, false},
	}
	for _, tc := range cases {
		condition := Condition{Metric: "vpd", Operator: tc.op, Threshold: 1.6}
		if got := condition.Holds(tc.value); got != tc.want {
			t.Fatalf("%v holds for %v: got %v, want %v", tc.op, tc.value, got, tc.want)
		}
	}
}

func TestConditionEqualityTolerance(t *testing.T) {
	condition := Condition{Metric: "ec", Operator: OperatorEqual, Threshold: 2}
	if !condition.Holds(2 + EqualityTolerance/2) {
		t.Fatal("value within tolerance should match")
	}
	if condition.Holds(2 + 10*EqualityTolerance) {
		t.Fatal("value beyond tolerance should not match")
	}
}
