package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a scalar field of a price record. Raw holds the text written to CSV;
// for numbers it is the literal JSON number as received.
type Value struct {
	Kind Kind
	Raw  string
}

var numberRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func String(s string) Value { return Value{Kind: KindString, Raw: s} }

func Number(raw string) Value { return Value{Kind: KindNumber, Raw: raw} }

func Bool(b bool) Value { return Value{Kind: KindBool, Raw: strconv.FormatBool(b)} }

func Null() Value { return Value{Kind: KindNull} }

// InferValue rebuilds a Value from CSV text. Anything that reads as a JSON number is a number.
func InferValue(raw string) Value {
	if numberRe.MatchString(raw) {
		return Number(raw)
	}
	return String(raw)
}

func (v Value) String() string { return v.Raw }

// Float returns the value of a finite number. Strings such as "NaN" or "Inf"
// are not numbers.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber, KindBool:
		return []byte(v.Raw), nil
	default:
		return json.Marshal(v.Raw)
	}
}
