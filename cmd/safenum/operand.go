package main

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// parseType reads "kind" or "kind@lo..hi".
func parseType(s string) (checked.Type, error) {
	name, rng, hasRange := strings.Cut(strings.TrimSpace(s), "@")
	k, err := storage.Parse(name)
	if err != nil {
		return checked.Type{}, err
	}
	t := checked.TypeOf(k)
	if hasRange {
		r, err := parseRange(rng)
		if err != nil {
			return checked.Type{}, fmt.Errorf("%s: %w", s, err)
		}
		t.Range = r
	}
	if !t.Valid() {
		return checked.Type{}, fmt.Errorf("%s: range %s does not lie within %s", s, t.Range, k)
	}
	return t, nil
}

// parseRange reads "lo..hi".
func parseRange(s string) (interval.Interval, error) {
	los, his, ok := strings.Cut(s, "..")
	if !ok {
		return interval.Interval{}, fmt.Errorf("range %q is not lo..hi", s)
	}
	lo, err := parseInt(los)
	if err != nil {
		return interval.Interval{}, err
	}
	hi, err := parseInt(his)
	if err != nil {
		return interval.Interval{}, err
	}
	if lo.GT(hi) {
		return interval.Interval{}, fmt.Errorf("range %q is empty", s)
	}
	return interval.New(lo, hi), nil
}

func parseInt(s string) (sdkmath.Int, error) {
	v, ok := sdkmath.NewIntFromString(strings.TrimSpace(s))
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}

// parseOperand reads "kind:value" or "kind:value@lo..hi". Without a range
// the operand has its kind's full range.
func parseOperand(s string) (checked.Operand, error) {
	typ, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return checked.Operand{}, fmt.Errorf("operand %q is not kind:value", s)
	}
	value, rng, hasRange := strings.Cut(value, "@")
	if hasRange {
		typ += "@" + rng
	}
	t, err := parseType(typ)
	if err != nil {
		return checked.Operand{}, err
	}
	v, err := parseInt(value)
	if err != nil {
		return checked.Operand{}, err
	}
	w, ok := storage.FromInt(t.Kind, v)
	if !ok {
		return checked.Operand{}, fmt.Errorf("operand %q: %s does not fit %s", s, v, t.Kind)
	}
	return checked.RangedOperand(w, t.Range)
}
