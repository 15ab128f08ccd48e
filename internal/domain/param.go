package domain

import (
	"errors"
	"strings"
)

// ErrLastParam is returned when removing the only remaining entry of a list.
var ErrLastParam = errors.New("cannot remove the last parameter")

// Param is a single enable-able key/value entry used for both query
// parameters and headers.
type Param struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Key     string `json:"key" yaml:"key"`
	Value   string `json:"value" yaml:"value"`
}

// NewParam returns an enabled parameter.
func NewParam(key, value string) Param {
	return Param{Enabled: true, Key: key, Value: value}
}

// effective reports whether the entry takes part in request assembly.
func (p Param) effective() bool {
	return p.Enabled && p.Key != "" && p.Value != ""
}

// Pair is an assembled key/value pair.
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered, user-editable parameter list. Order is significant.
type Params []Param

// FilterEffective returns the enabled entries with a non-empty key and value,
// preserving their relative order. It never returns nil.
func FilterEffective(params []Param) []Pair {
	out := make([]Pair, 0, len(params))
	for _, p := range params {
		if p.effective() {
			out = append(out, Pair{Key: p.Key, Value: p.Value})
		}
	}
	return out
}

// Effective is FilterEffective applied to the receiver.
func (ps Params) Effective() []Pair {
	return FilterEffective(ps)
}

// Clone returns a copy that shares no backing array with ps.
func (ps Params) Clone() Params {
	if ps == nil {
		return nil
	}
	dup := make(Params, len(ps))
	copy(dup, ps)
	return dup
}

// Add appends an empty enabled entry and returns the new list.
func (ps Params) Add() Params {
	return append(ps, NewParam("", ""))
}

// Remove deletes the entry at i. The last remaining entry is never removed.
func (ps Params) Remove(i int) (Params, error) {
	if i < 0 || i >= len(ps) {
		return ps, errors.New("parameter index out of range")
	}
	if len(ps) == 1 {
		return ps, ErrLastParam
	}
	return append(ps[:i:i], ps[i+1:]...), nil
}

// Move relocates the entry at from so that it ends up at index to.
func (ps Params) Move(from, to int) Params {
	if from < 0 || from >= len(ps) || to < 0 || to >= len(ps) || from == to {
		return ps
	}
	p := ps[from]
	out := append(ps[:from:from], ps[from+1:]...)
	out = append(out[:to], append(Params{p}, out[to:]...)...)
	return out
}

// Bulk renders the list as one "key:value" line per entry.
func (ps Params) Bulk() string {
	var b strings.Builder
	for _, p := range ps {
		b.WriteString(p.Key)
		b.WriteByte(':')
		b.WriteString(p.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseBulk rebuilds an enabled parameter list from "key:value" lines. A line
// without a colon becomes a key with an empty value.
func ParseBulk(text string) Params {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return Params{NewParam("", "")}
	}
	lines := strings.Split(text, "\n")
	out := make(Params, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		key, value, _ := strings.Cut(line, ":")
		out = append(out, NewParam(key, value))
	}
	return out
}
