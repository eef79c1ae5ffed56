// Package scoring is the scoring and progression engine: element values,
// program boxes, program scores, skater totals, category progression and
// rankings. It is a pure model; persistence and publishing live in services.
package scoring

import (
	"math"
	"strings"

	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/errors"
)

// Catalog is the element lookup the engine reads from
type Catalog interface {
	Lookup(code, valueLabel string) (catalog.ElementType, bool)
	Delta(et catalog.ElementType, grade int) float64
	ComponentWeight(name string) float64
	FallDeduction() float64
	BonusAllowed(combo bool, bonus string) bool
}

// ElementInput is an element as called by the technical panel
type ElementInput struct {
	Code       string   `json:"code"`
	ValueLabel string   `json:"value_label,omitempty"`
	Bonus      []string `json:"bonus,omitempty"`
}

// Element is one recorded element inside a box
type Element struct {
	ID          int64        `json:"id"`
	Code        string       `json:"code"`
	ValueLabel  string       `json:"value_label"`
	Label       string       `json:"label"`
	Kind        catalog.Kind `json:"kind"`
	Bonus       []string     `json:"bonus,omitempty"`
	Star        bool         `json:"star"`
	Time        bool         `json:"time"`
	Grade       int          `json:"grade"`
	BaseValue   float64      `json:"base_value"`
	StaredValue float64      `json:"stared_value"`
}

// StaredValue credits an element: zero when starred, otherwise base plus the
// grade delta, never below zero.
func StaredValue(base, delta float64, star bool) float64 {
	if star {
		return 0
	}
	v := base + delta
	if v < 0 {
		return 0
	}
	return round2(v)
}

// Calculate refreshes StaredValue from the catalog
func (e *Element) Calculate(cat Catalog) {
	et, ok := cat.Lookup(e.Code, e.ValueLabel)
	if !ok {
		et = catalog.ElementType{Code: e.Code, ValueLabel: e.ValueLabel, Kind: e.Kind, BaseValue: e.BaseValue}
	}
	var delta float64
	if !e.Star {
		delta = cat.Delta(et, e.Grade)
	}
	e.StaredValue = StaredValue(e.BaseValue, delta, e.Star)
}

// DisplayCode returns the code shown on scoreboards: code plus a non-base value label
func (e *Element) DisplayCode() string {
	if e.ValueLabel == "" || strings.EqualFold(e.ValueLabel, catalog.BaseLabel) {
		return e.Code
	}
	return e.Code + e.ValueLabel
}

func newElement(cat Catalog, in ElementInput) (*Element, error) {
	label := catalog.NormalizeLabel(in.ValueLabel)
	if catalog.IsNull(in.Code) {
		label = catalog.BaseLabel
	}
	et, ok := cat.Lookup(in.Code, label)
	if !ok {
		return nil, errors.Validationf("unknown element %s (%s)", in.Code, label)
	}
	e := &Element{
		Code:       et.Code,
		ValueLabel: et.ValueLabel,
		Label:      et.Label,
		Kind:       et.Kind,
		Bonus:      append([]string(nil), in.Bonus...),
		BaseValue:  et.BaseValue,
	}
	e.Calculate(cat)
	return e, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
