package scoring

import (
	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/errors"
)

// BoxType is the call declared for a box
type BoxType string

const (
	SoloJump  BoxType = "SoloJump"
	ComboJump BoxType = "ComboJump"
	SoloSpin  BoxType = "SoloSpin"
	ComboSpin BoxType = "ComboSpin"
	Step      BoxType = "Step"
	Choreo    BoxType = "Choreo"
)

// BoxTypes lists the calls in the order the operator sees them
var BoxTypes = []BoxType{SoloJump, ComboJump, SoloSpin, ComboSpin, Step, Choreo}

type boxSpec struct {
	kind     catalog.Kind
	required int
	validate func(cat Catalog, in ElementInput) error
}

var boxSpecs = map[BoxType]boxSpec{
	SoloJump:  {kind: catalog.KindJump, required: 1, validate: noBonus},
	ComboJump: {kind: catalog.KindJump, required: 2, validate: noBonus},
	SoloSpin:  {kind: catalog.KindSpin, required: 1, validate: spinBonus(false)},
	ComboSpin: {kind: catalog.KindSpin, required: 2, validate: spinBonus(true)},
	Step:      {kind: catalog.KindStep, required: 1, validate: noBonus},
	Choreo:    {kind: catalog.KindChoreo, required: 1, validate: noBonus},
}

func noBonus(_ Catalog, in ElementInput) error {
	if len(in.Bonus) > 0 {
		return errors.Validationf("element %s does not take bonuses", in.Code)
	}
	return nil
}

func spinBonus(combo bool) func(Catalog, ElementInput) error {
	return func(cat Catalog, in ElementInput) error {
		seen := make(map[string]bool, len(in.Bonus))
		for _, b := range in.Bonus {
			if seen[b] {
				return errors.Validationf("bonus %s recorded twice", b)
			}
			seen[b] = true
			if !cat.BonusAllowed(combo, b) {
				return errors.Validationf("bonus %s is not allowed here", b)
			}
		}
		return nil
	}
}

// ParseBoxType validates a box type name
func ParseBoxType(s string) (BoxType, error) {
	t := BoxType(s)
	if !t.Valid() {
		return "", errors.Validationf("unknown box type %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known call
func (t BoxType) Valid() bool {
	_, ok := boxSpecs[t]
	return ok
}

// Kind is the element family the call accepts
func (t BoxType) Kind() catalog.Kind {
	return boxSpecs[t].kind
}

// Required is the number of elements that completes the box
func (t BoxType) Required() int {
	return boxSpecs[t].required
}

// Validate checks that an element input fits this call
func (t BoxType) Validate(cat Catalog, in ElementInput) error {
	spec, ok := boxSpecs[t]
	if !ok {
		return errors.Validationf("unknown box type %q", t)
	}
	if in.Code == "" {
		return errors.Validation("element code is required")
	}
	if kind := catalog.Classify(in.Code); kind != spec.kind {
		return errors.Validationf("%s is not a %s element", in.Code, spec.kind)
	}
	return spec.validate(cat, in)
}

// Box is one call slot of a program
type Box struct {
	ID       int64      `json:"id"`
	Order    int        `json:"order"`
	Type     BoxType    `json:"type"`
	Elements []*Element `json:"elements"`
}

// Empty reports whether no element has been recorded
func (b *Box) Empty() bool {
	return len(b.Elements) == 0
}

// Complete reports whether the declared call has all its elements
func (b *Box) Complete() bool {
	return b.Type.Valid() && len(b.Elements) == b.Type.Required()
}

// NeedsElement reports whether the box still waits for an element
func (b *Box) NeedsElement() bool {
	return !b.Complete()
}

// declare sets the call; a different call discards recorded elements
func (b *Box) declare(t BoxType) {
	if b.Type != t {
		b.Elements = nil
	}
	b.Type = t
}

// Value is the sum of the credited element values
func (b *Box) Value() float64 {
	var total float64
	for _, e := range b.Elements {
		total += e.StaredValue
	}
	return total
}
