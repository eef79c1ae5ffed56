package scoring

import (
	"strings"

	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/errors"
)

// Status is the running state of a program
type Status string

const (
	StatusStart Status = "START"
	StatusStop  Status = "STOP"
)

// Segment names a program segment. Category programs use short or long;
// solo programs may carry any name.
type Segment string

const (
	SegmentShort Segment = "short"
	SegmentLong  Segment = "long"
)

// ParseSegment accepts short or long in any case
func ParseSegment(s string) (Segment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SegmentShort):
		return SegmentShort, nil
	case string(SegmentLong):
		return SegmentLong, nil
	}
	return "", errors.Validationf("unknown segment %q", s)
}

// IsShort reports whether the segment is the short program
func (s Segment) IsShort() bool {
	return strings.EqualFold(string(s), string(SegmentShort))
}

// Components holds the four judged component marks, 0 meaning unset
type Components struct {
	SkatingSkills float64 `json:"skating_skills"`
	Transitions   float64 `json:"transitions"`
	Choreography  float64 `json:"choreography"`
	Performance   float64 `json:"performance"`
}

func (c *Components) ref(name string) *float64 {
	switch name {
	case catalog.SkatingSkills:
		return &c.SkatingSkills
	case catalog.Transitions:
		return &c.Transitions
	case catalog.Choreography:
		return &c.Choreography
	case catalog.Performance:
		return &c.Performance
	}
	return nil
}

// Get returns a mark by component name
func (c Components) Get(name string) (float64, bool) {
	p := c.ref(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// AllSet reports whether every mark is above zero
func (c Components) AllSet() bool {
	return c.SkatingSkills > 0 && c.Transitions > 0 && c.Choreography > 0 && c.Performance > 0
}

// MaxComponent is the highest component mark
const MaxComponent = 10.0

// Program is one skater's attempt at one segment
type Program struct {
	ID         int64      `json:"id"`
	CategoryID int64      `json:"category_id,omitempty"`
	SkaterID   int64      `json:"skater_id,omitempty"`
	SkaterName string     `json:"skater_name"`
	Team       string     `json:"team,omitempty"`
	Segment    Segment    `json:"segment"`
	Status     Status     `json:"status"`
	Falls      int        `json:"falls"`
	Boxes      []*Box     `json:"boxes"`
	Components Components `json:"components"`

	Penalization    float64 `json:"penalization"`
	TechnicalScore  float64 `json:"technical_score"`
	ComponentsScore float64 `json:"components_score"`
	Score           float64 `json:"score"`
	TotalScore      float64 `json:"total_score"`

	// PriorScore is the score already recorded for the other segment of a
	// category that runs both. It is zero for single segment categories and
	// solo programs.
	PriorScore float64 `json:"-"`

	// LastElement is the most recently entered element, if any
	LastElement *Element `json:"last_element,omitempty"`
}

// NewProgram returns a stopped program without boxes
func NewProgram(skaterName string, segment Segment) *Program {
	return &Program{SkaterName: skaterName, Segment: segment, Status: StatusStop}
}

// Running reports whether the program is started
func (p *Program) Running() bool {
	return p.Status == StatusStart
}

// Start begins recording and opens the trailing box
func (p *Program) Start() error {
	if p.Running() {
		return errors.State("program is already running")
	}
	p.Status = StatusStart
	p.ensureOpenBox()
	return nil
}

// Stop ends recording and drops an empty trailing box. A partially filled
// combo box keeps its recorded element.
func (p *Program) Stop() error {
	if !p.Running() {
		return errors.State("program is not running")
	}
	if last := p.lastBox(); last != nil && last.Empty() {
		p.Boxes = p.Boxes[:len(p.Boxes)-1]
	}
	p.Status = StatusStop
	return nil
}

func (p *Program) lastBox() *Box {
	if len(p.Boxes) == 0 {
		return nil
	}
	return p.Boxes[len(p.Boxes)-1]
}

// RestoreLastElement points LastElement at the final element of the last
// box holding one
func (p *Program) RestoreLastElement() {
	p.LastElement = nil
	for i := len(p.Boxes) - 1; i >= 0; i-- {
		if els := p.Boxes[i].Elements; len(els) > 0 {
			p.LastElement = els[len(els)-1]
			return
		}
	}
}

// OpenBox returns the trailing box still waiting for elements, or nil
func (p *Program) OpenBox() *Box {
	if last := p.lastBox(); last != nil && last.NeedsElement() {
		return last
	}
	return nil
}

func (p *Program) ensureOpenBox() *Box {
	if b := p.OpenBox(); b != nil {
		return b
	}
	order := 1
	if last := p.lastBox(); last != nil {
		order = last.Order + 1
	}
	b := &Box{Order: order}
	p.Boxes = append(p.Boxes, b)
	return b
}

// Box returns the box with the given order
func (p *Program) Box(order int) (*Box, error) {
	for _, b := range p.Boxes {
		if b.Order == order {
			return b, nil
		}
	}
	return nil, errors.NotFoundf("box %d not found", order)
}

// Element returns an element by box order and 0-based index
func (p *Program) Element(order, index int) (*Element, error) {
	b, err := p.Box(order)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(b.Elements) {
		return nil, errors.NotFoundf("element %d of box %d not found", index, order)
	}
	return b.Elements[index], nil
}

// SetBoxType declares the call of the trailing box
func (p *Program) SetBoxType(t BoxType) (*Box, error) {
	if !p.Running() {
		return nil, errors.State("program is not running")
	}
	if !t.Valid() {
		return nil, errors.Validationf("unknown box type %q", t)
	}
	b := p.ensureOpenBox()
	b.declare(t)
	return b, nil
}

// EnterElement records an element into the trailing box under the given
// call. A box completed by the entry opens the next trailing box.
func (p *Program) EnterElement(cat Catalog, t BoxType, in ElementInput) (*Element, error) {
	if !p.Running() {
		return nil, errors.State("program is not running")
	}
	if err := t.Validate(cat, in); err != nil {
		return nil, err
	}
	el, err := newElement(cat, in)
	if err != nil {
		return nil, err
	}
	b := p.ensureOpenBox()
	b.declare(t)
	b.Elements = append(b.Elements, el)
	p.LastElement = el
	if b.Complete() {
		p.ensureOpenBox()
	}
	p.Calculate(cat)
	return el, nil
}

// EditBox re-declares a box with a complete element list. While running
// only the trailing box may be edited.
func (p *Program) EditBox(cat Catalog, order int, t BoxType, inputs []ElementInput) (*Box, error) {
	b, err := p.Box(order)
	if err != nil {
		return nil, err
	}
	if p.Running() && b != p.lastBox() {
		return nil, errors.Statef("box %d cannot be edited while the program is running", order)
	}
	if !t.Valid() {
		return nil, errors.Validationf("unknown box type %q", t)
	}
	if len(inputs) != t.Required() {
		return nil, errors.Validationf("%s needs %d elements, got %d", t, t.Required(), len(inputs))
	}
	elements := make([]*Element, 0, len(inputs))
	for _, in := range inputs {
		if err := t.Validate(cat, in); err != nil {
			return nil, err
		}
		el, err := newElement(cat, in)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	b.Type = t
	b.Elements = elements
	if p.Running() {
		p.ensureOpenBox()
	}
	p.RestoreLastElement()
	p.Calculate(cat)
	return b, nil
}

// RemoveBox removes the trailing box when it holds no element
func (p *Program) RemoveBox(order int) error {
	b, err := p.Box(order)
	if err != nil {
		return err
	}
	if b != p.lastBox() {
		return errors.Statef("box %d is not the trailing box", order)
	}
	if !b.Empty() {
		return errors.Statef("box %d is not empty", order)
	}
	p.Boxes = p.Boxes[:len(p.Boxes)-1]
	return nil
}

// SetGrade sets the grade of execution of an element
func (p *Program) SetGrade(cat Catalog, order, index, grade int) (*Element, error) {
	if grade < catalog.MinGrade || grade > catalog.MaxGrade {
		return nil, errors.Validationf("grade %d out of range [%d,%d]", grade, catalog.MinGrade, catalog.MaxGrade)
	}
	el, err := p.Element(order, index)
	if err != nil {
		return nil, err
	}
	el.Grade = grade
	el.Calculate(cat)
	p.Calculate(cat)
	return el, nil
}

// SetStar marks an element as not credited
func (p *Program) SetStar(cat Catalog, order, index int, star bool) (*Element, error) {
	el, err := p.Element(order, index)
	if err != nil {
		return nil, err
	}
	el.Star = star
	el.Calculate(cat)
	p.Calculate(cat)
	return el, nil
}

// SetTime flags an element for a timing issue; it does not affect scores
func (p *Program) SetTime(order, index int, time bool) (*Element, error) {
	el, err := p.Element(order, index)
	if err != nil {
		return nil, err
	}
	el.Time = time
	return el, nil
}

// SetComponent sets one component mark in [0,10]
func (p *Program) SetComponent(cat Catalog, name string, value float64) error {
	if value < 0 || value > MaxComponent {
		return errors.Validationf("component %s value %.2f out of range [0,%g]", name, value, MaxComponent)
	}
	ref := p.Components.ref(name)
	if ref == nil {
		return errors.Validationf("unknown component %q", name)
	}
	*ref = value
	p.Calculate(cat)
	return nil
}

// Fall records a fall and its deduction
func (p *Program) Fall(cat Catalog) {
	p.Falls++
	p.Penalization = round2(p.Penalization + cat.FallDeduction())
	p.Calculate(cat)
}

// Deduct adds an extra deduction
func (p *Program) Deduct(cat Catalog, points float64) error {
	if points <= 0 {
		return errors.Validationf("deduction must be positive, got %.2f", points)
	}
	p.Penalization = round2(p.Penalization + points)
	p.Calculate(cat)
	return nil
}

// Calculate recomputes every derived score of the program
func (p *Program) Calculate(cat Catalog) {
	var technical float64
	for _, b := range p.Boxes {
		for _, e := range b.Elements {
			e.Calculate(cat)
			technical += e.StaredValue
		}
	}
	p.TechnicalScore = round2(technical)

	var components float64
	for _, name := range catalog.ComponentNames {
		v, _ := p.Components.Get(name)
		components += v * cat.ComponentWeight(name)
	}
	p.ComponentsScore = round2(components)

	p.Score = round2(p.TechnicalScore + p.ComponentsScore - p.Penalization)
	p.TotalScore = round2(p.Score + p.PriorScore)
}

// CanConfirm reports whether the program may be confirmed
func (p *Program) CanConfirm() error {
	if p.Running() {
		return errors.Validation("stop the program before confirming")
	}
	if !p.Components.AllSet() {
		return errors.Validation("assign all component values before confirming")
	}
	return nil
}

// CanSkip reports whether the program may be skipped
func (p *Program) CanSkip() error {
	if p.Running() {
		return errors.Validation("stop the program before skipping")
	}
	return nil
}

// Elements returns every recorded element in box order
func (p *Program) Elements() []*Element {
	var out []*Element
	for _, b := range p.Boxes {
		out = append(out, b.Elements...)
	}
	return out
}
