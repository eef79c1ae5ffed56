// Package catalog provides the read-only element catalog: base values,
// grade-of-execution tables, bonus codes and component weighting.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MinGrade and MaxGrade bound the grade of execution
const (
	MinGrade = -3
	MaxGrade = 3
)

// Component names, in display order
const (
	SkatingSkills = "skating_skills"
	Transitions   = "transitions"
	Choreography  = "choreography"
	Performance   = "performance"
)

// ComponentNames lists the four judged components
var ComponentNames = []string{SkatingSkills, Transitions, Choreography, Performance}

//go:embed default.yaml
var defaultYAML []byte

// ElementType is one catalog entry, keyed by code and value label
type ElementType struct {
	Code       string    `json:"code" yaml:"code"`
	ValueLabel string    `json:"value_label" yaml:"value_label"`
	Label      string    `json:"label" yaml:"label"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	BaseValue  float64   `json:"base_value" yaml:"base_value"`
	GOE        []float64 `json:"goe,omitempty" yaml:"goe,omitempty"`
}

// File is the YAML layout of a catalog
type File struct {
	Name          string               `yaml:"name"`
	GOE           map[string][]float64 `yaml:"goe"`
	ValueLabels   map[string]float64   `yaml:"value_labels"`
	Bonuses       BonusFile            `yaml:"bonuses"`
	Components    map[string]float64   `yaml:"components"`
	FallDeduction *float64             `yaml:"fall_deduction"`
	Elements      []EntryFile          `yaml:"elements"`
}

// BonusFile lists spin bonus codes; combo spins accept both lists
type BonusFile struct {
	Spin      []string `yaml:"spin"`
	ComboSpin []string `yaml:"combo_spin"`
}

// EntryFile is one element line. Jumps without explicit Values get one
// entry per value label, priced with the ValueLabels factors.
type EntryFile struct {
	Code      string             `yaml:"code"`
	Label     string             `yaml:"label"`
	BaseValue float64            `yaml:"base_value"`
	Values    map[string]float64 `yaml:"values,omitempty"`
	GOE       []float64          `yaml:"goe,omitempty"`
}

type key struct {
	code  string
	label string
}

// Catalog is an immutable element lookup
type Catalog struct {
	name          string
	entries       map[key]ElementType
	order         []key
	goe           map[Kind][]float64
	weights       map[string]float64
	fallDeduction float64
	spinBonus     map[string]bool
	comboBonus    map[string]bool
	file          File
}

// Default returns the catalog embedded in the binary
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return build(file)
}

func build(file File) (*Catalog, error) {
	c := &Catalog{
		name:          file.Name,
		entries:       make(map[key]ElementType),
		goe:           make(map[Kind][]float64),
		weights:       make(map[string]float64),
		fallDeduction: 1,
		spinBonus:     make(map[string]bool),
		comboBonus:    make(map[string]bool),
		file:          file,
	}

	for name, table := range file.GOE {
		kind := ParseKind(name)
		if kind == KindUnknown {
			return nil, fmt.Errorf("goe table %q: unknown element kind", name)
		}
		if err := checkGOE(table); err != nil {
			return nil, fmt.Errorf("goe table %q: %w", name, err)
		}
		c.goe[kind] = table
	}
	for _, kind := range []Kind{KindJump, KindSpin, KindStep, KindChoreo} {
		if _, ok := c.goe[kind]; !ok {
			return nil, fmt.Errorf("goe table for %s is missing", kind)
		}
	}

	for _, name := range ComponentNames {
		c.weights[name] = 1
	}
	for name, w := range file.Components {
		if _, ok := c.weights[name]; !ok {
			return nil, fmt.Errorf("unknown component %q", name)
		}
		if w <= 0 {
			return nil, fmt.Errorf("component %q weight must be positive", name)
		}
		c.weights[name] = w
	}

	if file.FallDeduction != nil {
		if *file.FallDeduction < 0 {
			return nil, fmt.Errorf("fall deduction must not be negative")
		}
		c.fallDeduction = *file.FallDeduction
	}

	for _, b := range file.Bonuses.Spin {
		c.spinBonus[b] = true
		c.comboBonus[b] = true
	}
	for _, b := range file.Bonuses.ComboSpin {
		c.comboBonus[b] = true
	}

	for _, e := range file.Elements {
		if err := c.addEntry(e, file.ValueLabels); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) addEntry(e EntryFile, factors map[string]float64) error {
	kind := Classify(e.Code)
	if kind == KindUnknown {
		return fmt.Errorf("element %q: unrecognised code", e.Code)
	}
	if e.BaseValue < 0 {
		return fmt.Errorf("element %q: base value must not be negative", e.Code)
	}
	if IsNull(e.Code) && e.BaseValue != 0 {
		return fmt.Errorf("element %q: null element must have base value 0", e.Code)
	}
	if len(e.GOE) > 0 {
		if err := checkGOE(e.GOE); err != nil {
			return fmt.Errorf("element %q: %w", e.Code, err)
		}
	}

	values := map[string]float64{BaseLabel: e.BaseValue}
	if kind == KindJump && !IsNull(e.Code) {
		for label, factor := range factors {
			values[label] = round2(e.BaseValue * factor)
		}
		for label, v := range e.Values {
			values[NormalizeLabel(label)] = v
		}
	} else if len(e.Values) > 0 {
		return fmt.Errorf("element %q: only jumps take value labels", e.Code)
	}

	labels := make([]string, 0, len(values))
	for label := range values {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		k := key{code: e.Code, label: label}
		if _, dup := c.entries[k]; dup {
			return fmt.Errorf("element %q (%s): duplicate entry", e.Code, label)
		}
		c.entries[k] = ElementType{
			Code:       e.Code,
			ValueLabel: label,
			Label:      e.Label,
			Kind:       kind,
			BaseValue:  values[label],
			GOE:        e.GOE,
		}
		c.order = append(c.order, k)
	}
	return nil
}

// checkGOE enforces seven strictly increasing steps with zero in the middle
func checkGOE(table []float64) error {
	if len(table) != MaxGrade-MinGrade+1 {
		return fmt.Errorf("expected %d grades, got %d", MaxGrade-MinGrade+1, len(table))
	}
	if table[-MinGrade] != 0 {
		return fmt.Errorf("grade 0 must have delta 0")
	}
	for i := 1; i < len(table); i++ {
		if table[i] <= table[i-1] {
			return fmt.Errorf("deltas must be strictly increasing")
		}
	}
	return nil
}

// ParseKind maps a kind name back to its Kind
func ParseKind(name string) Kind {
	for _, k := range []Kind{KindJump, KindSpin, KindStep, KindChoreo} {
		if k.String() == name {
			return k
		}
	}
	return KindUnknown
}

// Name returns the catalog's display name
func (c *Catalog) Name() string {
	return c.name
}

// Lookup finds an element by code and value label. An empty label means Base.
func (c *Catalog) Lookup(code, valueLabel string) (ElementType, bool) {
	et, ok := c.entries[key{code: code, label: NormalizeLabel(valueLabel)}]
	return et, ok
}

// Delta returns the grade-of-execution adjustment for an element
func (c *Catalog) Delta(et ElementType, grade int) float64 {
	if grade < MinGrade || grade > MaxGrade {
		return 0
	}
	table := et.GOE
	if len(table) == 0 {
		table = c.goe[et.Kind]
	}
	if len(table) == 0 {
		return 0
	}
	return table[grade-MinGrade]
}

// ComponentWeight returns the multiplier applied to a component mark
func (c *Catalog) ComponentWeight(name string) float64 {
	return c.weights[name]
}

// FallDeduction is the penalty added per recorded fall
func (c *Catalog) FallDeduction() float64 {
	return c.fallDeduction
}

// BonusAllowed reports whether a spin bonus code may be recorded
func (c *Catalog) BonusAllowed(combo bool, bonus string) bool {
	if combo {
		return c.comboBonus[bonus]
	}
	return c.spinBonus[bonus]
}

// Elements returns every entry in catalog order
func (c *Catalog) Elements() []ElementType {
	out := make([]ElementType, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}

// ElementsOfKind returns the entries of one kind in catalog order
func (c *Catalog) ElementsOfKind(kind Kind) []ElementType {
	var out []ElementType
	for _, k := range c.order {
		if et := c.entries[k]; et.Kind == kind {
			out = append(out, et)
		}
	}
	return out
}

// Encode writes the expanded catalog (one line per code and value label) as YAML
func (c *Catalog) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Name     string        `yaml:"name"`
		Elements []ElementType `yaml:"elements"`
	}{Name: c.name, Elements: c.Elements()}
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
