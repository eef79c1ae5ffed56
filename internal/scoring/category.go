package scoring

import (
	"strings"

	"github.com/abrezinsky/rollart/internal/errors"
)

// CategoryStatus is the progression state of a category
type CategoryStatus string

const (
	CategoryUnstarted CategoryStatus = "UNSTARTED"
	CategoryShort     CategoryStatus = "SHORT"
	CategoryLong      CategoryStatus = "LONG"
	CategoryEnd       CategoryStatus = "END"
)

// ParseCategoryStatus accepts any case; empty means unstarted
func ParseCategoryStatus(s string) (CategoryStatus, error) {
	switch st := CategoryStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case "":
		return CategoryUnstarted, nil
	case CategoryUnstarted, CategoryShort, CategoryLong, CategoryEnd:
		return st, nil
	}
	return "", errors.Validationf("unknown category status %q", s)
}

func (s CategoryStatus) rank() int {
	switch s {
	case CategoryShort:
		return 1
	case CategoryLong:
		return 2
	case CategoryEnd:
		return 3
	}
	return 0
}

// Category groups skaters that compete in the same segments
type Category struct {
	ID        int64          `json:"id"`
	SessionID int64          `json:"session_id"`
	Name      string         `json:"name"`
	Short     bool           `json:"short"`
	Long      bool           `json:"long"`
	Status    CategoryStatus `json:"status"`
	Order     int            `json:"order"`
}

// Actions is what the operator may do with a category right now
type Actions struct {
	CanStartShort       bool `json:"can_start_short"`
	CanShowShortResults bool `json:"can_show_short_results"`
	CanStartLong        bool `json:"can_start_long"`
	CanShowLongResults  bool `json:"can_show_long_results"`
	MustWaitLong        bool `json:"must_wait_long"`
}

func (c *Category) status() CategoryStatus {
	if c.Status == "" {
		return CategoryUnstarted
	}
	return c.Status
}

// ShortConcluded reports whether the short segment is over
func (c *Category) ShortConcluded() bool {
	return c.Short && c.status().rank() > CategoryShort.rank()
}

// Actions derives the available operator actions
func (c *Category) Actions() Actions {
	st := c.status()
	a := Actions{
		CanStartShort:      c.Short && (st == CategoryUnstarted || st == CategoryShort),
		CanStartLong:       c.Long && (st == CategoryLong || (!c.Short && st != CategoryEnd)),
		CanShowLongResults: c.Long && st == CategoryEnd,
	}
	a.CanShowShortResults = c.ShortConcluded()
	a.MustWaitLong = c.Long && c.Short && !c.ShortConcluded()
	return a
}

// ActiveSegment is the segment being skated, false when none is
func (c *Category) ActiveSegment() (Segment, bool) {
	switch c.status() {
	case CategoryShort:
		return SegmentShort, true
	case CategoryLong:
		return SegmentLong, true
	}
	return "", false
}

func (c *Category) first() CategoryStatus {
	switch {
	case c.Short:
		return CategoryShort
	case c.Long:
		return CategoryLong
	}
	return CategoryEnd
}

func (c *Category) next() CategoryStatus {
	switch c.status() {
	case CategoryUnstarted:
		return c.first()
	case CategoryShort:
		if c.Long {
			return CategoryLong
		}
	}
	return CategoryEnd
}

// advanceTo moves the status forward only
func (c *Category) advanceTo(s CategoryStatus) {
	if s.rank() > c.status().rank() {
		c.Status = s
	}
}

// CurrentSkater is the first skater in order that has not ended the active
// segment, nil when there is none.
func (c *Category) CurrentSkater(skaters []*Skater) *Skater {
	seg, ok := c.ActiveSegment()
	if !ok {
		return nil
	}
	for _, s := range skaters {
		if !s.Ended(seg) {
			return s
		}
	}
	return nil
}

// Resume advances the category to the point where a skater still has to
// skate and returns that skater, or nil once the category has ended.
func (c *Category) Resume(skaters []*Skater) *Skater {
	c.advanceTo(c.first())
	for c.status() != CategoryEnd {
		if s := c.CurrentSkater(skaters); s != nil {
			return s
		}
		c.advanceTo(c.next())
	}
	return nil
}

// StartSegment checks that the requested segment can be skated and moves
// the category into it.
func (c *Category) StartSegment(seg Segment) error {
	a := c.Actions()
	if seg.IsShort() {
		if !a.CanStartShort {
			return errors.Validationf("category %s cannot start the short program", c.Name)
		}
		c.advanceTo(CategoryShort)
		return nil
	}
	if a.MustWaitLong {
		return errors.Validation("finish the short program before starting the long program")
	}
	if !a.CanStartLong {
		return errors.Validationf("category %s cannot start the long program", c.Name)
	}
	c.advanceTo(CategoryLong)
	return nil
}

// Settle applies a confirmed or skipped program to its skater and returns
// the next current skater.
func (c *Category) Settle(skaters []*Skater, skater *Skater, p *Program) *Skater {
	skater.Record(p.Segment, p.Score)
	return c.Resume(skaters)
}
