package scoring

import "strings"

// SkaterStatus records which segments a skater has finished
type SkaterStatus string

const (
	SkaterNone     SkaterStatus = ""
	SkaterShortEnd SkaterStatus = "shortend"
	SkaterLongEnd  SkaterStatus = "longend"
)

func (s SkaterStatus) rank() int {
	switch s {
	case SkaterShortEnd:
		return 1
	case SkaterLongEnd:
		return 2
	}
	return 0
}

// Skater is a competitor within a category
type Skater struct {
	ID         int64        `json:"id"`
	CategoryID int64        `json:"category_id"`
	Name       string       `json:"name"`
	Team       string       `json:"team,omitempty"`
	Order      int          `json:"order"`
	Status     SkaterStatus `json:"status"`
	ShortScore float64      `json:"short_score"`
	LongScore  float64      `json:"long_score"`
	TotalScore float64      `json:"total_score"`
}

// TeamName returns the trimmed team, empty for skaters without one
func (s *Skater) TeamName() string {
	return strings.TrimSpace(s.Team)
}

// Ended reports whether the skater finished the segment
func (s *Skater) Ended(seg Segment) bool {
	if seg.IsShort() {
		return s.Status.rank() >= SkaterShortEnd.rank()
	}
	return s.Status == SkaterLongEnd
}

// ScoreFor returns the recorded score of a segment
func (s *Skater) ScoreFor(seg Segment) float64 {
	if seg.IsShort() {
		return s.ShortScore
	}
	return s.LongScore
}

// PriorScore is the recorded score of the other segment when the category
// runs both segments, zero otherwise.
func (s *Skater) PriorScore(c *Category, seg Segment) float64 {
	if !c.Short || !c.Long {
		return 0
	}
	if seg.IsShort() {
		return s.LongScore
	}
	return s.ShortScore
}

// Record stores a segment score and moves the status forward
func (s *Skater) Record(seg Segment, score float64) {
	next := SkaterLongEnd
	if seg.IsShort() {
		s.ShortScore = score
		next = SkaterShortEnd
	} else {
		s.LongScore = score
	}
	if next.rank() > s.Status.rank() {
		s.Status = next
	}
	s.Calculate()
}

// Calculate recomputes the total over both segments
func (s *Skater) Calculate() {
	s.TotalScore = round2(s.ShortScore + s.LongScore)
}
