package scoring

import "sort"

// Standing is one line of a segment result view
type Standing struct {
	Rank       int     `json:"rank"`
	SkaterID   int64   `json:"skater_id"`
	Name       string  `json:"name"`
	Team       string  `json:"team,omitempty"`
	Technical  float64 `json:"technical_score"`
	Components float64 `json:"components_score"`
	Deductions float64 `json:"deductions"`
	Score      float64 `json:"score"`
	// Total is set when the view carries a total column
	Total float64 `json:"total_score,omitempty"`
	// Displayed is the value the view ranks by
	Displayed float64 `json:"displayed"`
}

// DisplaysTotal reports whether a segment view ranks by total score, which
// is the case for the long segment of a long-only category.
func DisplaysTotal(c *Category, seg Segment) bool {
	return !seg.IsShort() && !c.Short
}

// ShowsTotalColumn reports whether a segment view adds a total column
func ShowsTotalColumn(c *Category, seg Segment) bool {
	return !seg.IsShort() && c.Short && c.Long
}

// DisplayedScore is the score a program is ranked by
func DisplayedScore(c *Category, seg Segment, p *Program) float64 {
	if DisplaysTotal(c, seg) {
		return p.TotalScore
	}
	return p.Score
}

// Rank orders the programs of a segment by displayed score, descending.
// Programs keep their given order on equal scores and share the rank.
func Rank(c *Category, seg Segment, programs []*Program) []Standing {
	out := make([]Standing, 0, len(programs))
	for _, p := range programs {
		st := Standing{
			SkaterID:   p.SkaterID,
			Name:       p.SkaterName,
			Team:       p.Team,
			Technical:  p.TechnicalScore,
			Components: p.ComponentsScore,
			Deductions: p.Penalization,
			Score:      p.Score,
			Displayed:  DisplayedScore(c, seg, p),
		}
		if ShowsTotalColumn(c, seg) || DisplaysTotal(c, seg) {
			st.Total = p.TotalScore
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Displayed > out[j].Displayed
	})
	for i := range out {
		if i > 0 && out[i].Displayed == out[i-1].Displayed {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// RankOf returns the rank of a displayed score among the given programs,
// counting the programs that score strictly higher.
func RankOf(c *Category, seg Segment, programs []*Program, displayed float64) int {
	rank := 1
	for _, p := range programs {
		if DisplayedScore(c, seg, p) > displayed {
			rank++
		}
	}
	return rank
}

// TeamScore is the cumulative total of a team
type TeamScore struct {
	Team    string  `json:"team"`
	Score   float64 `json:"score"`
	Skaters int     `json:"skaters"`
}

// TeamStandings sums skater totals per team, highest first. Skaters without
// a team are left out; teams with equal scores keep first-seen order.
func TeamStandings(skaters []*Skater) []TeamScore {
	index := make(map[string]int)
	var out []TeamScore
	for _, s := range skaters {
		team := s.TeamName()
		if team == "" {
			continue
		}
		i, ok := index[team]
		if !ok {
			i = len(out)
			index[team] = i
			out = append(out, TeamScore{Team: team})
		}
		out[i].Score = round2(out[i].Score + s.TotalScore)
		out[i].Skaters++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// TeamTotal returns the cumulative total of one team
func TeamTotal(skaters []*Skater, team string) float64 {
	var total float64
	for _, s := range skaters {
		if team != "" && s.TeamName() == team {
			total += s.TotalScore
		}
	}
	return round2(total)
}
