// Package recommend ranks internships against a user's skill list.
package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/garnizeh/internradar/pkg/models"
)

const (
	LabelBest    = "Best Match"
	LabelGood    = "Good Match"
	LabelPartial = "Partial Match"
	LabelNone    = "No Match"
)

// Recommendation is an internship annotated with how well it fits.
type Recommendation struct {
	Internship      models.Internship `json:"internship"`
	MatchScore      int               `json:"matchScore"`
	MatchPercentage int               `json:"matchPercentage"`
	MatchLabel      string            `json:"matchLabel"`
}

// ScoreOne counts how many required skills the user covers, ignoring
// case. A posting with no required skills scores zero.
func ScoreOne(userSkills, required []string) (score, percentage int) {
	if len(required) == 0 {
		return 0, 0
	}

	have := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	for _, req := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(req))]; ok {
			score++
		}
	}

	percentage = int(math.Round(float64(score) / float64(len(required)) * 100))
	return score, percentage
}

// Label maps a score and percentage to the display bucket. An unusually
// broad skill overlap earns the top bucket even when the posting lists
// many requirements, hence the absolute-score alternatives.
func Label(score, percentage int) string {
	switch {
	case percentage >= 80 || score >= 4:
		return LabelBest
	case percentage >= 50 || score >= 2:
		return LabelGood
	case percentage >= 25 || score >= 1:
		return LabelPartial
	default:
		return LabelNone
	}
}

// Score annotates every internship and orders them best first. The sort
// is stable so equally scored postings keep their input order.
func Score(userSkills []string, internships []models.Internship) []Recommendation {
	out := make([]Recommendation, 0, len(internships))
	for _, i := range internships {
		score, pct := ScoreOne(userSkills, i.RequiredSkills)
		out = append(out, Recommendation{
			Internship:      i,
			MatchScore:      score,
			MatchPercentage: pct,
			MatchLabel:      Label(score, pct),
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].MatchScore > out[b].MatchScore
	})
	return out
}
