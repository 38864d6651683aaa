package recommend_test

import (
	"reflect"
	"testing"

	"github.com/garnizeh/internradar/internal/recommend"
	"github.com/garnizeh/internradar/pkg/models"
)

func TestScoreOne(t *testing.T) {
	tests := []struct {
		name      string
		user      []string
		required  []string
		wantScore int
		wantPct   int
	}{
		{
			name:      "no required skills",
			user:      []string{"Go"},
			required:  nil,
			wantScore: 0,
			wantPct:   0,
		},
		{
			name:      "no user skills",
			user:      nil,
			required:  []string{"Go", "SQL"},
			wantScore: 0,
			wantPct:   0,
		},
		{
			name:      "partial overlap rounds percentage",
			user:      []string{"JavaScript", "React"},
			required:  []string{"JavaScript", "React", "CSS"},
			wantScore: 2,
			wantPct:   67,
		},
		{
			name:      "case insensitive",
			user:      []string{"javascript", "REACT"},
			required:  []string{"JavaScript", "React"},
			wantScore: 2,
			wantPct:   100,
		},
		{
			name:      "whitespace tolerated",
			user:      []string{" Go "},
			required:  []string{"Go"},
			wantScore: 1,
			wantPct:   100,
		},
		{
			name:      "full match",
			user:      []string{"Go", "SQL", "Docker"},
			required:  []string{"Go", "SQL"},
			wantScore: 2,
			wantPct:   100,
		},
		{
			name:      "duplicate requirements each count",
			user:      []string{"Go"},
			required:  []string{"Go", "go", "Go"},
			wantScore: 3,
			wantPct:   100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, pct := recommend.ScoreOne(tc.user, tc.required)
			if score != tc.wantScore || pct != tc.wantPct {
				t.Fatalf("got score=%d pct=%d, want score=%d pct=%d", score, pct, tc.wantScore, tc.wantPct)
			}
			if score > len(tc.required) {
				t.Fatalf("score %d exceeds required count %d", score, len(tc.required))
			}
		})
	}
}

func TestLabelBuckets(t *testing.T) {
	tests := []struct {
		score int
		pct   int
		want  string
	}{
		{0, 0, recommend.LabelNone},
		{1, 10, recommend.LabelPartial},
		{0, 25, recommend.LabelPartial},
		{2, 30, recommend.LabelGood},
		{0, 50, recommend.LabelGood},
		{0, 80, recommend.LabelBest},
		{4, 40, recommend.LabelBest}, // 4 of 10 skills still tops out on absolute score
		{5, 100, recommend.LabelBest},
	}

	for _, tc := range tests {
		if got := recommend.Label(tc.score, tc.pct); got != tc.want {
			t.Errorf("Label(%d, %d) = %q, want %q", tc.score, tc.pct, got, tc.want)
		}
	}
}

func TestScoreOrdersAndAnnotates(t *testing.T) {
	internships := []models.Internship{
		{ID: 1, Title: "None", RequiredSkills: []string{"Haskell"}},
		{ID: 2, Title: "Good", RequiredSkills: []string{"JavaScript", "React", "CSS"}},
		{ID: 3, Title: "Best", RequiredSkills: []string{"JavaScript", "React"}},
	}
	user := []string{"JavaScript", "React"}

	got := recommend.Score(user, internships)
	if len(got) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got))
	}

	// both scored 2 so input order decides, then the zero-score entry
	if got[0].Internship.ID != 2 || got[1].Internship.ID != 3 || got[2].Internship.ID != 1 {
		t.Fatalf("unexpected order: %d, %d, %d", got[0].Internship.ID, got[1].Internship.ID, got[2].Internship.ID)
	}

	if got[0].MatchScore != 2 || got[0].MatchPercentage != 67 || got[0].MatchLabel != recommend.LabelGood {
		t.Fatalf("unexpected annotation: %+v", got[0])
	}
	if got[1].MatchLabel != recommend.LabelBest {
		t.Fatalf("expected full overlap to be best, got %q", got[1].MatchLabel)
	}
	if got[2].MatchScore != 0 || got[2].MatchLabel != recommend.LabelNone {
		t.Fatalf("unexpected annotation: %+v", got[2])
	}
}

func TestScoreStableAndIdempotent(t *testing.T) {
	internships := []models.Internship{
		{ID: 1, RequiredSkills: []string{"Go"}},
		{ID: 2, RequiredSkills: []string{"Go"}},
		{ID: 3, RequiredSkills: []string{"Go"}},
	}
	user := []string{"Go"}

	first := recommend.Score(user, internships)
	second := recommend.Score(user, internships)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results across runs")
	}
	for i, r := range first {
		if r.Internship.ID != int64(i+1) {
			t.Fatalf("equal scores must keep input order, got %v", first)
		}
	}
}

func TestScoreEmptyInput(t *testing.T) {
	got := recommend.Score([]string{"Go"}, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
