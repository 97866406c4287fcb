package feed

import (
	"strings"
	"testing"
)

func TestScoreBounds(t *testing.T) {
	items := []Item{
		{},
		{Title: "Plain title here", Summary: "Plain summary."},
		{Title: "SCANDAL: war, corruption, murder attack shock horror??", Summary: "!!"},
		{Title: strings.Repeat("война скандал шок ", 50)},
	}

	for _, item := range items {
		c := Score(item)
		if c.Score < 0 || c.Score > 100 {
			t.Errorf("Score(%.30q) = %d, out of [0,100]", item.Title, c.Score)
		}
		for _, sub := range []int{c.Breakdown.Keyword, c.Breakdown.Pattern, c.Breakdown.Question, c.Breakdown.Emotion, c.Breakdown.Length} {
			if sub < 0 || sub > 100 {
				t.Errorf("Score(%.30q) sub-score %d out of [0,100]", item.Title, sub)
			}
		}
	}
}

func TestScoreBands(t *testing.T) {
	tests := []struct {
		name      string
		item      Item
		wantLabel string
	}{
		{
			name:      "calm local story is mild",
			item:      Item{Title: "Local library opens new reading room", Summary: strings.Repeat("The reading room was renovated over the summer and now seats forty visitors. ", 5)},
			wantLabel: LabelMild,
		},
		{
			name:      "pointed question is spicy",
			item:      Item{Title: "War crisis deepens?"},
			wantLabel: LabelSpicy,
		},
		{
			name:      "urgent escalation is hot",
			item:      Item{Title: "BREAKING: war escalates, shock collapse of talks?!"},
			wantLabel: LabelHot,
		},
		{
			name:      "stacked provocations are explosive",
			item:      Item{Title: "SCANDAL: war, corruption, murder attack shock horror??"},
			wantLabel: LabelExplosive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Score(tt.item)
			if c.Label != tt.wantLabel {
				t.Errorf("Score(%q) = %d (%s), want label %s (breakdown %+v)",
					tt.item.Title, c.Score, c.Label, tt.wantLabel, c.Breakdown)
			}
		})
	}
}

func TestLengthScoreCountsCharacters(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    int
	}{
		{"short cyrillic", strings.Repeat("о", 99), 100},
		{"medium cyrillic", strings.Repeat("о", 150), 80},
		{"long cyrillic", strings.Repeat("о", 250), 60},
		{"very long cyrillic", strings.Repeat("о", 400), 40},
		{"medium latin", strings.Repeat("o", 150), 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lengthScore(tt.summary); got != tt.want {
				t.Errorf("lengthScore(%d chars) = %d, want %d", len([]rune(tt.summary)), got, tt.want)
			}
		})
	}
}

func TestScoreHotThresholdScenario(t *testing.T) {
	c := Score(Item{Title: "BREAKING: war escalates, shock collapse of talks?!"})
	if c.Score < ThresholdHot {
		t.Errorf("expected at least %d, got %d (breakdown %+v)", ThresholdHot, c.Score, c.Breakdown)
	}
}

func TestScoreDeterministic(t *testing.T) {
	item := Item{Title: "Путин и санкции: что дальше?", Summary: "Кризис углубляется."}
	first := Score(item)
	for i := 0; i < 5; i++ {
		if got := Score(item); got != first {
			t.Fatalf("Score not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score     int
		wantLabel string
		wantGlyph string
	}{
		{100, LabelExplosive, "💥"},
		{75, LabelExplosive, "💥"},
		{74, LabelHot, "🔥"},
		{60, LabelHot, "🔥"},
		{59, LabelSpicy, "🌶️"},
		{40, LabelSpicy, "🌶️"},
		{39, LabelMild, "💤"},
		{0, LabelMild, "💤"},
	}

	for _, tt := range tests {
		label, glyph := LabelFor(tt.score)
		if label != tt.wantLabel || glyph != tt.wantGlyph {
			t.Errorf("LabelFor(%d) = (%s, %s), want (%s, %s)", tt.score, label, glyph, tt.wantLabel, tt.wantGlyph)
		}
	}
}
