package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Texts holds every user-facing string of a catalog. Empty fields fall back
// to DefaultTexts.
type Texts struct {
	Heading         string `json:"heading,omitempty" yaml:"heading"`
	Subheading      string `json:"subheading,omitempty" yaml:"subheading"`
	Loading         string `json:"loading,omitempty" yaml:"loading"`
	Correct         string `json:"correct,omitempty" yaml:"correct"`
	Incorrect       string `json:"incorrect,omitempty" yaml:"incorrect"`
	PerfectTitle    string `json:"perfectTitle,omitempty" yaml:"perfect_title"`
	PerfectComment  string `json:"perfectComment,omitempty" yaml:"perfect_comment"`
	WellDoneTitle   string `json:"wellDoneTitle,omitempty" yaml:"well_done_title"`
	WellDoneComment string `json:"wellDoneComment,omitempty" yaml:"well_done_comment"`
	EffortTitle     string `json:"effortTitle,omitempty" yaml:"effort_title"`
	EffortComment   string `json:"effortComment,omitempty" yaml:"effort_comment"`
	Restart         string `json:"restart,omitempty" yaml:"restart"`
	PlayAgain       string `json:"playAgain,omitempty" yaml:"play_again"`
}

// DefaultTexts is the English wording used when a catalog leaves a field empty.
var DefaultTexts = Texts{
	Heading:        "Hotspot Quiz",
	Subheading:     "Identify the places in the picture",
	Loading:        "Loading...",
	Correct:        "Correct!",
	Incorrect:      "Wrong, try again.",
	PerfectTitle:   "Perfect",
	PerfectComment: "You really know this place!",
	WellDoneTitle:  "Well done",
	EffortTitle:    "Good effort",
	EffortComment:  "You learned something new today.",
	Restart:        "Start over",
	PlayAgain:      "Play again",
}

// WithDefaults fills every empty field from DefaultTexts.
func (t Texts) WithDefaults() Texts {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Texts{
		Heading:         pick(t.Heading, DefaultTexts.Heading),
		Subheading:      pick(t.Subheading, DefaultTexts.Subheading),
		Loading:         pick(t.Loading, DefaultTexts.Loading),
		Correct:         pick(t.Correct, DefaultTexts.Correct),
		Incorrect:       pick(t.Incorrect, DefaultTexts.Incorrect),
		PerfectTitle:    pick(t.PerfectTitle, DefaultTexts.PerfectTitle),
		PerfectComment:  pick(t.PerfectComment, DefaultTexts.PerfectComment),
		WellDoneTitle:   pick(t.WellDoneTitle, DefaultTexts.WellDoneTitle),
		WellDoneComment: pick(t.WellDoneComment, DefaultTexts.WellDoneComment),
		EffortTitle:     pick(t.EffortTitle, DefaultTexts.EffortTitle),
		EffortComment:   pick(t.EffortComment, DefaultTexts.EffortComment),
		Restart:         pick(t.Restart, DefaultTexts.Restart),
		PlayAgain:       pick(t.PlayAgain, DefaultTexts.PlayAgain),
	}
}

// Catalog is the static, ordered set of hotspots for one picture.
type Catalog struct {
	ID       string     `json:"id" yaml:"id"`
	Title    string     `json:"title" yaml:"title"`
	ImageURL string     `json:"imageUrl" yaml:"image_url"`
	Items    []QuizItem `json:"items" yaml:"items"`
	Texts    Texts      `json:"texts" yaml:"texts"`
}

// Validate rejects catalogs that could not be played: no items, duplicate
// identities, or hotspots without a usable position.
func (c Catalog) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCatalog)
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("%w: catalog %q has no items", ErrInvalidCatalog, c.ID)
	}
	seen := make(map[int]struct{}, len(c.Items))
	for _, item := range c.Items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: catalog %q has duplicate item id %d", ErrInvalidCatalog, c.ID, item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Position.Top == "" || item.Position.Left == "" {
			return fmt.Errorf("%w: item %d in %q is missing a position", ErrInvalidCatalog, item.ID, c.ID)
		}
		if _, err := ParsePercent(item.Position.Top); err != nil {
			return fmt.Errorf("%w: item %d top: %v", ErrInvalidCatalog, item.ID, err)
		}
		if _, err := ParsePercent(item.Position.Left); err != nil {
			return fmt.Errorf("%w: item %d left: %v", ErrInvalidCatalog, item.ID, err)
		}
	}
	return nil
}

// IDs returns the item identities in catalog order.
func (c Catalog) IDs() []int {
	ids := make([]int, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ID
	}
	return ids
}

// Item looks up an item by identity.
func (c Catalog) Item(id int) (QuizItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return QuizItem{}, false
}

// ParsePercent parses "13.7%" into 13.7. Values must lie within [0, 100].
func ParsePercent(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("%q is not a percentage", raw)
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a percentage", raw)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%q is out of range", raw)
	}
	return v, nil
}
