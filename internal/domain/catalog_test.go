package domain

import (
	"errors"
	"testing"
)

func validCatalog() Catalog {
	return Catalog{
		ID: "test",
		Items: []QuizItem{
			{ID: 1, Name: "North tower", Question: "Click the north tower", Position: Position{Top: "24%", Left: "13.7%"}},
			{ID: 2, Name: "Gate", Question: "Click the gate", Position: Position{Top: "61%", Left: "91%"}},
		},
	}
}

func TestValidateAcceptsWellFormedCatalog(t *testing.T) {
	if err := validCatalog().Validate(); err != nil {
		t.Fatalf("expected valid catalog, got %v", err)
	}
}

func TestValidateRejectsMalformedCatalogs(t *testing.T) {
	cases := map[string]func(c *Catalog){
		"missing id": func(c *Catalog) { c.ID = "" },
		"no items":   func(c *Catalog) { c.Items = nil },
		"duplicate":  func(c *Catalog) { c.Items[1].ID = 1 },
		"no top":     func(c *Catalog) { c.Items[0].Position.Top = "" },
		"no left":    func(c *Catalog) { c.Items[1].Position = Position{Top: "10%"} },
		"not pct":    func(c *Catalog) { c.Items[0].Position.Left = "13.7" },
		"range":      func(c *Catalog) { c.Items[0].Position.Top = "140%" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validCatalog()
			mutate(&c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestCatalogLookups(t *testing.T) {
	c := validCatalog()
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if item, ok := c.Item(2); !ok || item.Name != "Gate" {
		t.Fatalf("expected Gate, got %+v (ok=%v)", item, ok)
	}
	if _, ok := c.Item(42); ok {
		t.Fatalf("expected unknown id to be missing")
	}
}

func TestTextsWithDefaults(t *testing.T) {
	texts := Texts{Correct: "Rätt!"}.WithDefaults()
	if texts.Correct != "Rätt!" {
		t.Fatalf("override lost: %q", texts.Correct)
	}
	if texts.Incorrect != DefaultTexts.Incorrect || texts.PerfectTitle != "Perfect" {
		t.Fatalf("defaults not applied: %+v", texts)
	}
	if texts.WellDoneComment != "" {
		t.Fatalf("expected empty well-done comment, got %q", texts.WellDoneComment)
	}
}
