package catalog

import (
	"testing"

	"github.com/verte-zerg/cogni/internal/model"
)

func TestDefaultCoversEveryDomain(t *testing.T) {
	c := Default()
	if len(c.Games()) != 30 {
		t.Fatalf("expected 30 games, got %d", len(c.Games()))
	}
	terminal := c.TerminalOnly()
	for _, d := range model.Domains {
		if len(c.ByDomain(d)) == 0 {
			t.Fatalf("no games for domain %s", d)
		}
		if len(terminal.ByDomain(d)) == 0 {
			t.Fatalf("no terminal game for domain %s", d)
		}
	}
}

func TestLookupAndDuplicates(t *testing.T) {
	c := New([]Game{
		{ID: "a", Name: "A", Domain: model.DomainMemory},
		{ID: "a", Name: "A2", Domain: model.DomainSpeed},
	})
	g, ok := c.Lookup("a")
	if !ok || g.Name != "A" {
		t.Fatalf("unexpected lookup result: %+v %v", g, ok)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Fatalf("expected missing id to fail")
	}
	if len(c.Games()) != 1 {
		t.Fatalf("expected duplicate to be dropped")
	}
}
