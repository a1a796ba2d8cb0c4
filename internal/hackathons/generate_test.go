package hackathons

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	list := Generate(25, rng)

	if len(list) != 25 {
		t.Fatalf("Generate(25) produced %d events", len(list))
	}

	seen := map[string]bool{}
	for i, h := range list {
		if h.ID == "" || seen[h.ID] {
			t.Errorf("event %d has bad id %q", i, h.ID)
		}
		seen[h.ID] = true
		if h.Name == "" || h.Theme == "" || h.Date == "" || h.Problem == "" {
			t.Errorf("event %d is missing fields: %+v", i, h)
		}
		if len(h.Skills) < 3 || len(h.Skills) > 6 {
			t.Errorf("event %d has %d skills, want 3..6", i, len(h.Skills))
		}
		if !strings.Contains(h.Name, h.Theme) {
			t.Errorf("event %d name %q does not mention theme %q", i, h.Name, h.Theme)
		}
	}

	// Zero and negative counts fall back to the default.
	if got := Generate(0, rng); len(got) != DefaultCount {
		t.Errorf("Generate(0) produced %d events, want %d", len(got), DefaultCount)
	}
}

func TestMakeIsDeterministicByIndex(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := Make(3, now, rand.New(rand.NewSource(1)))
	b := Make(3, now, rand.New(rand.NewSource(99)))

	// Name, theme and date depend only on the index; skills may differ.
	if a.Name != b.Name || a.Theme != b.Theme || a.Date != b.Date {
		t.Errorf("index-derived fields differ: %+v vs %+v", a, b)
	}
	if a.ID != "local-3" {
		t.Errorf("id = %q, want local-3", a.ID)
	}
	if a.Date != "2026-08-04" {
		t.Errorf("date = %q, want 2026-08-04 (now + 3 days)", a.Date)
	}
}

func TestNewEvent(t *testing.T) {
	h := NewEvent(7)
	if !strings.HasPrefix(h.ID, "ev-new-") {
		t.Errorf("id = %q, want ev-new- prefix", h.ID)
	}
	if h.Name != fmt.Sprintf("New Event %d", 7) {
		t.Errorf("name = %q", h.Name)
	}
	if len(h.Skills) == 0 {
		t.Errorf("ad-hoc event has no skills")
	}
}

func TestSuggestSkills(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	existing := []string{"Go", "SQL"}
	if got := SuggestSkills(existing, rng); len(got) != 2 || got[0] != "Go" {
		t.Errorf("SuggestSkills(existing) = %v, want the existing list", got)
	}

	fresh := SuggestSkills(nil, rng)
	if len(fresh) != 5 {
		t.Errorf("SuggestSkills(nil) = %d skills, want 5", len(fresh))
	}
	seen := map[string]bool{}
	for _, s := range fresh {
		if seen[s] {
			t.Errorf("SuggestSkills(nil) repeated %q", s)
		}
		seen[s] = true
	}
}
