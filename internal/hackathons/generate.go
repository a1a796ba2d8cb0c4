// Package hackathons holds the catalog logic with no storage attached:
// sample-event generation, listing filters, page arithmetic and the
// teammate match heuristic.
package hackathons

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/linkedup/app/internal/models"
)

// DefaultCount is how many sample hackathons a regenerate produces.
const DefaultCount = 100

// Generation pools. Theme/verb/domain are picked by index modulo, skills at
// random, so names are stable for a given index while skill sets vary.
var (
	SkillPool = []string{
		"JavaScript", "Python", "React", "Node.js", "SQL", "AWS", "Docker",
		"TypeScript", "Django", "Flask", "TensorFlow", "Figma", "Unity",
		"C++", "Go",
	}
	Themes = []string{
		"Health", "Education", "Fintech", "Sustainability", "Agritech",
		"GovTech", "Games", "Study Group",
	}
	Verbs = []string{
		"Optimize", "Detect", "Predict", "Automate", "Visualize", "Secure",
		"Gamify", "Improve",
	}
	Domains = []string{
		"user retention", "fraud", "energy usage", "crop yield", "traffic",
		"supply chain", "learning outcomes", "team formation",
	}
)

// Make builds the i-th sample hackathon, dated i days from now.
func Make(i int, now time.Time, rng *rand.Rand) *models.Hackathon {
	theme := Themes[i%len(Themes)]
	verb := Verbs[i%len(Verbs)]
	domain := Domains[i%len(Domains)]

	return &models.Hackathon{
		ID:    fmt.Sprintf("local-%d", i),
		Name:  fmt.Sprintf("%s Hackathon #%d — %s %s", theme, i, verb, domain),
		Date:  now.AddDate(0, 0, i).Format("2006-01-02"),
		Theme: theme,
		Domain: domain,
		Problem: fmt.Sprintf(
			"Build a %s prototype to %s %s. Focus on reliability and low-cost infra.",
			strings.ToLower(theme), strings.ToLower(verb), domain,
		),
		Skills:    models.FlexStrings(randomSkills(rng, 3, 6)),
		CreatedAt: models.NowISO(),
	}
}

// Generate produces n sample hackathons (DefaultCount when n <= 0).
func Generate(n int, rng *rand.Rand) []*models.Hackathon {
	if n <= 0 {
		n = DefaultCount
	}
	now := time.Now()
	out := make([]*models.Hackathon, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Make(i, now, rng))
	}
	return out
}

// NewEvent builds the ad-hoc record the dashboard "create event" action
// writes.
func NewEvent(seq int) *models.Hackathon {
	return &models.Hackathon{
		ID:        fmt.Sprintf("ev-new-%d", time.Now().UnixMilli()),
		Name:      fmt.Sprintf("New Event %d", seq),
		Date:      time.Now().Format("2006-01-02"),
		Theme:     "Hackathon",
		Domain:    "custom",
		Problem:   "Ad-hoc event",
		Skills:    models.FlexStrings{"JavaScript"},
		CreatedAt: models.NowISO(),
	}
}

// SuggestSkills returns the event's own skills when it has any, otherwise a
// random five-skill subset of the pool.
func SuggestSkills(existing []string, rng *rand.Rand) []string {
	if len(existing) > 0 {
		return existing
	}
	return randomSkills(rng, 5, 5)
}

// randomSkills picks between min and max distinct skills from the pool.
func randomSkills(rng *rand.Rand, min, max int) []string {
	n := min
	if max > min {
		n += rng.Intn(max - min + 1)
	}
	pool := make([]string, len(SkillPool))
	copy(pool, SkillPool)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
