package hackathons

import (
	"sort"
	"strings"

	"github.com/linkedup/app/internal/models"
)

// PageSize is the listing page size.
const PageSize = 10

// Filter keeps hackathons whose concatenated fields contain the query,
// case-insensitively. An empty query returns the input unchanged.
func Filter(list []*models.Hackathon, query string) []*models.Hackathon {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]*models.Hackathon, 0, len(list))
	for _, h := range list {
		if strings.Contains(h.SearchText(), q) {
			out = append(out, h)
		}
	}
	return out
}

// FilterTheme keeps hackathons with exactly the given theme.
func FilterTheme(list []*models.Hackathon, theme string) []*models.Hackathon {
	if theme == "" {
		return list
	}
	out := make([]*models.Hackathon, 0, len(list))
	for _, h := range list {
		if h.Theme == theme {
			out = append(out, h)
		}
	}
	return out
}

// FilterSkill keeps hackathons listing the given skill.
func FilterSkill(list []*models.Hackathon, skill string) []*models.Hackathon {
	if strings.TrimSpace(skill) == "" {
		return list
	}
	out := make([]*models.Hackathon, 0, len(list))
	for _, h := range list {
		if h.HasSkill(skill) {
			out = append(out, h)
		}
	}
	return out
}

// PageCount returns the number of pages for total items, never less than 1:
// an empty result set still renders page 1 of 1.
func PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// ClampPage forces page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page returns the slice of list for the (already clamped) 1-based page.
func Page(list []*models.Hackathon, page int) []*models.Hackathon {
	start := (page - 1) * PageSize
	if start >= len(list) {
		return nil
	}
	end := start + PageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// ThemesOf lists the distinct themes present in the list, in first-seen
// order, for the category dropdown.
func ThemesOf(list []*models.Hackathon) []string {
	seen := map[string]bool{}
	var out []string
	for _, h := range list {
		if h.Theme != "" && !seen[h.Theme] {
			seen[h.Theme] = true
			out = append(out, h.Theme)
		}
	}
	return out
}

// SkillCloud lists the distinct skills across the list, sorted, for the
// quick-filter chips.
func SkillCloud(list []*models.Hackathon) []string {
	seen := map[string]bool{}
	var out []string
	for _, h := range list {
		for _, s := range h.Skills {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}
