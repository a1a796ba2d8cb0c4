package models

import "strings"

// Hackathon is the record shape persisted under the LU_LOCAL_HACKS key.
type Hackathon struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Date      string      `json:"date"` // YYYY-MM-DD
	Theme     string      `json:"theme,omitempty"`
	Domain    string      `json:"domain,omitempty"`
	Problem   string      `json:"problem,omitempty"`
	Skills    FlexStrings `json:"skills,omitempty"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

// SearchText returns the lowercased haystack the listing filter matches
// against: name, theme, domain, problem and all skills.
func (h *Hackathon) SearchText() string {
	parts := []string{h.Name, h.Theme, h.Domain, h.Problem}
	parts = append(parts, h.Skills...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasSkill reports whether the hackathon lists the given skill,
// case-insensitively.
func (h *Hackathon) HasSkill(skill string) bool {
	want := strings.ToLower(strings.TrimSpace(skill))
	for _, s := range h.Skills {
		if strings.ToLower(s) == want {
			return true
		}
	}
	return false
}
