package hackathons

import (
	"sort"
	"strings"

	"github.com/linkedup/app/internal/models"
)

// Candidate pairs a user with their match percentage for a required-skill
// list.
type Candidate struct {
	User  *models.User
	Match float64
}

// MatchPercent scores a user's skills against a required-skill list:
// matched/required * 100, where a required skill counts as matched if any
// user skill equals it, contains it, or is contained by it (lowercased,
// trimmed). Empty required list or empty user skills score 0.
func MatchPercent(userSkills, required []string) float64 {
	req := normalize(required)
	if len(req) == 0 {
		return 0
	}
	us := normalize(userSkills)
	if len(us) == 0 {
		return 0
	}

	matched := 0
	for _, r := range req {
		for _, u := range us {
			if u == r || strings.Contains(u, r) || strings.Contains(r, u) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(req)) * 100
}

func normalize(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if t := strings.ToLower(strings.TrimSpace(s)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// RankTeammates scores every user and sorts descending by match percentage.
// The sort is stable, so ties keep the input order; there is no further
// tie-break.
func RankTeammates(users []*models.User, required []string) []Candidate {
	out := make([]Candidate, 0, len(users))
	for _, u := range users {
		out = append(out, Candidate{User: u, Match: MatchPercent(u.Skills, required)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match > out[j].Match
	})
	return out
}

// FilterCandidates keeps users whose skills, name, role or email contain
// the query, case-insensitively.
func FilterCandidates(users []*models.User, query string) []*models.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if candidateMatches(u, q) {
			out = append(out, u)
		}
	}
	return out
}

func candidateMatches(u *models.User, q string) bool {
	for _, s := range u.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Role), q) ||
		strings.Contains(strings.ToLower(u.Email), q)
}
