package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"sort"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/hackathons"
	"github.com/linkedup/app/internal/models"
)

// GroupEntry pairs a group with its event for list rendering.
type GroupEntry struct {
	EventID   string
	EventName string
	Group     *models.Group
}

// ThemeStat is one row of the dashboard's category breakdown.
type ThemeStat struct {
	Theme   string
	Count   int
	Percent int
}

// DashboardPage renders the logged-in summary: profile card, stats, theme
// breakdown, the user's groups and recent-activity lines.
func DashboardPage(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		events, err := database.GetHackathons(db)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		saved, err := database.SavedEventIDs(db)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		created, joined, err := groupsForUser(db, user, events)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		data := pageData(r, db, "Dashboard")
		data["Events"] = events
		data["StatEvents"] = len(events)
		data["StatSaved"] = len(saved)
		data["StatGroups"] = len(created) + len(joined)
		data["CreatedGroups"] = created
		data["JoinedGroups"] = joined
		data["ThemeStats"] = themeStats(events)
		data["RecentActivity"] = recentActivity(len(saved), len(created)+len(joined))
		RenderTemplate(w, "dashboard.html", data)
	}
}

// CreateEvent handles the dashboard's ad-hoc "create event" action.
func CreateEvent(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := database.GetHackathons(db)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		if err := database.AddHackathon(db, hackathons.NewEvent(len(events)+1)); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// groupsForUser splits every stored group into ones the user created and
// ones they merely joined, annotated with event names.
func groupsForUser(db *sql.DB, user *models.User, events []*models.Hackathon) (created, joined []GroupEntry, err error) {
	byEvent, err := database.AllGroups(db)
	if err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(events))
	for _, ev := range events {
		names[ev.ID] = ev.Name
	}

	// Sorted event ids keep the lists in the same order on every render.
	eids := make([]string, 0, len(byEvent))
	for eid := range byEvent {
		eids = append(eids, eid)
	}
	sort.Strings(eids)

	for _, eid := range eids {
		eventName := names[eid]
		if eventName == "" {
			eventName = eid
		}
		for _, g := range byEvent[eid] {
			entry := GroupEntry{EventID: eid, EventName: eventName, Group: g}
			switch {
			case g.CreatorID() == user.ID:
				created = append(created, entry)
			case g.HasMember(user.ID):
				joined = append(joined, entry)
			}
		}
	}
	return created, joined, nil
}

func themeStats(events []*models.Hackathon) []ThemeStat {
	if len(events) == 0 {
		return nil
	}
	counts := map[string]int{}
	var order []string
	for _, ev := range events {
		if ev.Theme == "" {
			continue
		}
		if counts[ev.Theme] == 0 {
			order = append(order, ev.Theme)
		}
		counts[ev.Theme]++
	}
	out := make([]ThemeStat, 0, len(order))
	for _, theme := range order {
		out = append(out, ThemeStat{
			Theme:   theme,
			Count:   counts[theme],
			Percent: counts[theme] * 100 / len(events),
		})
	}
	return out
}

func recentActivity(savedCount, groupCount int) []string {
	var lines []string
	if savedCount > 0 {
		lines = append(lines, fmt.Sprintf("Saved %d events", savedCount))
	}
	if groupCount > 0 {
		lines = append(lines, fmt.Sprintf("Member of %d groups", groupCount))
	}
	return lines
}
