package handlers

import (
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/hackathons"
	"github.com/linkedup/app/internal/importer"
	"github.com/linkedup/app/internal/models"
)

// UsersCSVPath points at the optional spreadsheet of extra candidates used
// by the teammate matcher. Set from configuration at startup; empty means
// no spreadsheet pool.
var UsersCSVPath string

// HackathonListPage renders the browsable catalog with text search, theme
// and skill filters and paging.
func HackathonListPage(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := database.GetHackathons(db)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		theme := strings.TrimSpace(r.URL.Query().Get("theme"))
		skill := strings.TrimSpace(r.URL.Query().Get("skill"))

		filtered := hackathons.Filter(all, q)
		filtered = hackathons.FilterTheme(filtered, theme)
		filtered = hackathons.FilterSkill(filtered, skill)

		totalPages := hackathons.PageCount(len(filtered))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		page = hackathons.ClampPage(page, totalPages)

		saved, err := database.SavedEventIDs(db)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		savedSet := make(map[string]bool, len(saved))
		for _, id := range saved {
			savedSet[id] = true
		}

		data := pageData(r, db, "Hackathons")
		data["Events"] = hackathons.Page(filtered, page)
		data["Query"] = q
		data["Theme"] = theme
		data["Skill"] = skill
		data["Themes"] = hackathons.ThemesOf(all)
		data["Skills"] = hackathons.SkillCloud(all)
		data["Page"] = page
		data["TotalPages"] = totalPages
		data["PrevPage"] = page - 1
		data["NextPage"] = page + 1
		data["HasPrev"] = page > 1
		data["HasNext"] = page < totalPages
		data["TotalResults"] = len(filtered)
		data["Saved"] = savedSet
		RenderTemplate(w, "hackathons/list.html", data)
	}
}

// RegenerateHackathons replaces the catalog with a fresh generated batch.
func RegenerateHackathons(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := database.SaveHackathons(db, hackathons.Generate(hackathons.DefaultCount, rng)); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/hackathons", http.StatusSeeOther)
	}
}

// DeleteHackathonHandler removes one event and its saved-list entry.
func DeleteHackathonHandler(db *sql.DB, eid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.DeleteHackathon(db, eid); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/hackathons", http.StatusSeeOther)
	}
}

// SaveHackathonHandler bookmarks an event on the user's saved list.
func SaveHackathonHandler(db *sql.DB, eid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := database.GetHackathonByID(db, eid); err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such event.")
			return
		}
		if err := database.SaveEventID(db, eid); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/hackathons/"+eid, http.StatusSeeOther)
	}
}

// HackathonDetailPage renders one event: its groups, and the teammate
// matcher ranking registered plus spreadsheet candidates against the
// event's required skills.
func HackathonDetailPage(db *sql.DB, eid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := database.GetHackathonByID(db, eid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such event.")
			return
		}

		groups, err := database.GroupsForEvent(db, eid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		pool, err := candidatePool(db)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		user, _ := CurrentUser(r, db)
		if user != nil {
			pool = excludeUser(pool, user.ID)
		}

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		pool = hackathons.FilterCandidates(pool, q)

		// An event with no listed skills still gets a suggested set, so the
		// matcher has something to rank against.
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		required := hackathons.SuggestSkills(event.Skills, rng)

		data := pageData(r, db, event.Name)
		data["Event"] = event
		data["Groups"] = groups
		data["RequiredSkills"] = required
		data["Candidates"] = hackathons.RankTeammates(pool, required)
		data["Query"] = q
		RenderTemplate(w, "hackathons/detail.html", data)
	}
}

// candidatePool merges registered users with the optional spreadsheet of
// external candidates. Registered profiles win on email collisions.
func candidatePool(db *sql.DB) ([]*models.User, error) {
	local, err := database.GetUsers(db)
	if err != nil {
		return nil, err
	}
	if UsersCSVPath == "" {
		return local, nil
	}
	csvUsers, err := importer.LoadUsersCSVFile(UsersCSVPath)
	if err != nil {
		log.Printf("users csv %s: %v", UsersCSVPath, err)
		return local, nil
	}
	return importer.MergeByEmail(csvUsers, local), nil
}

func excludeUser(users []*models.User, id string) []*models.User {
	out := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}
