package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/models"
)

// CreateGroupHandler handles the "form a team" submission from an event
// page. Teammate user IDs may be pre-checked on the form.
func CreateGroupHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			RenderErrorPage(w, r, db, http.StatusBadRequest, "Bad Request", "Could not parse form.")
			return
		}

		eid := strings.TrimSpace(r.FormValue("eid"))
		name := strings.TrimSpace(r.FormValue("name"))
		if eid == "" || name == "" {
			RenderErrorPage(w, r, db, http.StatusBadRequest, "Bad Request", "Event and group name are required.")
			return
		}
		if _, err := database.GetHackathonByID(db, eid); err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such event.")
			return
		}

		group, err := database.CreateGroup(db, eid, name, user.ID, r.Form["members"])
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/groups/"+eid+"/"+group.ID, http.StatusSeeOther)
	}
}

// GroupPage renders one group: roster, pending invites and the chat log.
func GroupPage(db *sql.DB, eid, gid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, err := database.GetGroup(db, eid, gid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such group.")
			return
		}
		event, err := database.GetHackathonByID(db, eid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such event.")
			return
		}

		invites, err := database.InvitesForGroup(db, eid, gid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		messages, err := database.MessagesForGroup(db, eid, gid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		user, _ := CurrentUser(r, db)

		data := pageData(r, db, group.Name)
		data["Event"] = event
		data["Group"] = group
		data["Members"] = resolveMembers(db, group.Members)
		data["Invites"] = invites
		data["Messages"] = resolveChat(db, messages)
		data["IsCreator"] = user != nil && group.CreatorID() == user.ID
		data["IsMember"] = user != nil && group.HasMember(user.ID)
		RenderTemplate(w, "groups/group.html", data)
	}
}

// DeleteGroupHandler removes a group. Only its creator may do so.
func DeleteGroupHandler(db *sql.DB, eid, gid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		group, err := database.GetGroup(db, eid, gid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such group.")
			return
		}
		if group.CreatorID() != user.ID {
			RenderErrorPage(w, r, db, http.StatusForbidden, "Forbidden", "Only the group creator can delete it.")
			return
		}
		if err := database.DeleteGroup(db, eid, gid); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// LeaveGroupHandler drops the current user from the roster. An emptied
// group disappears with its last member.
func LeaveGroupHandler(db *sql.DB, eid, gid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := database.LeaveGroup(db, eid, gid, user.ID); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// PostChatMessage appends one message to the group's chat log. Only
// members may post; blank messages are ignored.
func PostChatMessage(db *sql.DB, eid, gid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		group, err := database.GetGroup(db, eid, gid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "No such group.")
			return
		}
		if !group.HasMember(user.ID) {
			RenderErrorPage(w, r, db, http.StatusForbidden, "Forbidden", "Only group members can post.")
			return
		}

		// The stored from field is the user id, as the original client wrote
		// it; display names are resolved at render time.
		msg := models.ChatMessage{
			From: user.ID,
			Text: strings.TrimSpace(r.FormValue("text")),
		}
		if err := database.AppendChatMessage(db, eid, gid, msg); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/groups/"+eid+"/"+gid, http.StatusSeeOther)
	}
}

// ChatLine is a chat message prepared for display: the stored sender id
// swapped for a profile name.
type ChatLine struct {
	From      string
	Text      string
	Timestamp string
}

// resolveChat maps each message's stored sender id to a display name. Ids
// with no profile (and pre-migration records holding raw names) render
// as-is.
func resolveChat(db *sql.DB, msgs []models.ChatMessage) []ChatLine {
	out := make([]ChatLine, 0, len(msgs))
	for _, m := range msgs {
		from := m.From
		if u, err := database.GetUserByID(db, m.From); err == nil {
			from = u.DisplayName()
		}
		out = append(out, ChatLine{From: from, Text: m.Text, Timestamp: m.Timestamp})
	}
	return out
}

// resolveMembers maps stored member IDs to profiles for display. IDs with
// no matching profile render as bare placeholders rather than vanishing.
func resolveMembers(db *sql.DB, ids []string) []*models.User {
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := database.GetUserByID(db, id)
		if err != nil {
			u = &models.User{ID: id, Name: id}
		}
		out = append(out, u)
	}
	return out
}
