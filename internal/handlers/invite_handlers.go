package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/models"
)

// SendInvite records an invitation to join a group, addressed to an email.
// Only group members may invite.
func SendInvite(db *sql.DB, eid, gid string) http.HandlerFunc {
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
			RenderErrorPage(w, r, db, http.StatusForbidden, "Forbidden", "Only group members can send invites.")
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		if !emailPattern.MatchString(email) {
			RenderErrorPage(w, r, db, http.StatusBadRequest, "Bad Request", "A valid email address is required.")
			return
		}

		eventName := ""
		if ev, err := database.GetHackathonByID(db, eid); err == nil {
			eventName = ev.Name
		}

		inv := models.Invite{
			EventID:   eid,
			GroupID:   gid,
			EventName: eventName,
			GroupName: group.Name,
			InvitedBy: user.DisplayName(),
			Email:     email,
			Timestamp: models.NowISO(),
		}
		if err := database.AddInviteForEmail(db, email, inv); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/groups/"+eid+"/"+gid, http.StatusSeeOther)
	}
}

// CancelInvite withdraws a pending invitation to this group for the given
// email. Invites to the same person for other groups stay untouched.
func CancelInvite(db *sql.DB, eid, gid string) http.HandlerFunc {
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
			RenderErrorPage(w, r, db, http.StatusForbidden, "Forbidden", "Only group members can cancel invites.")
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		if err := database.RemoveInviteForEmail(db, email, eid, gid); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/groups/"+eid+"/"+gid, http.StatusSeeOther)
	}
}

// AcceptInvite joins the current user to the group their invite points at
// and consumes the invite. The invite must be addressed to them: by email
// (case-insensitive), or by user id, which is how records migrated from the
// legacy per-group store name their target.
func AcceptInvite(db *sql.DB, eid, gid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		invites, err := database.InvitesForGroup(db, eid, gid)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		target := ""
		for i := range invites {
			if invites[i].For(user.Email) || invites[i].Email == user.ID {
				target = invites[i].Email
				break
			}
		}
		if target == "" {
			RenderErrorPage(w, r, db, http.StatusForbidden, "Forbidden", "That invitation is not addressed to you.")
			return
		}

		if err := database.JoinGroup(db, eid, gid, user.ID); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		if err := database.RemoveInviteForEmail(db, target, eid, gid); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/groups/"+eid+"/"+gid, http.StatusSeeOther)
	}
}
