package handlers

import (
	"database/sql"
	"net/http"
	"strings"
)

// NewRouter wires every route onto a fresh mux. Dynamic segments under
// /hackathons/ and /groups/ are dispatched by hand, the mux's longest-prefix
// matching handling the fixed routes first.
func NewRouter(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()

	// Static File Server
	fs := http.FileServer(http.Dir("web/static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	// Landing page doubles as the quick-join form target.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Page Not Found", "The page you are looking for does not exist.")
			return
		}
		switch r.Method {
		case http.MethodGet:
			LandingPage(db)(w, r)
		case http.MethodPost:
			Join(db)(w, r)
		default:
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "This method is not supported for /.")
		}
	})

	// Authentication Routes
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			RegisterPage(w, r)
		case http.MethodPost:
			Register(db)(w, r)
		default:
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "This method is not supported for /register.")
		}
	})

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			LoginPage(w, r)
		case http.MethodPost:
			Login(db)(w, r)
		default:
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "This method is not supported for /login.")
		}
	})

	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			Logout(db)(w, r)
		} else {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Logout requires POST method.")
		}
	})

	// Dashboard
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only GET is allowed for the dashboard.")
			return
		}
		AuthMiddleware(DashboardPage(db))(w, r)
	})

	// Profile Routes
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			AuthMiddleware(ProfilePage(db))(w, r)
		case http.MethodPost:
			AuthMiddleware(UpdateProfileHandler(db))(w, r)
		default:
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "This method is not supported for /profile.")
		}
	})
	mux.HandleFunc("/profile/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only GET is allowed for export.")
			return
		}
		AuthMiddleware(ExportProfile(db))(w, r)
	})

	// User Import (CSV / XLSX upload)
	mux.HandleFunc("/import/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST is allowed for imports.")
			return
		}
		AuthMiddleware(ImportUsers(db))(w, r)
	})

	// Hackathon Routes
	mux.HandleFunc("/hackathons", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only GET is allowed for the catalog.")
			return
		}
		HackathonListPage(db)(w, r)
	})
	mux.HandleFunc("/hackathons/regen", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST is allowed for regeneration.")
			return
		}
		AuthMiddleware(RegenerateHackathons(db))(w, r)
	})
	mux.HandleFunc("/hackathons/create", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST is allowed for event creation.")
			return
		}
		AuthMiddleware(CreateEvent(db))(w, r)
	})
	mux.HandleFunc("/hackathons/", routeHackathonPaths(db))

	// Group Routes
	mux.HandleFunc("/groups/create", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST is allowed for group creation.")
			return
		}
		AuthMiddleware(CreateGroupHandler(db))(w, r)
	})
	mux.HandleFunc("/groups/", routeGroupPaths(db))

	return mux
}

// routeHackathonPaths dispatches /hackathons/{eid} and /hackathons/{eid}/action.
func routeHackathonPaths(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/hackathons/"), "/")
		if len(parts) == 0 || parts[0] == "" {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "Event ID missing or invalid path.")
			return
		}
		eid := parts[0]

		if len(parts) == 1 { // /hackathons/{eid}
			if r.Method == http.MethodGet {
				HackathonDetailPage(db, eid)(w, r)
			} else {
				RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only GET is allowed for event details.")
			}
			return
		}

		if len(parts) == 2 { // /hackathons/{eid}/action
			if r.Method != http.MethodPost {
				RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST is allowed for event actions.")
				return
			}
			switch parts[1] {
			case "delete":
				AuthMiddleware(DeleteHackathonHandler(db, eid))(w, r)
			case "save":
				AuthMiddleware(SaveHackathonHandler(db, eid))(w, r)
			default:
				RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "Invalid action for event.")
			}
			return
		}

		RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "Invalid event path structure.")
	}
}

// routeGroupPaths dispatches /groups/{eid}/{gid} and its nested actions,
// including the two-segment invite/cancel and invite/accept forms.
func routeGroupPaths(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/groups/"), "/")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "Group path must include event and group IDs.")
			return
		}
		eid, gid := parts[0], parts[1]

		if len(parts) == 2 { // /groups/{eid}/{gid}
			if r.Method == http.MethodGet {
				AuthMiddleware(GroupPage(db, eid, gid))(w, r)
			} else {
				RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only GET is allowed for the group page.")
			}
			return
		}

		if r.Method != http.MethodPost {
			RenderErrorPage(w, r, db, http.StatusMethodNotAllowed, "Method Not Allowed", "Only POST is allowed for group actions.")
			return
		}

		action := strings.Join(parts[2:], "/")
		switch action {
		case "delete":
			AuthMiddleware(DeleteGroupHandler(db, eid, gid))(w, r)
		case "leave":
			AuthMiddleware(LeaveGroupHandler(db, eid, gid))(w, r)
		case "chat":
			AuthMiddleware(PostChatMessage(db, eid, gid))(w, r)
		case "invite":
			AuthMiddleware(SendInvite(db, eid, gid))(w, r)
		case "invite/cancel":
			AuthMiddleware(CancelInvite(db, eid, gid))(w, r)
		case "invite/accept":
			AuthMiddleware(AcceptInvite(db, eid, gid))(w, r)
		default:
			RenderErrorPage(w, r, db, http.StatusNotFound, "Not Found", "Invalid action for group.")
		}
	}
}
