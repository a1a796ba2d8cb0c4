package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/importer"
)

// ProfilePage renders the edit form pre-filled with the current profile.
func ProfilePage(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		data := pageData(r, db, "My Profile")
		data["Profile"] = user
		data["SkillsLine"] = strings.Join(user.Skills, ", ")
		RenderTemplate(w, "profile.html", data)
	}
}

// UpdateProfileHandler saves the edit form back to the profile record.
func UpdateProfileHandler(db *sql.DB) http.HandlerFunc {
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

		email := strings.TrimSpace(r.FormValue("email"))
		if email == "" {
			email = user.Email
		}
		experience, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("experience")))

		update := database.ProfileUpdate{
			Name:       strings.TrimSpace(r.FormValue("name")),
			Email:      email,
			Role:       strings.TrimSpace(r.FormValue("role")),
			Bio:        strings.TrimSpace(r.FormValue("bio")),
			Skills:     splitSkills(r.FormValue("skills")),
			Experience: experience,
		}
		if update.Name == "" {
			update.Name = user.Name
		}

		if _, err := database.UpdateProfile(db, user.ID, update); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	}
}

// ExportProfile serves the current user's record as a JSON download,
// password hash stripped.
func ExportProfile(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r, db)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		out := *user
		out.PasswordHash = ""

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "profile-"+out.ID+".json"))
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// ImportUsers ingests an uploaded CSV or XLSX of user rows into the user
// store. The "mode" field chooses append (merge by email) or replace.
func ImportUsers(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := CurrentUser(r, db); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			RenderErrorPage(w, r, db, http.StatusBadRequest, "Bad Request", "Could not read upload.")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusBadRequest, "Bad Request", "No file was uploaded.")
			return
		}
		defer file.Close()

		rows, err := importer.ParseFile(header.Filename, file)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusBadRequest, "Import Failed", err.Error())
			return
		}

		replace := r.FormValue("mode") == "replace"
		count, err := database.UpsertUsers(db, importer.UsersFromRows(rows), replace)
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Storage Error", err.Error())
			return
		}

		data := pageData(r, db, "Import Complete")
		data["ImportedFile"] = header.Filename
		data["UserCount"] = count
		data["Replaced"] = replace
		RenderTemplate(w, "import_result.html", data)
	}
}

// splitSkills parses the comma-separated skills field.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
