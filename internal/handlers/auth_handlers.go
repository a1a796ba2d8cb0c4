package handlers

import (
	"database/sql"
	"net/http"
	"regexp"
	"strings"

	"github.com/linkedup/app/internal/database"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// LandingPage renders the public landing page with the join form, or sends
// a logged-in user straight to the dashboard.
func LandingPage(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if IsAuthenticated(r) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		RenderTemplate(w, "index.html", pageData(r, nil, "LinkedUp"))
	}
}

// Join handles the landing page's join form: register (or update) the user,
// log them in, and land on the dashboard.
func Join(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		fullname := strings.TrimSpace(r.FormValue("fullname"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		interest := strings.TrimSpace(r.FormValue("interest"))

		data := pageData(r, nil, "LinkedUp")
		switch {
		case fullname == "":
			data["Error"] = "Please enter your full name."
		case !emailPattern.MatchString(email):
			data["Error"] = "Please enter a valid email."
		case len(password) < 6:
			data["Error"] = "Password should be at least 6 characters."
		}
		if data["Error"] != nil {
			RenderTemplate(w, "index.html", data)
			return
		}

		user, err := database.RegisterUser(db, database.RegisterParams{
			Name:     fullname,
			Email:    email,
			Password: password,
			Role:     interest,
		})
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Registration Failed", err.Error())
			return
		}

		startSession(w, r, db, user)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// RegisterPage renders the standalone registration page.
func RegisterPage(w http.ResponseWriter, r *http.Request) {
	RenderTemplate(w, "auth/register.html", map[string]interface{}{"Title": "Register"})
}

// Register handles the registration form. Registering an email that already
// exists updates that record in place rather than failing, matching how the
// original client behaved.
func Register(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		confirm := r.FormValue("confirm_password")
		role := strings.TrimSpace(r.FormValue("role"))
		bio := strings.TrimSpace(r.FormValue("bio"))

		renderErr := func(msg string) {
			RenderTemplate(w, "auth/register.html", map[string]interface{}{
				"Title": "Register",
				"Error": msg,
				"Form": map[string]string{
					"name": name, "email": email, "role": role, "bio": bio,
				},
			})
		}

		if email == "" || password == "" {
			renderErr("Email and password are required.")
			return
		}
		if password != confirm {
			renderErr("Passwords do not match.")
			return
		}

		user, err := database.RegisterUser(db, database.RegisterParams{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     role,
			Bio:      bio,
		})
		if err != nil {
			renderErr("Could not register: " + err.Error())
			return
		}

		startSession(w, r, db, user)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// LoginPage renders the login page.
func LoginPage(w http.ResponseWriter, r *http.Request) {
	RenderTemplate(w, "auth/login.html", map[string]interface{}{"Title": "Log In"})
}

// Login handles the login form. Unknown email and wrong password produce
// the same message.
func Login(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		if email == "" || password == "" {
			RenderTemplate(w, "auth/login.html", map[string]interface{}{
				"Title": "Log In",
				"Error": "Email and password are required.",
			})
			return
		}

		user, err := database.Authenticate(db, email, password)
		if err == database.ErrInvalidCredentials {
			RenderTemplate(w, "auth/login.html", map[string]interface{}{
				"Title": "Log In",
				"Error": "Invalid email or password.",
			})
			return
		}
		if err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Login Failed", err.Error())
			return
		}

		startSession(w, r, db, user)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// Logout tears down the session, clears the cookie and the legacy pointer.
func Logout(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			Sessions.Destroy(cookie.Value)
		}
		clearSessionCookie(w, r)
		if err := database.ClearCurrentUserKey(db); err != nil {
			RenderErrorPage(w, r, db, http.StatusInternalServerError, "Logout Failed", err.Error())
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
