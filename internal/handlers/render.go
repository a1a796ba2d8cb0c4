package handlers

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Template helper functions used across pages.
var funcMap = template.FuncMap{
	"FormatTS":  FormatTS,
	"Nl2br":     Nl2br,
	"TitleCase": TitleCase,
	"JoinComma": JoinComma,
	"Pct":       Pct,
}

// FormatTS renders a stored ISO-8601 timestamp as a readable date/time.
// Unparseable input is shown as-is rather than hidden.
func FormatTS(ts string) string {
	if ts == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("January 2, 2006 at 3:04 PM")
}

// TitleCase converts e.g. "study group" to "Study Group".
func TitleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Nl2br replaces newlines with <br> tags.
func Nl2br(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

// JoinComma renders a skill list as "a, b, c".
func JoinComma(items []string) string {
	return strings.Join(items, ", ")
}

// Pct formats a match percentage with no decimals.
func Pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// templates holds all parsed page templates, keyed by path relative to the
// templates directory (e.g. "auth/login.html"). Each entry has the shared
// layout and partials parsed in.
var (
	templates    map[string]*template.Template
	templatesDir string
)

// LoadTemplates parses every page template under dir against layout.html
// and the _*.html partials. Calling it again reloads everything, which the
// handler tests rely on.
func LoadTemplates(dir string) error {
	layoutFile := filepath.Join(dir, "layout.html")

	var partials, pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		switch {
		case path == layoutFile:
		case strings.HasPrefix(filepath.Base(path), "_"):
			partials = append(partials, path)
		default:
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning templates in %s: %w", dir, err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found in %s", dir)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name, err := filepath.Rel(dir, page)
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)

		files := append([]string{layoutFile, page}, partials...)
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		parsed[name] = tmpl
	}

	templates = parsed
	templatesDir = dir
	return nil
}

// RenderTemplate executes the named page template within the shared layout.
func RenderTemplate(w http.ResponseWriter, name string, data interface{}) {
	tmpl, ok := templates[name]
	if !ok {
		http.Error(w, "Template not found: "+name, http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Printf("executing template %s: %v", name, err)
	}
}

// RenderErrorPage renders the standard error page. db may be nil when the
// failure happens before the database is up; the navbar then shows no user.
func RenderErrorPage(w http.ResponseWriter, r *http.Request, db *sql.DB, statusCode int, title, message string) {
	w.WriteHeader(statusCode)

	data := map[string]interface{}{
		"Title":       fmt.Sprintf("Error %d - %s", statusCode, title),
		"StatusCode":  statusCode,
		"StatusText":  http.StatusText(statusCode),
		"ErrorTitle":  title,
		"Message":     message,
		"CurrentYear": time.Now().Year(),
	}
	if db != nil {
		if user, err := CurrentUser(r, db); err == nil {
			data["User"] = user
		}
	}
	RenderTemplate(w, "error.html", data)
}

// pageData builds the base template payload every page shares.
func pageData(r *http.Request, db *sql.DB, title string) map[string]interface{} {
	data := map[string]interface{}{
		"Title":       title,
		"CurrentYear": time.Now().Year(),
	}
	if db != nil {
		if user, err := CurrentUser(r, db); err == nil {
			data["User"] = user
		}
	}
	return data
}
