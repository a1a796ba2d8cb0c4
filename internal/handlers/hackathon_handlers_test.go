package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/hackathons"
	"github.com/linkedup/app/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

func TestHackathonListFiltersAndPaging(t *testing.T) {
	ts := setupTestServer(t)

	events := []*models.Hackathon{}
	for i := 1; i <= hackathons.PageSize+5; i++ {
		theme := "Health"
		if i%2 == 0 {
			theme = "Games"
		}
		events = append(events, &models.Hackathon{
			ID:    "e" + strconv.Itoa(i),
			Name:  theme + " Hackathon #" + strconv.Itoa(i),
			Date:  "2026-09-01",
			Theme: theme,
		})
	}
	if err := database.SaveHackathons(ts.db, events); err != nil {
		t.Fatalf("SaveHackathons() error = %v", err)
	}

	body := readBody(t, ts.get(t, "/hackathons"))
	if !strings.Contains(body, "page 1 of 2") {
		t.Errorf("list page is missing paging info")
	}

	// An out-of-range page clamps to the last page instead of erroring.
	body = readBody(t, ts.get(t, "/hackathons?page=99"))
	if !strings.Contains(body, "page 2 of 2") {
		t.Errorf("out-of-range page did not clamp")
	}

	// A query matching nothing still renders page 1 of 1.
	body = readBody(t, ts.get(t, "/hackathons?q=zebra"))
	if !strings.Contains(body, "page 1 of 1") || !strings.Contains(body, "No events match") {
		t.Errorf("empty result page misrendered")
	}

	// Theme filter narrows the count.
	body = readBody(t, ts.get(t, "/hackathons?theme=Games"))
	if !strings.Contains(body, "7 matching events") {
		t.Errorf("theme filter result missing expected count")
	}
}

func TestHackathonDetailRanksCandidates(t *testing.T) {
	ts := setupTestServer(t)
	seedEvent(t, ts, "e1", "Health Hackathon")

	ts.register(t, "Viewer", "viewer@example.com", "password123")

	// Two other registered users with different skill overlap.
	if _, err := database.RegisterUser(ts.db, database.RegisterParams{
		Name: "Perfect Fit", Email: "fit@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if _, err := database.UpdateProfile(ts.db, mustFindID(t, ts, "fit@example.com"), database.ProfileUpdate{
		Name: "Perfect Fit", Email: "fit@example.com", Skills: []string{"Go", "SQL"},
	}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	body := readBody(t, ts.get(t, "/hackathons/e1"))
	if !strings.Contains(body, "Perfect Fit") || !strings.Contains(body, "100% match") {
		t.Errorf("detail page is missing the ranked candidate")
	}
	// The viewer does not appear in their own candidate list.
	body = readBody(t, ts.get(t, "/hackathons/e1?q=viewer@example.com"))
	if !strings.Contains(body, "No candidates found.") {
		t.Errorf("viewer listed as their own teammate candidate")
	}
}

// An event with no skill tags still gets a suggested requirement list, so
// candidates with matching skills rank above zero.
func TestHackathonDetailSuggestsSkills(t *testing.T) {
	ts := setupTestServer(t)
	if err := database.AddHackathon(ts.db, &models.Hackathon{
		ID: "e9", Name: "Mystery Hackathon", Date: "2026-09-01", Theme: "Health",
	}); err != nil {
		t.Fatalf("AddHackathon() error = %v", err)
	}

	ts.register(t, "Viewer", "viewer@example.com", "password123")
	if _, err := database.RegisterUser(ts.db, database.RegisterParams{
		Name: "Polyglot", Email: "poly@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	// A candidate carrying the whole pool matches whatever gets suggested.
	if _, err := database.UpdateProfile(ts.db, mustFindID(t, ts, "poly@example.com"), database.ProfileUpdate{
		Name: "Polyglot", Email: "poly@example.com", Skills: hackathons.SkillPool,
	}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	body := readBody(t, ts.get(t, "/hackathons/e9"))
	if !strings.Contains(body, "Required skills:") {
		t.Errorf("detail page is missing the suggested skill list")
	}
	if !strings.Contains(body, "Polyglot") || !strings.Contains(body, "100% match") {
		t.Errorf("full-pool candidate did not rank at 100%%")
	}
}

func mustFindID(t *testing.T, ts *testServer, email string) string {
	t.Helper()
	u, err := database.FindUser(ts.db, email)
	if err != nil {
		t.Fatalf("FindUser(%s) error = %v", email, err)
	}
	return u.ID
}

func TestSaveAndDeleteEvent(t *testing.T) {
	ts := setupTestServer(t)
	seedEvent(t, ts, "e1", "Health Hackathon")
	ts.register(t, "User", "user@example.com", "password123")

	ts.postForm(t, "/hackathons/e1/save", url.Values{}).Body.Close()
	ids, err := database.SavedEventIDs(ts.db)
	if err != nil {
		t.Fatalf("SavedEventIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "e1" {
		t.Errorf("saved ids = %v, want [e1]", ids)
	}

	ts.postForm(t, "/hackathons/e1/delete", url.Values{}).Body.Close()
	if _, err := database.GetHackathonByID(ts.db, "e1"); err != database.ErrHackathonNotFound {
		t.Errorf("event after delete error = %v, want ErrHackathonNotFound", err)
	}
	ids, err = database.SavedEventIDs(ts.db)
	if err != nil {
		t.Fatalf("SavedEventIDs() after delete error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("saved ids after delete = %v, want empty", ids)
	}
}

func TestCreateAdHocEvent(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "User", "user@example.com", "password123")

	resp := ts.postForm(t, "/hackathons/create", url.Values{})
	resp.Body.Close()

	events, err := database.GetHackathons(ts.db)
	if err != nil {
		t.Fatalf("GetHackathons() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}
	if !strings.HasPrefix(events[0].ID, "ev-new-") {
		t.Errorf("ad-hoc event id = %q", events[0].ID)
	}
}

func TestImportUsersUpload(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "Admin", "admin@example.com", "password123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "users.csv")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write([]byte("name,email,role,skills\nImported One,one@example.com,Data,\"Python, SQL\"\nImported Two,two@example.com,,Go\n"))
	mw.WriteField("mode", "append")
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.server.URL+"/import/users", &buf)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := ts.client.Do(req)
	if err != nil {
		t.Fatalf("POST /import/users error = %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Import Complete") {
		t.Errorf("import did not render the result page")
	}

	users, err := database.GetUsers(ts.db)
	if err != nil {
		t.Fatalf("GetUsers() error = %v", err)
	}
	// The admin plus the two imported rows.
	if len(users) != 3 {
		t.Errorf("user count = %d, want 3", len(users))
	}
	imported, err := database.FindUser(ts.db, "one@example.com")
	if err != nil {
		t.Fatalf("FindUser(one) error = %v", err)
	}
	if got := []string(imported.Skills); len(got) != 2 || got[0] != "Python" {
		t.Errorf("imported skills = %v", got)
	}
}
