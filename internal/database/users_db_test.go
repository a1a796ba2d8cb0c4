package database

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/linkedup/app/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

func TestRegisterUser(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	user, err := RegisterUser(db, RegisterParams{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if user.ID == "" || !strings.HasPrefix(user.ID, "u-") {
		t.Errorf("RegisterUser() id = %q, want u- prefix", user.ID)
	}
	if user.Role != "Member" {
		t.Errorf("RegisterUser() default role = %q, want Member", user.Role)
	}
	if user.CreatedAt == "" {
		t.Errorf("RegisterUser() CreatedAt is empty")
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Errorf("RegisterUser() stored the password badly: %q", user.PasswordHash)
	}

	t.Run("missing credentials", func(t *testing.T) {
		if _, err := RegisterUser(db, RegisterParams{Email: "x@example.com"}); err != ErrMissingCredentials {
			t.Errorf("RegisterUser() without password error = %v, want ErrMissingCredentials", err)
		}
		if _, err := RegisterUser(db, RegisterParams{Password: "secret1"}); err != ErrMissingCredentials {
			t.Errorf("RegisterUser() without email error = %v, want ErrMissingCredentials", err)
		}
	})

	t.Run("name defaults to email local part", func(t *testing.T) {
		u, err := RegisterUser(db, RegisterParams{Email: "grace@example.com", Password: "hopper1"})
		if err != nil {
			t.Fatalf("RegisterUser() error = %v", err)
		}
		if u.Name != "grace" {
			t.Errorf("default name = %q, want %q", u.Name, "grace")
		}
	})
}

// Registering the same email twice, in any letter case, updates the one
// record in place instead of appending a duplicate, and only the second
// password works afterwards.
func TestRegisterUserUpsertsByEmail(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	first, err := RegisterUser(db, RegisterParams{Name: "A", Email: "Dup@Example.com", Password: "firstpass"})
	if err != nil {
		t.Fatalf("first RegisterUser() error = %v", err)
	}
	second, err := RegisterUser(db, RegisterParams{Name: "B", Email: "dup@example.COM", Password: "secondpass"})
	if err != nil {
		t.Fatalf("second RegisterUser() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second registration made a new record: id %q vs %q", second.ID, first.ID)
	}

	users, err := GetUsers(db)
	if err != nil {
		t.Fatalf("GetUsers() error = %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("user count = %d, want 1", len(users))
	}
	if users[0].Name != "B" {
		t.Errorf("name = %q, want %q", users[0].Name, "B")
	}
	if users[0].CreatedAt != first.CreatedAt {
		t.Errorf("CreatedAt changed on upsert: %q vs %q", users[0].CreatedAt, first.CreatedAt)
	}

	if _, err := Authenticate(db, "dup@example.com", "firstpass"); err != ErrInvalidCredentials {
		t.Errorf("old password still accepted, error = %v", err)
	}
	if _, err := Authenticate(db, "dup@example.com", "secondpass"); err != nil {
		t.Errorf("new password rejected, error = %v", err)
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAuthenticateFailuresLookAlike(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	if _, err := RegisterUser(db, RegisterParams{Email: "known@example.com", Password: "rightpass"}); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	_, errUnknown := Authenticate(db, "nobody@example.com", "whatever")
	_, errWrong := Authenticate(db, "known@example.com", "wrongpass")

	if errUnknown != ErrInvalidCredentials {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if errWrong != ErrInvalidCredentials {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrong)
	}
}

// Records written by the original client carry an unsalted SHA-256 digest.
// They must log in and get silently upgraded to bcrypt.
func TestAuthenticateLegacyHashUpgrade(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	sum := sha256.Sum256([]byte("oldpass"))
	legacy := &models.User{
		ID:           "u-legacy",
		Name:         "Old Timer",
		Email:        "old@example.com",
		PasswordHash: hex.EncodeToString(sum[:]),
	}
	if err := PutJSON(db, "LU_USERS", []*models.User{legacy}, 0); err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}

	user, err := Authenticate(db, "old@example.com", "oldpass")
	if err != nil {
		t.Fatalf("Authenticate() with legacy hash error = %v", err)
	}
	if user.ID != "u-legacy" {
		t.Errorf("Authenticate() id = %q, want u-legacy", user.ID)
	}

	stored, err := GetUserByID(db, "u-legacy")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if len(stored.PasswordHash) == 64 {
		t.Errorf("password hash was not upgraded: %q", stored.PasswordHash)
	}
	if _, err := Authenticate(db, "old@example.com", "oldpass"); err != nil {
		t.Errorf("Authenticate() after upgrade error = %v", err)
	}
	if _, err := Authenticate(db, "old@example.com", "notit"); err != ErrInvalidCredentials {
		t.Errorf("wrong password after upgrade error = %v, want ErrInvalidCredentials", err)
	}
}

func TestFindUserByIDOrEmail(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	user, err := RegisterUser(db, RegisterParams{Email: "find@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	byID, err := FindUser(db, user.ID)
	if err != nil {
		t.Fatalf("FindUser(id) error = %v", err)
	}
	if byID.Email != "find@example.com" {
		t.Errorf("FindUser(id) email = %q", byID.Email)
	}

	byEmail, err := FindUser(db, "FIND@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("FindUser(email) error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("FindUser(email) id = %q, want %q", byEmail.ID, user.ID)
	}

	if _, err := FindUser(db, "missing"); err != ErrUserNotFound {
		t.Errorf("FindUser(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	user, err := RegisterUser(db, RegisterParams{Email: "edit@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	updated, err := UpdateProfile(db, user.ID, ProfileUpdate{
		Name:       "Edited Name",
		Email:      "edit@example.com",
		Role:       "Designer",
		Bio:        "Hi there",
		Skills:     []string{"Figma", "CSS"},
		Experience: 4,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Edited Name" || updated.Role != "Designer" {
		t.Errorf("UpdateProfile() = %+v", updated)
	}
	if updated.UpdatedAt == "" {
		t.Errorf("UpdateProfile() did not stamp UpdatedAt")
	}

	stored, err := GetUserByID(db, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got := []string(stored.Skills); len(got) != 2 || got[0] != "Figma" {
		t.Errorf("stored skills = %v", got)
	}
	if int(stored.Experience) != 4 {
		t.Errorf("stored experience = %d, want 4", int(stored.Experience))
	}
	// Password survives a profile edit.
	if _, err := Authenticate(db, "edit@example.com", "secret1"); err != nil {
		t.Errorf("Authenticate() after profile edit error = %v", err)
	}
}

func TestUpsertUsers(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	if _, err := RegisterUser(db, RegisterParams{Name: "Local", Email: "both@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	incoming := []*models.User{
		{ID: "u-csv-1", Name: "Imported", Email: "both@example.com", Role: "Data"},
		{ID: "u-csv-2", Name: "Fresh", Email: "fresh@example.com"},
	}

	count, err := UpsertUsers(db, incoming, false)
	if err != nil {
		t.Fatalf("UpsertUsers(append) error = %v", err)
	}
	if count != 2 {
		t.Errorf("UpsertUsers(append) count = %d, want 2", count)
	}

	merged, err := FindUser(db, "both@example.com")
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	// The merge keeps the existing record's identity.
	if merged.ID == "u-csv-1" {
		t.Errorf("merge replaced the local record's id")
	}

	count, err = UpsertUsers(db, incoming, true)
	if err != nil {
		t.Fatalf("UpsertUsers(replace) error = %v", err)
	}
	if count != 2 {
		t.Errorf("UpsertUsers(replace) count = %d, want 2", count)
	}
	users, err := GetUsers(db)
	if err != nil {
		t.Fatalf("GetUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("user count after replace = %d, want 2", len(users))
	}
}

// A corrupted LU_USERS value surfaces as a typed record error on read and
// gets reset on the next write.
func TestUsersCorruptRecord(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	if err := PutKey(db, "LU_USERS", `"not an array"`, 0); err != nil {
		t.Fatalf("PutKey() error = %v", err)
	}

	if _, err := GetUsers(db); err == nil {
		t.Errorf("GetUsers() on corrupt record error = nil, want *models.RecordError")
	}

	// Writes start over from an empty array.
	if _, err := RegisterUser(db, RegisterParams{Email: "new@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("RegisterUser() after corruption error = %v", err)
	}
	users, err := GetUsers(db)
	if err != nil {
		t.Fatalf("GetUsers() after reset error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("user count = %d, want 1", len(users))
	}
}
