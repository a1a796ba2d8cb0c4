package database

import (
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/linkedup/app/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	usersKey = "LU_USERS"
	// currentUserKey is written for compatibility with data saved by the
	// original client; the server never reads it as an authority.
	currentUserKey = "LU_CURRENT_USER"
)

var (
	// ErrUserNotFound is returned when no stored user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingCredentials is returned when registration lacks an email or
	// password.
	ErrMissingCredentials = errors.New("email and password required")
)

// GetUsers returns all stored users. An absent key yields an empty slice;
// corrupt JSON yields a *models.RecordError.
func GetUsers(db *sql.DB) ([]*models.User, error) {
	var users []*models.User
	_, err := GetJSON(db, usersKey, &users)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

// updateUsers runs a CAS cycle over the LU_USERS array. A key holding
// something other than an array is reset to empty on the write path, which
// is the recovery behavior the original client had.
func updateUsers(db *sql.DB, mutate func([]*models.User) ([]*models.User, error)) error {
	return UpdateJSON(db, usersKey, func(raw string) (string, error) {
		var users []*models.User
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &users); err != nil {
				users = nil
			}
		}
		next, err := mutate(users)
		if err != nil {
			return "", err
		}
		if next == nil {
			next = []*models.User{}
		}
		out, err := json.Marshal(next)
		return string(out), err
	})
}

// FindUser resolves an identifier that may be a user id or an email
// (case-insensitive), the way the original client looked users up.
func FindUser(db *sql.DB, identifier string) (*models.User, error) {
	users, err := GetUsers(db)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Matches(identifier) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetUserByID retrieves a user by exact id.
func GetUserByID(db *sql.DB, id string) (*models.User, error) {
	users, err := GetUsers(db)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// RegisterParams carries the join/registration form fields.
type RegisterParams struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
	Bio      string
}

// RegisterUser upserts a user by email. Registering an email that already
// exists updates that record's name/role/bio and password hash in place
// rather than appending a duplicate.
func RegisterUser(db *sql.DB, p RegisterParams) (*models.User, error) {
	email := strings.TrimSpace(p.Email)
	if email == "" || p.Password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var registered *models.User
	err = updateUsers(db, func(users []*models.User) ([]*models.User, error) {
		for _, u := range users {
			if u.EmailLower() == strings.ToLower(email) {
				if p.Name != "" {
					u.Name = p.Name
				}
				if p.Role != "" {
					u.Role = p.Role
				}
				if p.Bio != "" {
					u.Bio = p.Bio
				}
				u.PasswordHash = string(hash)
				u.UpdatedAt = models.NowISO()
				registered = u
				return users, nil
			}
		}

		id := p.ID
		if id == "" {
			id = "u-" + uuid.NewString()
		}
		name := p.Name
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		role := p.Role
		if role == "" {
			role = "Member"
		}
		u := &models.User{
			ID:           id,
			Name:         name,
			Email:        email,
			Role:         role,
			Bio:          p.Bio,
			PasswordHash: string(hash),
			CreatedAt:    models.NowISO(),
		}
		registered = u
		return append(users, u), nil
	})
	if err != nil {
		return nil, err
	}
	return registered, nil
}

// Authenticate verifies credentials and returns the matching user. Unknown
// email and wrong password both yield ErrInvalidCredentials. Records still
// carrying the original client's unsalted SHA-256 digest are accepted and
// upgraded to bcrypt on success.
func Authenticate(db *sql.DB, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := FindUser(db, email)
	if err == ErrUserNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if isLegacyHash(user.PasswordHash) {
		if err := upgradeHash(db, user.ID, password); err != nil {
			// Login still succeeds; the old digest keeps working.
			log.Printf("could not upgrade password hash for %s: %v", user.ID, err)
		}
	}
	return user, nil
}

// VerifyPassword checks a plaintext password against either a bcrypt hash or
// a legacy SHA-256 hex digest.
func VerifyPassword(storedHash, password string) error {
	if isLegacyHash(storedHash) {
		digest := legacyDigest(password)
		if subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(storedHash))) == 1 {
			return nil
		}
		return ErrInvalidCredentials
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
}

// isLegacyHash reports whether the stored hash is the original client's
// 64-hex-character SHA-256 digest rather than a bcrypt hash.
func isLegacyHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func upgradeHash(db *sql.DB, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return updateUsers(db, func(users []*models.User) ([]*models.User, error) {
		for _, u := range users {
			if u.ID == userID {
				u.PasswordHash = string(hash)
				u.UpdatedAt = models.NowISO()
			}
		}
		return users, nil
	})
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name       string
	Email      string
	Role       string
	Bio        string
	Skills     []string
	Experience int
}

// UpdateProfile rewrites the profile fields of the user with the given id,
// inserting a record if none exists (the original edit form upserted).
func UpdateProfile(db *sql.DB, id string, p ProfileUpdate) (*models.User, error) {
	var updated *models.User
	err := updateUsers(db, func(users []*models.User) ([]*models.User, error) {
		for _, u := range users {
			if u.ID == id || (p.Email != "" && u.EmailLower() == strings.ToLower(p.Email)) {
				u.Name = p.Name
				u.Email = p.Email
				u.Role = p.Role
				u.Bio = p.Bio
				if p.Skills != nil {
					u.Skills = models.FlexStrings(p.Skills)
				}
				u.Experience = models.FlexInt(p.Experience)
				u.UpdatedAt = models.NowISO()
				updated = u
				return users, nil
			}
		}
		u := &models.User{
			ID:         id,
			Name:       p.Name,
			Email:      p.Email,
			Role:       p.Role,
			Bio:        p.Bio,
			Skills:     models.FlexStrings(p.Skills),
			Experience: models.FlexInt(p.Experience),
			CreatedAt:  models.NowISO(),
		}
		updated = u
		return append(users, u), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpsertUsers merges imported user records into LU_USERS. With replace set,
// the incoming set becomes the whole array (de-duplicated by id, last one
// wins); otherwise records merge over existing ones by email, or by id when
// the record has no email. Returns the resulting user count.
func UpsertUsers(db *sql.DB, incoming []*models.User, replace bool) (int, error) {
	var count int
	err := updateUsers(db, func(users []*models.User) ([]*models.User, error) {
		base := users
		if replace {
			base = nil
		}

		index := make(map[string]int)
		keyOf := func(u *models.User) string {
			if k := u.EmailLower(); k != "" {
				return k
			}
			return u.ID
		}
		merged := make([]*models.User, 0, len(base)+len(incoming))
		for _, u := range base {
			index[keyOf(u)] = len(merged)
			merged = append(merged, u)
		}
		for _, u := range incoming {
			if i, ok := index[keyOf(u)]; ok {
				merged[i] = mergeUser(merged[i], u)
			} else {
				index[keyOf(u)] = len(merged)
				merged = append(merged, u)
			}
		}
		count = len(merged)
		return merged, nil
	})
	return count, err
}

// mergeUser overlays non-empty fields of in on top of base, keeping base's
// id, password hash and createdAt.
func mergeUser(base, in *models.User) *models.User {
	out := *base
	if in.Name != "" {
		out.Name = in.Name
	}
	if in.Email != "" {
		out.Email = in.Email
	}
	if in.Role != "" {
		out.Role = in.Role
	}
	if in.Bio != "" {
		out.Bio = in.Bio
	}
	if len(in.Skills) > 0 {
		out.Skills = in.Skills
	}
	if in.Experience != 0 {
		out.Experience = in.Experience
	}
	out.UpdatedAt = models.NowISO()
	return &out
}

// SetCurrentUserKey mirrors the session into the legacy LU_CURRENT_USER key
// as a bare id string, the way the browser client stored it.
func SetCurrentUserKey(db *sql.DB, id string) error {
	return UpdateJSON(db, currentUserKey, func(string) (string, error) {
		return id, nil
	})
}

// ClearCurrentUserKey removes the legacy session pointer on logout.
func ClearCurrentUserKey(db *sql.DB) error {
	return DeleteKey(db, currentUserKey)
}
