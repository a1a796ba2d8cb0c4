package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkedup/app/internal/database"
	"github.com/linkedup/app/internal/models"
)

const (
	sessionCookieName = "lu_session"
	sessionTTL        = 24 * time.Hour
)

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("no active session")

// sessionStore maps session tokens to user ids. It replaces the original
// client's forgeable LU_CURRENT_USER pointer: the token is random and lives
// server-side only.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
}

type session struct {
	userID    string
	expiresAt time.Time
}

// Sessions is the process-wide session store.
var Sessions = &sessionStore{sessions: make(map[string]session)}

// Create registers a new session for the user and returns its token.
func (s *sessionStore) Create(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{userID: userID, expiresAt: time.Now().Add(sessionTTL)}
	s.mu.Unlock()
	return token
}

// Lookup resolves a token to a user id, expiring stale sessions lazily.
func (s *sessionStore) Lookup(token string) (string, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expiresAt) {
		s.Destroy(token)
		return "", false
	}
	return sess.userID, true
}

// Destroy forgets a token.
func (s *sessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Reset drops every session; used between tests.
func (s *sessionStore) Reset() {
	s.mu.Lock()
	s.sessions = make(map[string]session)
	s.mu.Unlock()
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsAuthenticated reports whether the request carries a live session.
func IsAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	_, ok := Sessions.Lookup(cookie.Value)
	return ok
}

// CurrentUser resolves the request's session to the stored user record.
func CurrentUser(r *http.Request, db *sql.DB) (*models.User, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	userID, ok := Sessions.Lookup(cookie.Value)
	if !ok {
		return nil, ErrNoSession
	}
	return database.GetUserByID(db, userID)
}

// AuthMiddleware redirects unauthenticated requests to the login page.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// startSession creates the session, sets the cookie and mirrors the id into
// the legacy LU_CURRENT_USER key for old saved-data readers.
func startSession(w http.ResponseWriter, r *http.Request, db *sql.DB, user *models.User) {
	token := Sessions.Create(user.ID)
	setSessionCookie(w, r, token)
	if err := database.SetCurrentUserKey(db, user.ID); err != nil {
		// Legacy mirror only; the session itself is already live.
		log.Printf("could not mirror session to LU_CURRENT_USER: %v", err)
	}
}
