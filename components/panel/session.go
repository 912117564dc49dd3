package panel

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit per-session context object. Every handler receives
// it; nothing session-scoped lives in package state.
type Session struct {
	ID          string
	UserID      string
	Email       string
	AccessToken string
	TokenExpiry time.Time
	ShowIntro   bool
	CreatedAt   time.Time
}

// LoggedIn reports whether the session carries an authenticated user handle.
func (s *Session) LoggedIn() bool {
	return s != nil && s.UserID != ""
}

// Clear resets every field except the session identity. Used on logout.
func (s *Session) Clear() {
	s.UserID = ""
	s.Email = ""
	s.AccessToken = ""
	s.TokenExpiry = time.Time{}
	s.ShowIntro = false
}

// SessionStore keeps sessions in memory keyed by their cookie identifier.
// Each session is owned by a single logical request flow, so the store only
// guards its own map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create mints a fresh anonymous session. The intro splash is shown once per
// session, so new sessions start with the flag set.
func (st *SessionStore) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		ShowIntro: true,
		CreatedAt: time.Now().UTC(),
	}
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

// Get returns the session for id, if it exists.
func (st *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// Bind attaches authenticated credentials to the session.
func (st *SessionStore) Bind(id string, creds Credentials) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return false
	}
	sess.UserID = creds.UserID
	sess.Email = creds.Email
	sess.AccessToken = creds.AccessToken
	sess.TokenExpiry = creds.TokenExpiry
	return true
}

// Reset clears the session's state and drops it from the store. The single
// clear operation behind the logout action.
func (st *SessionStore) Reset(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		sess.Clear()
		delete(st.sessions, id)
	}
}

// Len reports how many sessions are live. Used by telemetry.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
