package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/google/uuid"
)

const sessionCookie = "mbtiscope_session"

// session holds the dataset a browser uploaded. A nil dataset means the
// server default is used.
type session struct {
	id       string
	upload   *dataset.Dataset
	lastSeen time.Time
}

// sessionStore keeps uploads per browser session. Sessions idle longer than
// ttl are dropped by prune.
type sessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
	m  map[string]*session
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionStore{ttl: ttl, now: time.Now, m: map[string]*session{}}
}

// ensure returns the caller's session, creating one (and its cookie) when the
// request carries none or an expired one.
func (st *sessionStore) ensure(w http.ResponseWriter, r *http.Request) *session {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	if c, err := r.Cookie(sessionCookie); err == nil {
		if s, ok := st.m[c.Value]; ok && now.Sub(s.lastSeen) <= st.ttl {
			s.lastSeen = now
			return s
		}
	}
	s := &session{id: uuid.NewString(), lastSeen: now}
	st.m[s.id] = s
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func (st *sessionStore) dataset(s *session) *dataset.Dataset {
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.upload
}

// setUpload replaces the session's dataset; nil resets to the server default.
func (st *sessionStore) setUpload(s *session, ds *dataset.Dataset) {
	st.mu.Lock()
	s.upload = ds
	st.mu.Unlock()
}

// prune drops idle sessions and returns how many were removed.
func (st *sessionStore) prune() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	n := 0
	for id, s := range st.m {
		if now.Sub(s.lastSeen) > st.ttl {
			delete(st.m, id)
			n++
		}
	}
	return n
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.m)
}
