package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ziadkadry99/docchat/internal/chat"
)

const sessionCookie = "docchat_session"

// session is one browser's chat state.
type session struct {
	id   string
	ctrl *chat.Controller
	hub  *hub
}

// sessionStore keeps sessions in a TTL cache. Each access extends the
// session's lifetime.
type sessionStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	cache  *cache.Cache
	create func(id string) *session
}

func newSessionStore(ttl time.Duration, create func(id string) *session) *sessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(_ string, v interface{}) {
		if sess, ok := v.(*session); ok {
			sess.hub.close()
		}
	})
	return &sessionStore{ttl: ttl, cache: c, create: create}
}

// get returns the session for id, or nil.
func (st *sessionStore) get(id string) *session {
	st.mu.Lock()
	defer st.mu.Unlock()

	v, ok := st.cache.Get(id)
	if !ok {
		return nil
	}
	sess := v.(*session)
	st.cache.Set(id, sess, cache.DefaultExpiration)
	return sess
}

// open returns the session named by the request cookie, creating one (and
// setting the cookie) when it is missing or expired.
func (st *sessionStore) open(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess := st.get(c.Value); sess != nil {
			return sess
		}
	}

	id := uuid.NewString()
	sess := st.create(id)

	st.mu.Lock()
	st.cache.Set(id, sess, cache.DefaultExpiration)
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(st.ttl.Seconds()),
	})
	return sess
}

func (st *sessionStore) count() int {
	return st.cache.ItemCount()
}

// close drops every session and disconnects their websockets.
func (st *sessionStore) close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id := range st.cache.Items() {
		st.cache.Delete(id)
	}
}
