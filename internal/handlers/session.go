package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
	"github.com/micahvs/sentimental-gifts/internal/models"
	"github.com/micahvs/sentimental-gifts/internal/store"
)

const sessionName = "gift-session"

// Sessions resolves the current user from the request cookie. Resolution
// happens once at the handler boundary; the resolved user is passed down
// explicitly from there.
type Sessions struct {
	Store   *store.Store
	Cookies *sessions.CookieStore
}

// CurrentUser returns the authenticated user, or nil when there is no valid
// session. Absence is the expected outcome for anonymous visitors, so every
// lower-level fault (bad cookie, store error, deleted user) also maps to nil
// rather than propagating.
func (s *Sessions) CurrentUser(r *http.Request) *models.User {
	session, err := s.Cookies.Get(r, sessionName)
	if err != nil {
		slog.Debug("Unreadable session cookie", "error", err)
		return nil
	}
	userID, ok := session.Values["user_id"].(string)
	if !ok || userID == "" {
		return nil
	}
	user, err := s.Store.GetUserByID(userID)
	if err != nil {
		slog.Error("Session user lookup failed", "user_id", userID, "error", err)
		return nil
	}
	if user == nil {
		slog.Debug("Session references a missing user", "user_id", userID)
		return nil
	}
	return user
}

// Session returns the cookie session for flash messages and sign-in state.
// gorilla returns a usable blank session alongside decode errors, so the
// error is only worth a trace.
func (s *Sessions) Session(r *http.Request) *sessions.Session {
	session, err := s.Cookies.Get(r, sessionName)
	if err != nil {
		slog.Debug("Session decode failed, starting fresh", "error", err)
	}
	return session
}

func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	session := s.Session(r)
	session.Values["user_id"] = userID
	session.Options.Path = "/"
	return session.Save(r, w)
}

func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) {
	session := s.Session(r)
	delete(session.Values, "user_id")
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
}

// RequireUser gates dashboard-family routes: unauthenticated requests are
// redirected to login with a next parameter pointing back here.
func (s *Sessions) RequireUser(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.CurrentUser(r)
		if user == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}
