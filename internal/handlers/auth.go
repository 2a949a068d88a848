package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/micahvs/sentimental-gifts/internal/config"
	"github.com/micahvs/sentimental-gifts/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves the login page and both sign-in flows: password and
// magic link. A magic link is mailed (mocked via the log) and exchanged for
// a session at /auth/callback.
type AuthHandler struct {
	Store     *store.Store
	Templates *TemplateCache
	Sessions  *Sessions
	Config    *config.Config
}

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := h.Sessions.Session(r)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
		"Next":      sanitizeNext(r.URL.Query().Get("next")),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Session(r)

	email := r.FormValue("email")
	password := r.FormValue("password")
	next := sanitizeNext(r.FormValue("next"))

	user, err := h.Store.GetUserByEmail(email)
	if err != nil {
		slog.Error("User lookup failed during login", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// Same message whether the account is missing or the password is wrong.
	if user == nil || user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid email or password"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.Sessions.SignIn(w, r, user.ID); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful", "user_id", user.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// MagicLink handles the email-only sign-in form. It always responds the same
// way so the form cannot be used to probe which emails exist.
func (h *AuthHandler) MagicLink(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Session(r)
	defer session.Save(r, w)

	email := strings.TrimSpace(r.FormValue("email"))
	next := sanitizeNext(r.FormValue("next"))

	if !isValidEmail(strings.ToLower(email)) {
		session.AddFlash(FlashMessage{Type: "error", Message: "Please enter a valid email address."})
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token := generateToken()
	if err := h.Store.CreateLoginToken(email, token); err != nil {
		slog.Error("Login token creation failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Error generating sign-in link. Please try again."})
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// MOCK EMAIL SENDING
	slog.Info("==========================================")
	slog.Info("📧 EMAIL SENT TO: " + email)
	slog.Info("Subject: Sign in to Sentimental Gifts")
	slog.Info("Magic Link: " + h.Config.BaseURL + "/auth/callback?token=" + token + "&next=" + url.QueryEscape(next))
	slog.Info("==========================================")

	session.AddFlash(FlashMessage{Type: "success", Message: "Check your email for a sign-in link."})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Callback exchanges a magic-link token for a session. First-time emails get
// a user row created on the spot.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Session(r)

	token := r.URL.Query().Get("token")
	next := sanitizeNext(r.URL.Query().Get("next"))

	email, err := h.Store.GetEmailByLoginToken(token)
	if err != nil || email == "" {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid or expired sign-in link. Please request a new one."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.Store.GetUserByEmail(email)
	if err != nil {
		slog.Error("User lookup failed during callback", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "There was an error logging in. Please try again."})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if user == nil {
		id, err := h.Store.CreateUser(email, "", "")
		if err != nil {
			slog.Error("User creation failed during callback", "email", email, "error", err)
			session.AddFlash(FlashMessage{Type: "error", Message: "There was an error logging in. Please try again."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		user, err = h.Store.GetUserByID(id)
		if err != nil || user == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	if err := h.Store.DeleteLoginToken(token); err != nil {
		slog.Warn("Could not invalidate login token", "error", err)
	}

	if err := h.Sessions.SignIn(w, r, user.ID); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Magic link sign-in", "user_id", user.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.SignOut(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sanitizeNext keeps post-login redirects on this site.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

func generateToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "fallback-token-" + strconv.FormatInt(time.Now().Unix(), 10)
	}
	return hex.EncodeToString(b)
}

// Basic email validation regex
var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
