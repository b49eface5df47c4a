package www

import (
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"fleetdispatch/store"
)

const sessionName = "fleetdispatch-session"

func newSessionStore(secret string) *sessions.CookieStore {
	if secret == "" {
		secret = "fleetdispatch-default-secret-change-me"
	}
	s := sessions.NewCookieStore([]byte(secret))
	s.Options.HttpOnly = true
	s.Options.Secure = false // plain HTTP behind the depot LAN
	s.Options.SameSite = http.SameSiteLaxMode
	return s
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *Handlers) isAuthenticated(r *http.Request) bool {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		return false
	}
	auth, ok := session.Values["authenticated"].(bool)
	return ok && auth
}

func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.isAuthenticated(r) {
			h.jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) getUsername(r *http.Request) string {
	session, err := h.sessions.Get(r, sessionName)
	if err != nil {
		return ""
	}
	username, _ := session.Values["username"].(string)
	return username
}

func (h *Handlers) ensureDefaultAdmin(db *store.DB) {
	exists, err := db.AdminUserExists()
	if err != nil || exists {
		return
	}
	hash, err := hashPassword("admin")
	if err != nil {
		return
	}
	db.CreateAdminUser("admin", hash)
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.engine.DB().GetAdminUser(req.Username)
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		h.jsonError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["username"] = req.Username
	if err := session.Save(r, w); err != nil {
		h.jsonError(w, "session error", http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, map[string]string{"status": "ok"})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = false
	session.Values["username"] = ""
	session.Save(r, w)
	h.jsonOK(w, map[string]string{"status": "ok"})
}
