package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/csproj/cyberlab/internal/cache"
	"golang.org/x/crypto/bcrypt"
)

// loginMu serializes logins; the portal models one interactive session
// per process, the same way the session cache does.
var loginMu sync.Mutex

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

// roleHome maps a role to its landing route.
func roleHome(role string) string {
	if role == "teacher" {
		return "/teacher-home-view"
	}
	return "/student-home"
}

// Login authenticates against the injected stand-in credentials and
// establishes the session by writing the role under the user key. A
// failed login is a 401; the entry screen alerts and reloads, so no
// session state survives it.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	loginMu.Lock()
	defer loginMu.Unlock()

	for _, cred := range h.cfg.Credentials {
		if cred.Username != req.Username {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
			break
		}

		h.cache.Set(cache.KeyUser, cred.Role, h.cfg.HandoffTTL)
		h.setCurrentUser(cred.UserID)
		slog.Info("Login succeeded", "username", cred.Username, "role", cred.Role)
		JSON(w, http.StatusOK, loginResponse{Role: cred.Role, Redirect: roleHome(cred.Role)})
		return
	}

	slog.Warn("Login failed", "username", req.Username)
	Error(w, http.StatusUnauthorized, "incorrect username or password")
}

// Logout drops the whole session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cache.Reset()
	h.setCurrentUser("")
	JSON(w, http.StatusOK, map[string]string{"redirect": EntryRoute})
}
