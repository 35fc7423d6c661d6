package httpapi

import (
	"net/http"

	"civicconnect/internal/domain"
	"civicconnect/internal/service"

	"go.uber.org/zap"
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	auth    service.AuthService
	session *Auth
	logger  *zap.Logger
}

func NewAuthHandler(auth service.AuthService, session *Auth, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, session: session, logger: logger}
}

// LoginPage is a JSON probe of the session: whether someone is signed
// in, their role, and any pending flash messages.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	flashes := h.session.PopFlashes(w, r)
	resp := map[string]any{
		"authenticated": false,
		"flashes":       flashes,
	}
	if user := h.session.CurrentUser(r); user != nil {
		resp["authenticated"] = true
		resp["role"] = user.Role
		resp["name"] = user.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.session.Flash(w, r, "error", "Invalid Login")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.auth.Login(r.Context(), service.LoginRequest{
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if err != service.ErrInvalidCredentials {
			logError(h.logger, "Login failed", err)
		}
		h.session.Flash(w, r, "error", "Invalid Login")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.session.SignIn(w, r, user); err != nil {
		logError(h.logger, "Failed to establish session", err, zap.Int64("user_id", user.ID))
		h.session.Flash(w, r, "error", "Invalid Login")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, dashboardPath(user), http.StatusFound)
}

func dashboardPath(user *domain.User) string {
	switch {
	case user.IsGovernment():
		return "/gov/secure/appoint-admin"
	case user.IsWardAdmin():
		return "/admin/dashboard"
	default:
		return "/citizen/dashboard"
	}
}

// Register creates a citizen account. Every outcome flashes a message
// and lands back on /login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/login", http.StatusFound)

	if err := r.ParseForm(); err != nil {
		h.session.Flash(w, r, "error", "Registration failed")
		return
	}

	_, err := h.auth.RegisterCitizen(r.Context(), service.RegisterRequest{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		WardNumber: r.PostFormValue("ward_number"),
		WardCode:   r.PostFormValue("ward_code"),
		Address:    r.PostFormValue("address"),
		Phone:      r.PostFormValue("phone"),
	})
	switch err {
	case nil:
		h.session.Flash(w, r, "success", "Registration successful! Please log in.")
	case service.ErrInvalidWard:
		h.session.Flash(w, r, "error", "Invalid ward number")
	case service.ErrInvalidWardCode:
		h.session.Flash(w, r, "error", "Invalid ward code")
	case service.ErrDuplicateEmail:
		h.session.Flash(w, r, "error", "Email already registered")
	case service.ErrValidation:
		h.session.Flash(w, r, "error", "All fields are required")
	default:
		logError(h.logger, "Registration failed", err)
		h.session.Flash(w, r, "error", "Registration failed")
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(w, r); err != nil {
		logError(h.logger, "Failed to destroy session", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
