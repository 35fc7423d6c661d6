package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"civicconnect/internal/domain"
	"civicconnect/internal/repository"
	"civicconnect/internal/session"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// SessionName is the cookie name shared by every handler.
const SessionName = "civicconnect_session"

type ctxKey int

const userContextKey ctxKey = 0

// UserFrom returns the authenticated user placed in the context by
// RequireUser, or nil.
func UserFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey).(*domain.User)
	return u
}

// Auth resolves the session cookie to a user and owns sign-in,
// sign-out and flash messages.
type Auth struct {
	sessions *session.Store
	users    repository.UsersRepo
	logger   *zap.Logger
}

func NewAuth(sessions *session.Store, users repository.UsersRepo, logger *zap.Logger) *Auth {
	return &Auth{sessions: sessions, users: users, logger: logger}
}

func (a *Auth) Session(r *http.Request) *sessions.Session {
	sess, _ := a.sessions.Get(r, SessionName)
	return sess
}

func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	sess := a.Session(r)
	// JSON sessions keep the ID as a string to avoid float64 round-trips.
	sess.Values["user_id"] = strconv.FormatInt(user.ID, 10)
	return sess.Save(r, w)
}

func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := a.Session(r)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CurrentUser loads the user referenced by the session, or nil when
// the session is anonymous or stale.
func (a *Auth) CurrentUser(r *http.Request) *domain.User {
	sess := a.Session(r)
	raw, ok := sess.Values["user_id"].(string)
	if !ok {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	user, err := a.users.GetUser(r.Context(), id)
	if err != nil {
		if err != repository.ErrNotFound {
			a.logger.Error("Failed to load session user", zap.Int64("user_id", id), zap.Error(err))
		}
		return nil
	}
	return user
}

// Flash queues a one-shot message for the next page load.
func (a *Auth) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess := a.Session(r)
	sess.AddFlash(category + "|" + message)
	if err := sess.Save(r, w); err != nil {
		a.logger.Error("Failed to save flash", zap.Error(err))
	}
}

// PopFlashes drains pending flashes, consuming them.
func (a *Auth) PopFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	sess := a.Session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return []flashMessage{}
	}
	if err := sess.Save(r, w); err != nil {
		a.logger.Error("Failed to save session after flash drain", zap.Error(err))
	}
	out := make([]flashMessage, 0, len(raw))
	for _, v := range raw {
		if f, ok := parseFlash(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// RequireUser redirects anonymous requests to /login and stores the
// user in the request context for downstream handlers.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := a.CurrentUser(r)
		if user == nil {
			a.Flash(w, r, "warning", "Please log in to continue")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// RequireGovernment additionally gates on the government role. Ward
// provisioning is never reachable without it.
func (a *Auth) RequireGovernment(next http.Handler) http.Handler {
	return a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if !user.IsGovernment() {
			a.logger.Warn("Provisioning access denied",
				zap.Int64("user_id", user.ID),
				zap.String("role", user.Role),
				zap.String("ip_address", clientIP(r)),
			)
			a.Flash(w, r, "error", "Not authorized")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("ip_address", clientIP(r)),
			)
		})
	}
}
