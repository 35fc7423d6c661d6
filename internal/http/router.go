package httpapi

import (
	"net/http"

	"civicconnect/internal/blob"
	"civicconnect/internal/repository"
	"civicconnect/internal/service"
	"civicconnect/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig carries everything the handlers need.
type RouterConfig struct {
	Sessions  *session.Store
	Users     repository.UsersRepo
	Auth      service.AuthService
	Provision service.ProvisionService
	Complaint service.ComplaintService
	Bulletin  service.BulletinService
	Blobs     *blob.LocalStore
	MaxUpload int64
	Logger    *zap.Logger
}

// NewRouter wires the full HTTP surface.
func NewRouter(cfg RouterConfig) http.Handler {
	auth := NewAuth(cfg.Sessions, cfg.Users, cfg.Logger)
	authHandler := NewAuthHandler(cfg.Auth, auth, cfg.Logger)
	govHandler := NewGovHandler(cfg.Provision, auth, cfg.Logger)
	citizenHandler := NewCitizenHandler(cfg.Complaint, cfg.Bulletin, auth, cfg.MaxUpload, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Complaint, cfg.Bulletin, auth, cfg.MaxUpload, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/login", http.StatusFound)
	})
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)

	// Legacy provisioning entry point, kept as a redirect.
	r.Get("/gov/create", govHandler.CreateRedirect)
	r.Route("/gov/secure", func(r chi.Router) {
		r.Use(auth.RequireGovernment)
		r.Get("/appoint-admin", govHandler.AppointPage)
		r.Post("/appoint-admin", govHandler.Appoint)
		r.Get("/success", govHandler.Success)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/citizen/dashboard", citizenHandler.Dashboard)
		r.Post("/submit-complaint", citizenHandler.SubmitComplaint)

		r.Get("/admin/dashboard", adminHandler.Dashboard)
		r.Post("/admin/complaint/{id}/update", adminHandler.UpdateComplaint)
		r.Post("/admin/complaint/{id}/remove", adminHandler.RemoveComplaint)
		r.Get("/admin/complaints/export", adminHandler.ExportComplaints)
		r.Post("/post-announcement", adminHandler.PostAnnouncement)
		r.Post("/add-project", adminHandler.AddProject)
	})

	// http.Dir refuses path traversal; references are relative paths
	// like "complaints/<name>.jpg".
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Blobs.Root())))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}
