package httpapi

import (
	"net/http"

	"civicconnect/internal/service"

	"go.uber.org/zap"
)

// CitizenHandler serves the citizen dashboard and complaint intake.
type CitizenHandler struct {
	complaints service.ComplaintService
	bulletins  service.BulletinService
	session    *Auth
	maxUpload  int64
	logger     *zap.Logger
}

func NewCitizenHandler(complaints service.ComplaintService, bulletins service.BulletinService, session *Auth, maxUpload int64, logger *zap.Logger) *CitizenHandler {
	return &CitizenHandler{
		complaints: complaints,
		bulletins:  bulletins,
		session:    session,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

// Dashboard returns the citizen's complaints and their ward's bulletin
// board. Status changes must show up on the next refresh, hence the
// no-store header.
func (h *CitizenHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user.IsWardAdmin() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		return
	}

	complaints, err := h.complaints.ListForCitizen(r.Context(), user)
	if err != nil {
		logError(h.logger, "Failed to list citizen complaints", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	announcements, err := h.bulletins.ListAnnouncements(r.Context(), user)
	if err != nil && err != service.ErrForbidden {
		logError(h.logger, "Failed to list announcements", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	projects, err := h.bulletins.ListProjects(r.Context(), user)
	if err != nil && err != service.ErrForbidden {
		logError(h.logger, "Failed to list projects", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          newUserView(user),
		"view":          r.URL.Query().Get("view"),
		"complaints":    complaints,
		"announcements": announcements,
		"projects":      projectViews(projects),
		"flashes":       h.session.PopFlashes(w, r),
	})
}

// SubmitComplaint takes the multipart complaint form and lands the
// citizen on their tracking view.
func (h *CitizenHandler) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.session.Flash(w, r, "error", "Upload too large or malformed")
		http.Redirect(w, r, "/citizen/dashboard?view=submit", http.StatusFound)
		return
	}

	req := service.SubmitComplaintRequest{
		Citizen:     user,
		Category:    r.PostFormValue("category"),
		Description: r.PostFormValue("description"),
	}
	if r.MultipartForm != nil {
		req.Attachments = r.MultipartForm.File["attachments"]
	}

	if _, err := h.complaints.Submit(r.Context(), req); err != nil {
		switch err {
		case service.ErrValidation:
			h.session.Flash(w, r, "error", "Category and description are required")
		case service.ErrForbidden:
			h.session.Flash(w, r, "error", "Not allowed")
		default:
			logError(h.logger, "Failed to submit complaint", err, zap.Int64("user_id", user.ID))
			h.session.Flash(w, r, "error", "Failed to submit complaint")
		}
		http.Redirect(w, r, "/citizen/dashboard?view=submit", http.StatusFound)
		return
	}

	h.session.Flash(w, r, "success", "Complaint submitted successfully")
	http.Redirect(w, r, "/citizen/dashboard?view=track", http.StatusFound)
}
