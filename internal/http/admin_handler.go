package httpapi

import (
	"net/http"
	"strconv"

	"civicconnect/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the ward-admin dashboard and complaint triage.
type AdminHandler struct {
	complaints service.ComplaintService
	bulletins  service.BulletinService
	session    *Auth
	maxUpload  int64
	logger     *zap.Logger
}

func NewAdminHandler(complaints service.ComplaintService, bulletins service.BulletinService, session *Auth, maxUpload int64, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		complaints: complaints,
		bulletins:  bulletins,
		session:    session,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

// Dashboard returns the ward's complaints, the unviewed badge count,
// and the bulletin board. Opening view=complaints clears the badge.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if !user.IsWardAdmin() {
		http.Redirect(w, r, "/citizen/dashboard", http.StatusFound)
		return
	}
	view := r.URL.Query().Get("view")

	list, err := h.complaints.ListForAdmin(r.Context(), user, view)
	if err != nil {
		logError(h.logger, "Failed to load admin dashboard", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	announcements, err := h.bulletins.ListAnnouncements(r.Context(), user)
	if err != nil {
		logError(h.logger, "Failed to list announcements", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	projects, err := h.bulletins.ListProjects(r.Context(), user)
	if err != nil {
		logError(h.logger, "Failed to list projects", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]any{
		"user":           newUserView(user),
		"view":           view,
		"complaints":     list.Complaints,
		"unviewed_count": list.UnviewedCount,
		"announcements":  announcements,
		"projects":       projectViews(projects),
		"flashes":        h.session.PopFlashes(w, r),
	})
}

func complaintID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *AdminHandler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	id, ok := complaintID(r)
	if !ok {
		h.session.Flash(w, r, "error", "Complaint not found")
		http.Redirect(w, r, "/admin/dashboard?view=complaints", http.StatusFound)
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.session.Flash(w, r, "error", "Upload too large or malformed")
		http.Redirect(w, r, "/admin/dashboard?view=complaints", http.StatusFound)
		return
	}
	req := service.UpdateComplaintRequest{
		ComplaintID: id,
		Status:      r.PostFormValue("status"),
	}
	if r.MultipartForm != nil {
		req.WorkPhotos = r.MultipartForm.File["work_photos"]
	}

	switch err := h.complaints.Update(r.Context(), user, req); err {
	case nil:
		h.session.Flash(w, r, "success", "Complaint updated")
	case service.ErrNotFound:
		h.session.Flash(w, r, "error", "Complaint not found")
	case service.ErrForbidden:
		h.session.Flash(w, r, "error", "Not allowed")
	default:
		logError(h.logger, "Failed to update complaint", err,
			zap.Int64("complaint_id", id), zap.Int64("user_id", user.ID))
		h.session.Flash(w, r, "error", "Failed to update complaint")
	}
	http.Redirect(w, r, "/admin/dashboard?view=complaints", http.StatusFound)
}

// RemoveComplaint deletes a complaint. XHR callers get JSON; plain
// form posts get the usual flash and redirect.
func (h *AdminHandler) RemoveComplaint(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	id, ok := complaintID(r)
	if !ok {
		h.removeResult(w, r, http.StatusNotFound, "Complaint not found")
		return
	}

	switch err := h.complaints.Remove(r.Context(), user, id); err {
	case nil:
		if isXHR(r) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}
		h.session.Flash(w, r, "success", "Complaint removed")
		http.Redirect(w, r, "/admin/dashboard?view=complaints", http.StatusFound)
	case service.ErrNotFound:
		h.removeResult(w, r, http.StatusNotFound, "Complaint not found")
	case service.ErrForbidden:
		h.removeResult(w, r, http.StatusForbidden, "Not allowed")
	default:
		logError(h.logger, "Failed to remove complaint", err,
			zap.Int64("complaint_id", id), zap.Int64("user_id", user.ID))
		h.removeResult(w, r, http.StatusInternalServerError, "Failed to remove complaint")
	}
}

func (h *AdminHandler) removeResult(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if isXHR(r) {
		writeError(w, status, msg)
		return
	}
	h.session.Flash(w, r, "error", msg)
	http.Redirect(w, r, "/admin/dashboard?view=complaints", http.StatusFound)
}

func (h *AdminHandler) PostAnnouncement(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	defer http.Redirect(w, r, "/admin/dashboard", http.StatusFound)

	if err := r.ParseForm(); err != nil {
		h.session.Flash(w, r, "error", "Invalid form submission")
		return
	}
	_, err := h.bulletins.PostAnnouncement(r.Context(), user, service.PostAnnouncementRequest{
		Title:    r.PostFormValue("title"),
		Message:  r.PostFormValue("message"),
		Priority: r.PostFormValue("priority"),
	})
	switch err {
	case nil:
		h.session.Flash(w, r, "success", "Announcement posted")
	case service.ErrValidation:
		h.session.Flash(w, r, "error", "Title and message are required")
	case service.ErrForbidden:
		h.session.Flash(w, r, "error", "Not allowed")
	default:
		logError(h.logger, "Failed to post announcement", err, zap.Int64("user_id", user.ID))
		h.session.Flash(w, r, "error", "Failed to post announcement")
	}
}

func (h *AdminHandler) AddProject(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	defer http.Redirect(w, r, "/admin/dashboard", http.StatusFound)

	if err := r.ParseForm(); err != nil {
		h.session.Flash(w, r, "error", "Invalid form submission")
		return
	}
	_, err := h.bulletins.AddProject(r.Context(), user, service.AddProjectRequest{
		Title:          r.PostFormValue("title"),
		ContractorName: r.PostFormValue("contractor_name"),
		Budget:         r.PostFormValue("budget"),
		Deadline:       r.PostFormValue("deadline"),
		Status:         r.PostFormValue("status"),
		Progress:       r.PostFormValue("progress_percentage"),
	})
	switch err {
	case nil:
		h.session.Flash(w, r, "success", "Project added")
	case service.ErrValidation:
		h.session.Flash(w, r, "error", "Invalid project details")
	case service.ErrForbidden:
		h.session.Flash(w, r, "error", "Not allowed")
	default:
		logError(h.logger, "Failed to add project", err, zap.Int64("user_id", user.ID))
		h.session.Flash(w, r, "error", "Failed to add project")
	}
}
