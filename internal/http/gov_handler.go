package httpapi

import (
	"encoding/json"
	"net/http"

	"civicconnect/internal/service"

	"go.uber.org/zap"
)

const govSuccessKey = "gov_success"

// GovHandler serves the government provisioning flow. Every route is
// behind RequireGovernment; the legacy /gov/create path only forwards.
type GovHandler struct {
	provision service.ProvisionService
	session   *Auth
	logger    *zap.Logger
}

func NewGovHandler(provision service.ProvisionService, session *Auth, logger *zap.Logger) *GovHandler {
	return &GovHandler{provision: provision, session: session, logger: logger}
}

// CreateRedirect keeps the old entry path alive.
func (h *GovHandler) CreateRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/gov/secure/appoint-admin", http.StatusFound)
}

func (h *GovHandler) AppointPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"flashes": h.session.PopFlashes(w, r),
	})
}

type appointSuccess struct {
	WardNumber string `json:"ward_number"`
	WardCode   string `json:"ward_code"`
	AdminEmail string `json:"admin_email"`
}

func (h *GovHandler) Appoint(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.session.Flash(w, r, "error", "Invalid form submission")
		http.Redirect(w, r, "/gov/secure/appoint-admin", http.StatusFound)
		return
	}

	result, err := h.provision.AppointWardAdmin(r.Context(), service.AppointRequest{
		WardNumber:    r.PostFormValue("ward_number"),
		AdminName:     r.PostFormValue("admin_name"),
		AdminEmail:    r.PostFormValue("admin_email"),
		AdminPassword: r.PostFormValue("admin_password"),
	})
	if err != nil {
		switch err {
		case service.ErrValidation:
			h.session.Flash(w, r, "error", "All fields are required")
		case service.ErrDuplicateEmail:
			h.session.Flash(w, r, "error", "Email already registered")
		default:
			// Internal detail stays out of the response.
			logError(h.logger, "Ward provisioning failed", err)
			h.session.Flash(w, r, "error", "Provisioning failed")
		}
		http.Redirect(w, r, "/gov/secure/appoint-admin", http.StatusFound)
		return
	}

	payload, err := json.Marshal(appointSuccess{
		WardNumber: result.Ward.WardNumber,
		WardCode:   result.Ward.WardCode,
		AdminEmail: result.Admin.Email,
	})
	if err != nil {
		logError(h.logger, "Failed to encode provisioning result", err)
		http.Redirect(w, r, "/gov/secure/appoint-admin", http.StatusFound)
		return
	}
	sess := h.session.Session(r)
	sess.Values[govSuccessKey] = string(payload)
	if err := sess.Save(r, w); err != nil {
		logError(h.logger, "Failed to save provisioning result", err)
	}
	http.Redirect(w, r, "/gov/secure/success", http.StatusFound)
}

// Success reveals the generated ward code exactly once. A refresh, or
// a direct visit with nothing pending, lands back on the form.
func (h *GovHandler) Success(w http.ResponseWriter, r *http.Request) {
	sess := h.session.Session(r)
	raw, ok := sess.Values[govSuccessKey].(string)
	if !ok {
		http.Redirect(w, r, "/gov/secure/appoint-admin", http.StatusFound)
		return
	}
	delete(sess.Values, govSuccessKey)
	if err := sess.Save(r, w); err != nil {
		logError(h.logger, "Failed to clear provisioning result", err)
	}

	var result appointSuccess
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logError(h.logger, "Corrupt provisioning result in session", err)
		http.Redirect(w, r, "/gov/secure/appoint-admin", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
