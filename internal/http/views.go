package httpapi

import (
	"civicconnect/internal/domain"
)

// projectView flattens the nullable columns for JSON output.
type projectView struct {
	ID                 int64    `json:"id"`
	WardID             int64    `json:"ward_id"`
	Title              string   `json:"title"`
	ContractorName     string   `json:"contractor_name"`
	Budget             *float64 `json:"budget"`
	Deadline           *string  `json:"deadline"`
	Status             string   `json:"status"`
	ProgressPercentage int      `json:"progress_percentage"`
}

func newProjectView(p domain.Project) projectView {
	v := projectView{
		ID:                 p.ID,
		WardID:             p.WardID,
		Title:              p.Title,
		ContractorName:     p.ContractorName,
		Status:             p.Status,
		ProgressPercentage: p.ProgressPercentage,
	}
	if p.Budget.Valid {
		b := p.Budget.Float64
		v.Budget = &b
	}
	if p.Deadline.Valid {
		d := p.Deadline.Time.Format("2006-01-02")
		v.Deadline = &d
	}
	return v
}

func projectViews(projects []domain.Project) []projectView {
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, newProjectView(p))
	}
	return out
}

// userView is the session owner as shown on dashboards.
type userView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	WardID *int64 `json:"ward_id"`
}

func newUserView(u *domain.User) userView {
	v := userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	if u.WardID.Valid {
		id := u.WardID.Int64
		v.WardID = &id
	}
	return v
}
