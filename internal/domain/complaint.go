package domain

import "time"

// Complaint lifecycle states. There is no terminal state: Completed
// complaints remain editable and deletable by the ward admin.
const (
	StatusReviewing = "Reviewing"
	StatusInProcess = "In Process"
	StatusCompleted = "Completed"
)

// ValidStatus reports whether s is one of the three lifecycle states.
// Anything else is silently dropped by the update path.
func ValidStatus(s string) bool {
	switch s {
	case StatusReviewing, StatusInProcess, StatusCompleted:
		return true
	}
	return false
}

// Complaint is a citizen-filed service request. WardID is copied from
// the submitting user at creation time and never re-derived.
type Complaint struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	WardID      int64  `json:"ward_id" db:"ward_id"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description" db:"description"`
	// Attachments and WorkPhotos are ordered blob references relative
	// to the upload root, e.g. "complaints/3f2a….jpg".
	Attachments   []string  `json:"attachments" db:"attachments"`
	WorkPhotos    []string  `json:"work_photos" db:"work_photos"`
	Status        string    `json:"status" db:"status"`
	ViewedByAdmin bool      `json:"viewed_by_admin" db:"viewed_by_admin"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	// CitizenName is joined in for admin listings; not a column.
	CitizenName string `json:"citizen_name,omitempty" db:"-"`
}
