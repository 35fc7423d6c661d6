package domain

// Ward is an administrative district and the tenancy boundary for all
// data isolation: users, complaints, announcements and projects all
// carry a ward reference and are never visible across wards.
type Ward struct {
	ID         int64  `json:"id" db:"id"`
	WardNumber string `json:"ward_number" db:"ward_number"`
	// WardCode is the shared registration secret. Empty on legacy rows
	// until provisioning backfills it.
	WardCode string `json:"ward_code,omitempty" db:"ward_code"`
}
