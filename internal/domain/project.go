package domain

import "database/sql"

// Project is a ward-scoped public-works record maintained by admins.
type Project struct {
	ID                 int64           `json:"id" db:"id"`
	WardID             int64           `json:"ward_id" db:"ward_id"`
	Title              string          `json:"title" db:"title"`
	ContractorName     string          `json:"contractor_name" db:"contractor_name"`
	Budget             sql.NullFloat64 `json:"budget" db:"budget"`
	Deadline           sql.NullTime    `json:"deadline" db:"deadline"`
	Status             string          `json:"status" db:"status"`
	ProgressPercentage int             `json:"progress_percentage" db:"progress_percentage"`
}
