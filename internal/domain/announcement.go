package domain

import "time"

// Announcement is a ward-scoped broadcast written by a ward admin and
// listed read-only for citizens. No lifecycle beyond create.
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	WardID    int64     `json:"ward_id" db:"ward_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Priority  string    `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
