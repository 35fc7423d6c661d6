package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"civicconnect/internal/domain"
)

// MemoryStore backs all repositories when the DB is disabled and in
// unit tests. One mutex guards everything; the handful of portal
// tables does not need finer locking.
type MemoryStore struct {
	mu           sync.RWMutex
	nextWardID   int64
	nextUserID   int64
	nextCmplID   int64
	nextAnncID   int64
	nextProjID   int64
	wards        map[int64]domain.Ward
	users        map[int64]domain.User
	complaints   map[int64]domain.Complaint
	announcement map[int64]domain.Announcement
	projects     map[int64]domain.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wards:        map[int64]domain.Ward{},
		users:        map[int64]domain.User{},
		complaints:   map[int64]domain.Complaint{},
		announcement: map[int64]domain.Announcement{},
		projects:     map[int64]domain.Project{},
	}
}

var (
	_ WardsRepo         = (*MemoryStore)(nil)
	_ UsersRepo         = (*MemoryStore)(nil)
	_ ComplaintsRepo    = (*MemoryStore)(nil)
	_ AnnouncementsRepo = (*MemoryStore)(nil)
	_ ProjectsRepo      = (*MemoryStore)(nil)
)

// --- wards ---

func (m *MemoryStore) GetWard(_ context.Context, id int64) (*domain.Ward, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (m *MemoryStore) GetWardByNumber(_ context.Context, wardNumber string) (*domain.Ward, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wards {
		if w.WardNumber == wardNumber {
			w := w
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ProvisionWardAdmin(_ context.Context, wardNumber, candidateCode string, admin *domain.User) (*domain.Ward, *domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Email check comes first: a failed provisioning must leave the
	// wards untouched, like the rolled-back transaction does.
	for _, u := range m.users {
		if u.Email == admin.Email {
			return nil, nil, ErrDuplicateEmail
		}
	}

	var ward *domain.Ward
	for id, w := range m.wards {
		if w.WardNumber == wardNumber {
			if w.WardCode == "" {
				w.WardCode = candidateCode
				m.wards[id] = w
			}
			w := w
			ward = &w
			break
		}
	}
	if ward == nil {
		m.nextWardID++
		w := domain.Ward{ID: m.nextWardID, WardNumber: wardNumber, WardCode: candidateCode}
		m.wards[w.ID] = w
		ward = &w
	}

	m.nextUserID++
	created := *admin
	created.ID = m.nextUserID
	created.Role = domain.RoleWardAdmin
	created.WardID = sql.NullInt64{Int64: ward.ID, Valid: true}
	created.CreatedAt = time.Now()
	m.users[created.ID] = created

	return ward, &created, nil
}

// --- users ---

func (m *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateUser(_ context.Context, user *domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return 0, ErrDuplicateEmail
		}
	}
	m.nextUserID++
	created := *user
	created.ID = m.nextUserID
	if created.Role == "" {
		created.Role = domain.RoleCitizen
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	m.users[created.ID] = created
	return created.ID, nil
}

// --- complaints ---

func (m *MemoryStore) CreateComplaint(_ context.Context, c *domain.Complaint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCmplID++
	created := *c
	created.ID = m.nextCmplID
	if created.Status == "" {
		created.Status = domain.StatusReviewing
	}
	if created.Attachments == nil {
		created.Attachments = []string{}
	}
	if created.WorkPhotos == nil {
		created.WorkPhotos = []string{}
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	m.complaints[created.ID] = created
	return created.ID, nil
}

func (m *MemoryStore) getComplaint(id int64) (domain.Complaint, bool) {
	c, ok := m.complaints[id]
	if ok {
		if u, found := m.users[c.UserID]; found {
			c.CitizenName = u.Name
		}
	}
	return c, ok
}

func (m *MemoryStore) GetComplaint(_ context.Context, id int64) (*domain.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.getComplaint(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) listComplaints(match func(domain.Complaint) bool) []domain.Complaint {
	out := []domain.Complaint{}
	for id := range m.complaints {
		c, _ := m.getComplaint(id)
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *MemoryStore) ListComplaintsByUser(_ context.Context, userID int64) ([]domain.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listComplaints(func(c domain.Complaint) bool { return c.UserID == userID }), nil
}

func (m *MemoryStore) ListComplaintsByWard(_ context.Context, wardID int64) ([]domain.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listComplaints(func(c domain.Complaint) bool { return c.WardID == wardID }), nil
}

func (m *MemoryStore) CountUnviewed(_ context.Context, wardID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.complaints {
		if c.WardID == wardID && !c.ViewedByAdmin {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) MarkAllViewed(_ context.Context, wardID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.complaints {
		if c.WardID == wardID && !c.ViewedByAdmin {
			c.ViewedByAdmin = true
			m.complaints[id] = c
		}
	}
	return nil
}

func (m *MemoryStore) UpdateComplaint(_ context.Context, id int64, status string, photos []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return ErrNotFound
	}
	if status != "" {
		c.Status = status
	}
	if len(photos) > 0 {
		c.WorkPhotos = append(append([]string{}, c.WorkPhotos...), photos...)
	}
	m.complaints[id] = c
	return nil
}

func (m *MemoryStore) DeleteComplaint(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.complaints[id]; !ok {
		return ErrNotFound
	}
	delete(m.complaints, id)
	return nil
}

// --- announcements ---

func (m *MemoryStore) CreateAnnouncement(_ context.Context, a *domain.Announcement) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAnncID++
	created := *a
	created.ID = m.nextAnncID
	if created.Priority == "" {
		created.Priority = "normal"
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	m.announcement[created.ID] = created
	return created.ID, nil
}

func (m *MemoryStore) ListAnnouncementsByWard(_ context.Context, wardID int64) ([]domain.Announcement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Announcement{}
	for _, a := range m.announcement {
		if a.WardID == wardID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// --- projects ---

func (m *MemoryStore) CreateProject(_ context.Context, p *domain.Project) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProjID++
	created := *p
	created.ID = m.nextProjID
	if created.Status == "" {
		created.Status = "Started"
	}
	m.projects[created.ID] = created
	return created.ID, nil
}

func (m *MemoryStore) ListProjectsByWard(_ context.Context, wardID int64) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Project{}
	for _, p := range m.projects {
		if p.WardID == wardID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
