package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Repository used by tests and the CLI dry runs.
type Memory struct {
	mu           sync.Mutex
	users        map[string]User
	calculations []Calculation
	profiles     map[string]Profile
	institutions []Institution

	// Err, when set, is returned by every call.
	Err error
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]User),
		profiles: make(map[string]Profile),
		now:      time.Now,
	}
}

// SetClock overrides the time source used for created_at stamps.
func (m *Memory) SetClock(now func() time.Time) { m.now = now }

func (m *Memory) CreateUser(_ context.Context, email, passwordHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return "", ErrConflict
		}
	}
	id := uuid.NewString()
	m.users[id] = User{ID: id, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return User{}, m.Err
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *Memory) InsertCalculation(_ context.Context, c Calculation) (Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Calculation{}, m.Err
	}
	c.ID = uuid.NewString()
	c.CreatedAt = m.now()
	m.calculations = append(m.calculations, c)
	return c, nil
}

func (m *Memory) ListCalculations(_ context.Context, userID string, f CalculationFilter) ([]Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []Calculation
	for _, c := range m.calculations {
		if c.UserID != userID {
			continue
		}
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if !f.From.IsZero() && c.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !c.CreatedAt.Before(f.To) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) DeleteCalculation(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i, c := range m.calculations {
		if c.ID == id && c.UserID == userID {
			m.calculations = append(m.calculations[:i], m.calculations[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) ClearCalculations(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.calculations[:0]
	for _, c := range m.calculations {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	m.calculations = kept
	return nil
}

func (m *Memory) GetProfile(_ context.Context, id string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Profile{}, m.Err
	}
	p, ok := m.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) InsertProfile(_ context.Context, id string) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Profile{}, m.Err
	}
	if _, ok := m.profiles[id]; ok {
		return Profile{}, ErrConflict
	}
	now := m.now()
	p := Profile{ID: id, CreatedAt: now, UpdatedAt: now}
	m.profiles[id] = p
	return p, nil
}

func (m *Memory) UpsertProfile(_ context.Context, p Profile) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Profile{}, m.Err
	}
	prev, ok := m.profiles[p.ID]
	if ok {
		p.CreatedAt = prev.CreatedAt
		p.AvatarURL = prev.AvatarURL
	} else {
		p.CreatedAt = m.now()
	}
	p.Institution = nil
	if p.InstitutionID != nil {
		for _, inst := range m.institutions {
			if inst.ID == *p.InstitutionID {
				name := inst.Name
				p.Institution = &name
			}
		}
		if p.Institution == nil {
			return Profile{}, ErrBadReference
		}
	}
	p.UpdatedAt = m.now()
	m.profiles[p.ID] = p
	return p, nil
}

func (m *Memory) UpdateAvatar(_ context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.AvatarURL = &url
	m.profiles[id] = p
	return nil
}

func (m *Memory) ListInstitutions(_ context.Context) ([]Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]Institution(nil), m.institutions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) GetInstitution(_ context.Context, id string) (Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Institution{}, m.Err
	}
	for _, inst := range m.institutions {
		if inst.ID == id {
			return inst, nil
		}
	}
	return Institution{}, ErrNotFound
}

func (m *Memory) UpsertInstitutions(_ context.Context, rows []Institution) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	for _, row := range rows {
		merged := false
		for i := range m.institutions {
			if m.institutions[i].Name == row.Name {
				m.institutions[i].Category = row.Category
				if row.State != nil {
					m.institutions[i].State = row.State
				}
				merged = true
			}
		}
		if !merged {
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			m.institutions = append(m.institutions, row)
		}
	}
	return len(rows), nil
}
