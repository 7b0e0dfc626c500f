package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meeyqueue/case-backend/internal/models"
)

var (
	_ CaseRepository         = (*InMemoryCaseRepository)(nil)
	_ UserRepository         = (*InMemoryUserRepository)(nil)
	_ KioskManagerRepository = (*InMemoryKioskManagerRepository)(nil)
	_ CaseEventRepository    = (*InMemoryCaseEventRepository)(nil)
)

// InMemoryCaseRepository keeps cases in a map. It does not enforce the
// one-open-case-per-user index; the case service pre-check does that.
type InMemoryCaseRepository struct {
	mu    sync.RWMutex
	cases map[uuid.UUID]models.Case
}

func NewInMemoryCaseRepository() *InMemoryCaseRepository {
	return &InMemoryCaseRepository{cases: make(map[uuid.UUID]models.Case)}
}

func (r *InMemoryCaseRepository) Create(_ context.Context, c *models.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, exists := r.cases[c.ID]; exists {
		return fmt.Errorf("create case: %w", ErrDuplicate)
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.cases[c.ID] = *c
	return nil
}

func (r *InMemoryCaseRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, fmt.Errorf("find case %s: %w", id, ErrNotFound)
	}
	return &c, nil
}

func (r *InMemoryCaseRepository) FindOpenByUser(_ context.Context, userID uuid.UUID) (*models.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cases {
		if c.UserID == userID && c.Status == models.CaseStatusOpen {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *InMemoryCaseRepository) FindLatestByLocationAndDay(_ context.Context, location string, dayStart, dayEnd time.Time) (*models.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *models.Case
	for _, c := range r.cases {
		if c.Location != location || c.CreatedAt.Before(dayStart) || !c.CreatedAt.Before(dayEnd) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) ||
			(c.CreatedAt.Equal(latest.CreatedAt) && c.QueueNo > latest.QueueNo) {
			found := c
			latest = &found
		}
	}
	return latest, nil
}

func (r *InMemoryCaseRepository) UpdateByID(_ context.Context, id uuid.UUID, patch models.CasePatch) (*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, fmt.Errorf("update case %s: %w", id, ErrNotFound)
	}
	patch.Apply(&c)
	c.UpdatedAt = time.Now()
	r.cases[id] = c
	return &c, nil
}

func (r *InMemoryCaseRepository) DeleteByID(_ context.Context, id uuid.UUID) (*models.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, fmt.Errorf("delete case %s: %w", id, ErrNotFound)
	}
	delete(r.cases, id)
	return &c, nil
}

func (r *InMemoryCaseRepository) List(_ context.Context, filter CaseFilter) ([]models.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cases := make([]models.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if filter.Location != nil && c.Location != *filter.Location {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		cases = append(cases, c)
	}
	sort.SliceStable(cases, func(i, j int) bool {
		if filter.SortAsc {
			return cases[i].CreatedAt.Before(cases[j].CreatedAt)
		}
		return cases[i].CreatedAt.After(cases[j].CreatedAt)
	})
	if limit := filter.limit(); len(cases) > limit {
		cases = cases[:limit]
	}
	return cases, nil
}

// InMemoryUserRepository keeps users and their phones in maps. The phone
// pair and email are unique, like the Postgres indexes.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *InMemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || samePhone(existing.Phone, u.Phone) {
			return fmt.Errorf("create user: %w", ErrDuplicate)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	if u.Phone != nil {
		if u.Phone.ID == uuid.Nil {
			u.Phone.ID = uuid.New()
		}
		u.Phone.CreatedAt = now
		u.PhoneID = u.Phone.ID
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *InMemoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("find user %s: %w", id, ErrNotFound)
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *InMemoryUserRepository) FindByPhone(_ context.Context, countryCode, number string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := &models.Phone{CountryCode: countryCode, Number: number}
	for _, u := range r.users {
		if samePhone(u.Phone, want) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *InMemoryUserRepository) List(_ context.Context, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *InMemoryUserRepository) DeleteByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	delete(r.users, id)
	return &u, nil
}

// InMemoryKioskManagerRepository keeps kiosk managers in a map.
type InMemoryKioskManagerRepository struct {
	mu       sync.RWMutex
	managers map[uuid.UUID]models.KioskManager
}

func NewInMemoryKioskManagerRepository() *InMemoryKioskManagerRepository {
	return &InMemoryKioskManagerRepository{managers: make(map[uuid.UUID]models.KioskManager)}
}

func (r *InMemoryKioskManagerRepository) Create(_ context.Context, m *models.KioskManager) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.managers {
		if existing.Email == m.Email || sameKioskPhone(existing.KioskPhone, m.KioskPhone) {
			return fmt.Errorf("create kiosk manager: %w", ErrDuplicate)
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	if m.KioskPhone != nil {
		if m.KioskPhone.ID == uuid.Nil {
			m.KioskPhone.ID = uuid.New()
		}
		m.KioskPhone.CreatedAt = now
		m.KioskPhoneID = m.KioskPhone.ID
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	r.managers[m.ID] = cloneKioskManager(*m)
	return nil
}

func (r *InMemoryKioskManagerRepository) FindByID(_ context.Context, id uuid.UUID) (*models.KioskManager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[id]
	if !ok {
		return nil, fmt.Errorf("find kiosk manager %s: %w", id, ErrNotFound)
	}
	m = cloneKioskManager(m)
	return &m, nil
}

func (r *InMemoryKioskManagerRepository) List(_ context.Context, limit int) ([]models.KioskManager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	managers := make([]models.KioskManager, 0, len(r.managers))
	for _, m := range r.managers {
		managers = append(managers, cloneKioskManager(m))
	}
	sort.SliceStable(managers, func(i, j int) bool { return managers[i].CreatedAt.After(managers[j].CreatedAt) })
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	if len(managers) > limit {
		managers = managers[:limit]
	}
	return managers, nil
}

func (r *InMemoryKioskManagerRepository) DeleteByID(_ context.Context, id uuid.UUID) (*models.KioskManager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[id]
	if !ok {
		return nil, fmt.Errorf("delete kiosk manager %s: %w", id, ErrNotFound)
	}
	delete(r.managers, id)
	return &m, nil
}

// InMemoryCaseEventRepository numbers events in insertion order.
type InMemoryCaseEventRepository struct {
	mu     sync.RWMutex
	seq    int64
	events []models.CaseEvent
}

func NewInMemoryCaseEventRepository() *InMemoryCaseEventRepository {
	return &InMemoryCaseEventRepository{}
}

func (r *InMemoryCaseEventRepository) Append(_ context.Context, e *models.CaseEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.seq++
	e.Seq = r.seq
	r.events = append(r.events, *e)
	return nil
}

func (r *InMemoryCaseEventRepository) ListByCase(_ context.Context, caseID uuid.UUID) ([]models.CaseEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]models.CaseEvent, 0)
	for _, e := range r.events {
		if e.CaseID == caseID {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].Seq < events[j].Seq
	})
	return events, nil
}

func samePhone(a, b *models.Phone) bool {
	return a != nil && b != nil && a.CountryCode == b.CountryCode && a.Number == b.Number
}

func sameKioskPhone(a, b *models.KioskPhone) bool {
	return a != nil && b != nil && a.CountryCode == b.CountryCode && a.Number == b.Number
}

func cloneUser(u models.User) models.User {
	if u.Phone != nil {
		p := *u.Phone
		u.Phone = &p
	}
	return u
}

func cloneKioskManager(m models.KioskManager) models.KioskManager {
	if m.KioskPhone != nil {
		p := *m.KioskPhone
		m.KioskPhone = &p
	}
	return m
}
