package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/atlas-sports/site-api/internal/models"
	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

type mockProgramRepo struct {
	programs    map[string]*models.Program
	order       []string
	listErr     error
	createErr   error
	updateErr   error
	countErr    error
	failOrderAt int
	orderWrites []string
	listCalls   int
	created     *models.Program
}

func newMockProgramRepo(programs ...models.Program) *mockProgramRepo {
	m := &mockProgramRepo{programs: map[string]*models.Program{}}
	for i := range programs {
		p := programs[i]
		m.programs[p.ID] = &p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *mockProgramRepo) List(ctx context.Context, publishedOnly bool) ([]models.Program, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Program
	for _, id := range m.order {
		p := m.programs[id]
		if publishedOnly && !p.IsPublished {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProgramRepo) OrderedIDs(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]string(nil), m.order...), nil
}

func (m *mockProgramRepo) GetByID(ctx context.Context, id string) (*models.Program, error) {
	p, ok := m.programs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockProgramRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Program, error) {
	for _, p := range m.programs {
		if p.Slug == slug && p.IsPublished {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgramRepo) Count(ctx context.Context) (int, error) {
	return len(m.programs), m.countErr
}

func (m *mockProgramRepo) Create(ctx context.Context, program *models.Program) error {
	if m.createErr != nil {
		return m.createErr
	}
	if program.ID == "" {
		program.ID = "new-program"
	}
	m.created = program
	m.programs[program.ID] = program
	m.order = append(m.order, program.ID)
	return nil
}

func (m *mockProgramRepo) Update(ctx context.Context, program *models.Program) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.programs[program.ID]; !ok {
		return sql.ErrNoRows
	}
	m.programs[program.ID] = program
	return nil
}

func (m *mockProgramRepo) UpdateDisplayOrder(ctx context.Context, id string, order int) error {
	if m.failOrderAt > 0 && len(m.orderWrites)+1 == m.failOrderAt {
		return sql.ErrConnDone
	}
	p, ok := m.programs[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.orderWrites = append(m.orderWrites, id)
	p.DisplayOrder = order
	return nil
}

func (m *mockProgramRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.programs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.programs, id)
	return nil
}

type mockEventRepo struct {
	events      []models.EventWithProgram
	month       []models.EventWithProgram
	listErr     error
	monthErr    error
	lastFilter  models.EventFilter
	lastFrom    time.Time
	lastTo      time.Time
	created     *models.Event
	updated     *models.Event
	writeErr    error
	deleteCalls int
}

func (m *mockEventRepo) List(ctx context.Context, filter models.EventFilter) ([]models.EventWithProgram, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.EventWithProgram(nil), m.events...), nil
}

func (m *mockEventRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.EventWithProgram, error) {
	m.lastFrom, m.lastTo = from, to
	if m.monthErr != nil {
		return nil, m.monthErr
	}
	return append([]models.EventWithProgram(nil), m.month...), nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id string) (*models.EventWithProgram, error) {
	for _, e := range m.events {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	event.ID = "new-event"
	m.created = event
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.updated = event
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	if m.writeErr != nil {
		return m.writeErr
	}
	return nil
}

type mockAnnouncementRepo struct {
	items      []models.AnnouncementWithProgram
	listErr    error
	writeErr   error
	lastFilter models.AnnouncementFilter
	created    *models.Announcement
}

func (m *mockAnnouncementRepo) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementWithProgram, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.AnnouncementWithProgram(nil), m.items...), nil
}

func (m *mockAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.AnnouncementWithProgram, error) {
	for _, a := range m.items {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, announcement *models.Announcement) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	announcement.ID = "new-announcement"
	m.created = announcement
	return nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, announcement *models.Announcement) error {
	return m.writeErr
}

func (m *mockAnnouncementRepo) Delete(ctx context.Context, id string) error {
	return m.writeErr
}

type mockSettingRepo struct {
	values    map[string]types.JSONText
	getErr    error
	upsertErr error
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.SiteSetting{Key: key, Value: v}, nil
}

func (m *mockSettingRepo) Upsert(ctx context.Context, key string, value types.JSONText) (*models.SiteSetting, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	if m.values == nil {
		m.values = map[string]types.JSONText{}
	}
	m.values[key] = value
	return &models.SiteSetting{Key: key, Value: value}, nil
}

// memoryCache is an in-process ListingStore.
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	purged  []string
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Load(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Purge(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged = append(m.purged, prefix)
	removed := len(m.data)
	m.data = map[string][]byte{}
	return removed, nil
}

func (m *memoryCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func fixedClock(raw string) Clock {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return Clock{Location: time.UTC, Now: func() time.Time { return t }}
}

func date(raw string) time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }
func timePtr(t time.Time) *time.Time { return &t }
