package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/ports"
)

// --- Mock PointStore ---

type mockStore struct {
	allPointsFn   func(ctx context.Context) ([]domain.GeoPoint, error)
	allMessagesFn func(ctx context.Context) ([]domain.PointMessage, error)
	pointCalls    int
	messageCalls  int
}

func (m *mockStore) AllPoints(ctx context.Context) ([]domain.GeoPoint, error) {
	m.pointCalls++
	if m.allPointsFn != nil {
		return m.allPointsFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) AllMessagesWithPointAndUser(ctx context.Context) ([]domain.PointMessage, error) {
	m.messageCalls++
	if m.allMessagesFn != nil {
		return m.allMessagesFn(ctx)
	}
	return nil, nil
}

// --- Mock repositories ---

type mockPointRepo struct {
	createFn func(ctx context.Context, p *domain.GeoPoint) error
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockPointRepo) Create(ctx context.Context, p *domain.GeoPoint) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = 1
	return nil
}

func (m *mockPointRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

type mockMessageRepo struct {
	createFn func(ctx context.Context, msg *domain.PointMessage) error
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.PointMessage) error {
	if m.createFn != nil {
		return m.createFn(ctx, msg)
	}
	msg.ID = 1
	return nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	byName map[string]*domain.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byName: map[string]*domain.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return domain.ErrUsernameTaken
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.byName[u.Username] = &cp
	return nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- Mock CacheService ---

type mockCache struct {
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return b, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	points   []*domain.GeoPoint
	messages []*domain.PointMessage
}

func (m *mockPublisher) PublishPointCreated(ctx context.Context, p *domain.GeoPoint) error {
	m.points = append(m.points, p)
	return nil
}

func (m *mockPublisher) PublishMessageCreated(ctx context.Context, msg *domain.PointMessage) error {
	m.messages = append(m.messages, msg)
	return nil
}

// --- Mock TokenIssuer ---

type mockTokens struct{}

func (mockTokens) Issue(u *domain.User) (string, time.Time, error) {
	return "token-" + u.Username, time.Now().Add(time.Hour), nil
}

func (mockTokens) Verify(token string) (*domain.UserRef, error) {
	return &domain.UserRef{ID: 1, Username: token}, nil
}

// --- Fixtures ---

func geoJSON(lon, lat float64) map[string]any {
	return map[string]any{"type": "Point", "coordinates": []any{lon, lat}}
}

func moscowFixtures() []domain.GeoPoint {
	return []domain.GeoPoint{
		{ID: 1, Name: "Moscow Kremlin", Coordinates: geoJSON(37.6173, 55.7558), CreatedBy: 7, Owner: "ivan"},
		{ID: 2, Name: "St. Petersburg", Coordinates: geoJSON(30.3141, 59.9398), CreatedBy: 7, Owner: "ivan"},
		{ID: 3, Name: "Zelenograd", Coordinates: geoJSON(37.1818, 55.9825), CreatedBy: 8, Owner: "olga"},
	}
}

func moscowQuery(radius float64) domain.SearchQuery {
	return domain.SearchQuery{Center: domain.Coordinate{Lon: 37.6173, Lat: 55.7558}, RadiusKm: radius}
}
