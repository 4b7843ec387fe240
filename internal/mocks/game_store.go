package mocks

import (
	"context"
	"sync"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// MockGameStore implements task.GameStore over maps.
type MockGameStore struct {
	mu     sync.Mutex
	nextID int32

	guilds     map[domain.PlatformID]domain.Guild
	categories map[domain.PlatformID]domain.Category
	channels   map[domain.PlatformID]domain.Channel
	roles      map[domain.PlatformID]domain.Role
}

var _ task.GameStore = (*MockGameStore)(nil)

// NewMockGameStore creates an empty MockGameStore.
func NewMockGameStore() *MockGameStore {
	return &MockGameStore{
		guilds:     make(map[domain.PlatformID]domain.Guild),
		categories: make(map[domain.PlatformID]domain.Category),
		channels:   make(map[domain.PlatformID]domain.Channel),
		roles:      make(map[domain.PlatformID]domain.Role),
	}
}

func (m *MockGameStore) allocate() domain.RecordID {
	m.nextID++
	return domain.RecordID(m.nextID)
}

// GetOrCreateGuild implements task.GameStore.
func (m *MockGameStore) GetOrCreateGuild(_ context.Context, discordID domain.PlatformID, name string) (domain.Guild, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.guilds[discordID]; ok {
		return g, nil
	}
	g := domain.Guild{ID: m.allocate(), DiscordID: discordID, Name: name}
	m.guilds[discordID] = g
	return g, nil
}

// InsertCategory implements task.GameStore.
func (m *MockGameStore) InsertCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.allocate()
	m.categories[c.DiscordID] = c
	return c, nil
}

// GetCategoryByDiscordID implements task.GameStore.
func (m *MockGameStore) GetCategoryByDiscordID(_ context.Context, discordID domain.PlatformID) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[discordID]
	if !ok {
		return domain.Category{}, store.ErrNotFound
	}
	return c, nil
}

// DeleteCategoryByDiscordID implements task.GameStore.
func (m *MockGameStore) DeleteCategoryByDiscordID(_ context.Context, discordID domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[discordID]; !ok {
		return store.ErrNotFound
	}
	delete(m.categories, discordID)
	return nil
}

// ListCategories implements task.GameStore.
func (m *MockGameStore) ListCategories(_ context.Context, guildID domain.RecordID) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.categories {
		if c.GuildID == guildID {
			out = append(out, c)
		}
	}
	return out, nil
}

// InsertChannel implements task.GameStore.
func (m *MockGameStore) InsertChannel(_ context.Context, c domain.Channel) (domain.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.allocate()
	m.channels[c.DiscordID] = c
	return c, nil
}

// DeleteChannelByDiscordID implements task.GameStore.
func (m *MockGameStore) DeleteChannelByDiscordID(_ context.Context, discordID domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[discordID]; !ok {
		return store.ErrNotFound
	}
	delete(m.channels, discordID)
	return nil
}

// ListChannels implements task.GameStore.
func (m *MockGameStore) ListChannels(_ context.Context, guildID domain.RecordID) ([]domain.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Channel
	for _, c := range m.channels {
		if c.GuildID == guildID {
			out = append(out, c)
		}
	}
	return out, nil
}

// InsertRole implements task.GameStore.
func (m *MockGameStore) InsertRole(_ context.Context, r domain.Role) (domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.allocate()
	m.roles[r.DiscordID] = r
	return r, nil
}

// DeleteRoleByDiscordID implements task.GameStore.
func (m *MockGameStore) DeleteRoleByDiscordID(_ context.Context, discordID domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[discordID]; !ok {
		return store.ErrNotFound
	}
	delete(m.roles, discordID)
	return nil
}

// ListRoles implements task.GameStore.
func (m *MockGameStore) ListRoles(_ context.Context, guildID domain.RecordID) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Role
	for _, r := range m.roles {
		if r.GuildID == guildID {
			out = append(out, r)
		}
	}
	return out, nil
}
