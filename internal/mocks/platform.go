package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// MockPlatform implements task.PlatformClient, recording every mutation and
// allocating sequential platform ids. Set Err to make all mutations fail.
type MockPlatform struct {
	mu     sync.Mutex
	nextID uint64

	// Err, when non-nil, is returned by every mutating call.
	Err error

	CreatedCategories []task.PlatformChannel
	CreatedChannels   []task.PlatformChannel
	CreatedRoles      []task.PlatformRole
	SentMessages      []string
	SentButtons       [][]task.Button
	SentMenus         []*task.SelectMenu
	AssignedUsers     []domain.PlatformID
	UnassignedUsers   []domain.PlatformID
	Deleted           []domain.PlatformID
}

var _ task.PlatformClient = (*MockPlatform)(nil)

// NewMockPlatform creates an empty MockPlatform.
func NewMockPlatform() *MockPlatform {
	return &MockPlatform{nextID: 5000}
}

func (m *MockPlatform) allocate() domain.PlatformID {
	m.nextID++
	return domain.PlatformID(m.nextID)
}

// CreateCategory implements task.PlatformClient.
func (m *MockPlatform) CreateCategory(_ context.Context, _ domain.PlatformID, name string) (task.PlatformChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return task.PlatformChannel{}, m.Err
	}
	c := task.PlatformChannel{ID: m.allocate(), Name: name}
	m.CreatedCategories = append(m.CreatedCategories, c)
	return c, nil
}

// CreateChannel implements task.PlatformClient.
func (m *MockPlatform) CreateChannel(_ context.Context, _ domain.PlatformID, name string, _ task.ChannelKind, _ domain.PlatformID) (task.PlatformChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return task.PlatformChannel{}, m.Err
	}
	c := task.PlatformChannel{ID: m.allocate(), Name: name}
	m.CreatedChannels = append(m.CreatedChannels, c)
	return c, nil
}

// DeleteChannel implements task.PlatformClient.
func (m *MockPlatform) DeleteChannel(_ context.Context, channelID domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, channelID)
	return nil
}

// CreateRole implements task.PlatformClient.
func (m *MockPlatform) CreateRole(_ context.Context, _ domain.PlatformID, name string, _ int) (task.PlatformRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return task.PlatformRole{}, m.Err
	}
	r := task.PlatformRole{ID: m.allocate(), Name: name}
	m.CreatedRoles = append(m.CreatedRoles, r)
	return r, nil
}

// DeleteRole implements task.PlatformClient.
func (m *MockPlatform) DeleteRole(_ context.Context, _, roleID domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, roleID)
	return nil
}

// AddRoleToMember implements task.PlatformClient.
func (m *MockPlatform) AddRoleToMember(_ context.Context, _, userID, _ domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.AssignedUsers = append(m.AssignedUsers, userID)
	return nil
}

// RemoveRoleFromMember implements task.PlatformClient.
func (m *MockPlatform) RemoveRoleFromMember(_ context.Context, _, userID, _ domain.PlatformID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.UnassignedUsers = append(m.UnassignedUsers, userID)
	return nil
}

// SendChannelMessage implements task.PlatformClient.
func (m *MockPlatform) SendChannelMessage(_ context.Context, _ domain.PlatformID, content string, buttons []task.Button, menu *task.SelectMenu) (domain.PlatformID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.SentMessages = append(m.SentMessages, content)
	m.SentButtons = append(m.SentButtons, buttons)
	m.SentMenus = append(m.SentMenus, menu)
	return m.allocate(), nil
}

// SendDirectMessage implements task.PlatformClient.
func (m *MockPlatform) SendDirectMessage(_ context.Context, _ domain.PlatformID, content string) (domain.PlatformID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.SentMessages = append(m.SentMessages, content)
	m.SentButtons = append(m.SentButtons, nil)
	m.SentMenus = append(m.SentMenus, nil)
	return m.allocate(), nil
}

// CreateThread implements task.PlatformClient.
func (m *MockPlatform) CreateThread(_ context.Context, _ domain.PlatformID, name string) (task.PlatformChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return task.PlatformChannel{}, m.Err
	}
	c := task.PlatformChannel{ID: m.allocate(), Name: name}
	m.CreatedChannels = append(m.CreatedChannels, c)
	return c, nil
}

// DeleteThread implements task.PlatformClient.
func (m *MockPlatform) DeleteThread(ctx context.Context, threadID domain.PlatformID) error {
	return m.DeleteChannel(ctx, threadID)
}

// GuildName implements task.PlatformClient.
func (m *MockPlatform) GuildName(_ context.Context, guildID domain.PlatformID) (string, error) {
	return fmt.Sprintf("guild-%s", guildID), nil
}
