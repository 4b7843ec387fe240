package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
)

// fakePlatform implements PlatformClient in memory, recording every call so
// tests can assert on what was performed.
type fakePlatform struct {
	mu     sync.Mutex
	nextID domain.PlatformID

	createdCategories []string
	createdChannels   []string
	createdRoles      []string
	deletedChannels   []domain.PlatformID
	deletedRoles      []domain.PlatformID
	sentMessages      []string
	assigned          []domain.PlatformID
	unassigned        []domain.PlatformID
	createdThreads    []string
	deletedThreads    []domain.PlatformID

	// err, when set, fails every mutating call.
	err error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{nextID: 1000}
}

func (f *fakePlatform) allocate() domain.PlatformID {
	f.nextID++
	return f.nextID
}

func (f *fakePlatform) CreateCategory(ctx context.Context, guildID domain.PlatformID, name string) (PlatformChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return PlatformChannel{}, f.err
	}
	f.createdCategories = append(f.createdCategories, name)
	return PlatformChannel{ID: f.allocate(), Name: name}, nil
}

func (f *fakePlatform) CreateChannel(ctx context.Context, guildID domain.PlatformID, name string, kind ChannelKind, parentID domain.PlatformID) (PlatformChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return PlatformChannel{}, f.err
	}
	f.createdChannels = append(f.createdChannels, name)
	return PlatformChannel{ID: f.allocate(), Name: name}, nil
}

func (f *fakePlatform) DeleteChannel(ctx context.Context, channelID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deletedChannels = append(f.deletedChannels, channelID)
	return nil
}

func (f *fakePlatform) CreateRole(ctx context.Context, guildID domain.PlatformID, name string, color int) (PlatformRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return PlatformRole{}, f.err
	}
	f.createdRoles = append(f.createdRoles, name)
	return PlatformRole{ID: f.allocate(), Name: name}, nil
}

func (f *fakePlatform) DeleteRole(ctx context.Context, guildID, roleID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deletedRoles = append(f.deletedRoles, roleID)
	return nil
}

func (f *fakePlatform) AddRoleToMember(ctx context.Context, guildID, userID, roleID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.assigned = append(f.assigned, roleID)
	return nil
}

func (f *fakePlatform) RemoveRoleFromMember(ctx context.Context, guildID, userID, roleID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.unassigned = append(f.unassigned, roleID)
	return nil
}

func (f *fakePlatform) SendChannelMessage(ctx context.Context, channelID domain.PlatformID, content string, buttons []Button, menu *SelectMenu) (domain.PlatformID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.sentMessages = append(f.sentMessages, content)
	return f.allocate(), nil
}

func (f *fakePlatform) SendDirectMessage(ctx context.Context, userID domain.PlatformID, content string) (domain.PlatformID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.sentMessages = append(f.sentMessages, content)
	return f.allocate(), nil
}

func (f *fakePlatform) CreateThread(ctx context.Context, channelID domain.PlatformID, name string) (PlatformChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return PlatformChannel{}, f.err
	}
	f.createdThreads = append(f.createdThreads, name)
	return PlatformChannel{ID: f.allocate(), Name: name}, nil
}

func (f *fakePlatform) DeleteThread(ctx context.Context, threadID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deletedThreads = append(f.deletedThreads, threadID)
	return nil
}

func (f *fakePlatform) GuildName(ctx context.Context, guildID domain.PlatformID) (string, error) {
	return fmt.Sprintf("guild-%s", guildID), nil
}

// fakeGameStore implements GameStore in memory.
type fakeGameStore struct {
	mu         sync.Mutex
	nextID     domain.RecordID
	guilds     map[domain.PlatformID]domain.Guild
	categories map[domain.PlatformID]domain.Category
	channels   map[domain.PlatformID]domain.Channel
	roles      map[domain.PlatformID]domain.Role
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{
		guilds:     make(map[domain.PlatformID]domain.Guild),
		categories: make(map[domain.PlatformID]domain.Category),
		channels:   make(map[domain.PlatformID]domain.Channel),
		roles:      make(map[domain.PlatformID]domain.Role),
	}
}

func (f *fakeGameStore) allocate() domain.RecordID {
	f.nextID++
	return f.nextID
}

func (f *fakeGameStore) GetOrCreateGuild(ctx context.Context, discordID domain.PlatformID, name string) (domain.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.guilds[discordID]; ok {
		return g, nil
	}
	g := domain.Guild{ID: f.allocate(), DiscordID: discordID, Name: name}
	f.guilds[discordID] = g
	return g, nil
}

func (f *fakeGameStore) InsertCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.allocate()
	f.categories[c.DiscordID] = c
	return c, nil
}

func (f *fakeGameStore) GetCategoryByDiscordID(ctx context.Context, discordID domain.PlatformID) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[discordID]
	if !ok {
		return domain.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeGameStore) DeleteCategoryByDiscordID(ctx context.Context, discordID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[discordID]; !ok {
		return store.ErrNotFound
	}
	delete(f.categories, discordID)
	return nil
}

func (f *fakeGameStore) ListCategories(ctx context.Context, guildID domain.RecordID) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Category
	for _, c := range f.categories {
		if c.GuildID == guildID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGameStore) InsertChannel(ctx context.Context, c domain.Channel) (domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.allocate()
	f.channels[c.DiscordID] = c
	return c, nil
}

func (f *fakeGameStore) DeleteChannelByDiscordID(ctx context.Context, discordID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.channels[discordID]; !ok {
		return store.ErrNotFound
	}
	delete(f.channels, discordID)
	return nil
}

func (f *fakeGameStore) ListChannels(ctx context.Context, guildID domain.RecordID) ([]domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Channel
	for _, c := range f.channels {
		if c.GuildID == guildID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGameStore) InsertRole(ctx context.Context, r domain.Role) (domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.allocate()
	f.roles[r.DiscordID] = r
	return r, nil
}

func (f *fakeGameStore) DeleteRoleByDiscordID(ctx context.Context, discordID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[discordID]; !ok {
		return store.ErrNotFound
	}
	delete(f.roles, discordID)
	return nil
}

func (f *fakeGameStore) ListRoles(ctx context.Context, guildID domain.RecordID) ([]domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Role
	for _, r := range f.roles {
		if r.GuildID == guildID {
			out = append(out, r)
		}
	}
	return out, nil
}

func testDeps() (Deps, *fakePlatform, *fakeGameStore) {
	platform := newFakePlatform()
	games := newFakeGameStore()
	return Deps{Platform: platform, Games: games}, platform, games
}
