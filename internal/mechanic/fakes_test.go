package mechanic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// fakePlatform implements task.PlatformClient with counters sufficient for
// exercising mechanics through a live runner.
type fakePlatform struct {
	mu     sync.Mutex
	nextID uint64

	categories []task.PlatformChannel
	channels   []task.PlatformChannel
	roles      []task.PlatformRole
	messages   []string
	buttons    [][]task.Button
	menus      []*task.SelectMenu
	assigned   []domain.PlatformID
	unassigned []domain.PlatformID
	deleted    []domain.PlatformID
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{nextID: 5000}
}

func (f *fakePlatform) allocate() domain.PlatformID {
	f.nextID++
	return domain.PlatformID(f.nextID)
}

func (f *fakePlatform) CreateCategory(_ context.Context, _ domain.PlatformID, name string) (task.PlatformChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := task.PlatformChannel{ID: f.allocate(), Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakePlatform) CreateChannel(_ context.Context, _ domain.PlatformID, name string, _ task.ChannelKind, _ domain.PlatformID) (task.PlatformChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := task.PlatformChannel{ID: f.allocate(), Name: name}
	f.channels = append(f.channels, c)
	return c, nil
}

func (f *fakePlatform) DeleteChannel(_ context.Context, channelID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakePlatform) CreateRole(_ context.Context, _ domain.PlatformID, name string, _ int) (task.PlatformRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := task.PlatformRole{ID: f.allocate(), Name: name}
	f.roles = append(f.roles, r)
	return r, nil
}

func (f *fakePlatform) DeleteRole(_ context.Context, _, roleID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, roleID)
	return nil
}

func (f *fakePlatform) AddRoleToMember(_ context.Context, _, userID, _ domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, userID)
	return nil
}

func (f *fakePlatform) RemoveRoleFromMember(_ context.Context, _, userID, _ domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unassigned = append(f.unassigned, userID)
	return nil
}

func (f *fakePlatform) SendChannelMessage(_ context.Context, _ domain.PlatformID, content string, buttons []task.Button, menu *task.SelectMenu) (domain.PlatformID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, content)
	f.buttons = append(f.buttons, buttons)
	f.menus = append(f.menus, menu)
	return f.allocate(), nil
}

func (f *fakePlatform) SendDirectMessage(_ context.Context, _ domain.PlatformID, content string) (domain.PlatformID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, content)
	f.buttons = append(f.buttons, nil)
	f.menus = append(f.menus, nil)
	return f.allocate(), nil
}

func (f *fakePlatform) CreateThread(_ context.Context, _ domain.PlatformID, name string) (task.PlatformChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := task.PlatformChannel{ID: f.allocate(), Name: name}
	f.channels = append(f.channels, c)
	return c, nil
}

func (f *fakePlatform) DeleteThread(_ context.Context, threadID domain.PlatformID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, threadID)
	return nil
}

func (f *fakePlatform) GuildName(_ context.Context, guildID domain.PlatformID) (string, error) {
	return fmt.Sprintf("guild-%s", guildID), nil
}

// fakeGameStore implements task.GameStore over maps.
type fakeGameStore struct {
	mu         sync.Mutex
	nextID     int32
	guilds     map[domain.PlatformID]domain.Guild
	categories map[domain.PlatformID]domain.Category
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{
		guilds:     make(map[domain.PlatformID]domain.Guild),
		categories: make(map[domain.PlatformID]domain.Category),
	}
}

func (f *fakeGameStore) allocate() domain.RecordID {
	f.nextID++
	return domain.RecordID(f.nextID)
}

func (f *fakeGameStore) GetOrCreateGuild(_ context.Context, discordID domain.PlatformID, name string) (domain.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.guilds[discordID]; ok {
		return g, nil
	}
	g := domain.Guild{ID: f.allocate(), DiscordID: discordID, Name: name}
	f.guilds[discordID] = g
	return g, nil
}

func (f *fakeGameStore) InsertCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.allocate()
	f.categories[c.DiscordID] = c
	return c, nil
}

func (f *fakeGameStore) GetCategoryByDiscordID(_ context.Context, discordID domain.PlatformID) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[discordID]
	if !ok {
		return domain.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeGameStore) DeleteCategoryByDiscordID(context.Context, domain.PlatformID) error {
	return nil
}

func (f *fakeGameStore) ListCategories(context.Context, domain.RecordID) ([]domain.Category, error) {
	return nil, nil
}

func (f *fakeGameStore) InsertChannel(_ context.Context, c domain.Channel) (domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.allocate()
	return c, nil
}

func (f *fakeGameStore) DeleteChannelByDiscordID(context.Context, domain.PlatformID) error {
	return nil
}

func (f *fakeGameStore) ListChannels(context.Context, domain.RecordID) ([]domain.Channel, error) {
	return nil, nil
}

func (f *fakeGameStore) InsertRole(_ context.Context, r domain.Role) (domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.allocate()
	return r, nil
}

func (f *fakeGameStore) DeleteRoleByDiscordID(context.Context, domain.PlatformID) error {
	return nil
}

func (f *fakeGameStore) ListRoles(context.Context, domain.RecordID) ([]domain.Role, error) {
	return nil, nil
}

// fakeComponents records every stored payload keyed by the minted uuid.
type fakeComponents struct {
	mu        sync.Mutex
	tasks     map[uuid.UUID]task.Payload
	mechanics map[uuid.UUID]Invocation
	inert     []uuid.UUID
}

func newFakeComponents() *fakeComponents {
	return &fakeComponents{
		tasks:     make(map[uuid.UUID]task.Payload),
		mechanics: make(map[uuid.UUID]Invocation),
	}
}

func (f *fakeComponents) TaskKey(_ context.Context, p task.Payload) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuid.New()
	f.tasks[key] = p
	return key, nil
}

func (f *fakeComponents) MechanicKey(_ context.Context, inv Invocation) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuid.New()
	f.mechanics[key] = inv
	return key, nil
}

func (f *fakeComponents) InertKey(context.Context) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := uuid.New()
	f.inert = append(f.inert, key)
	return key, nil
}

// fakeTeamStore implements TeamStore and PlayerStore over maps.
type fakeTeamStore struct {
	mu      sync.Mutex
	nextID  int32
	teams   map[domain.RecordID]domain.Team
	players map[domain.PlatformID]domain.Player
	onTeam  map[domain.RecordID]domain.RecordID
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{
		teams:   make(map[domain.RecordID]domain.Team),
		players: make(map[domain.PlatformID]domain.Player),
		onTeam:  make(map[domain.RecordID]domain.RecordID),
	}
}

func (f *fakeTeamStore) InsertTeam(_ context.Context, _ domain.PlatformID, team domain.Team) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	team.ID = domain.RecordID(f.nextID)
	f.teams[team.ID] = team
	return team, nil
}

func (f *fakeTeamStore) GetTeam(_ context.Context, id domain.RecordID) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	team, ok := f.teams[id]
	if !ok {
		return domain.Team{}, store.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamStore) ListTeams(_ context.Context, _ domain.PlatformID) ([]domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	teams := make([]domain.Team, 0, len(f.teams))
	for _, t := range f.teams {
		teams = append(teams, t)
	}
	return teams, nil
}

func (f *fakeTeamStore) DeleteTeam(_ context.Context, id domain.RecordID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[id]; !ok {
		return store.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamStore) GetOrCreatePlayer(_ context.Context, _ domain.PlatformID, discordID domain.PlatformID, name string) (domain.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.players[discordID]; ok {
		return p, nil
	}
	f.nextID++
	p := domain.Player{ID: domain.RecordID(f.nextID), DiscordID: discordID, Name: name}
	f.players[discordID] = p
	return p, nil
}

func (f *fakeTeamStore) SetPlayerTeam(_ context.Context, playerID, teamID domain.RecordID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onTeam[playerID] = teamID
	return nil
}

func (f *fakeTeamStore) ClearPlayerTeam(_ context.Context, playerID domain.RecordID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.onTeam, playerID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// testHarness wires a live runner over an in-memory task store so mechanics
// can block on their queued steps exactly as they do in production.
type testHarness struct {
	deps       Deps
	platform   *fakePlatform
	games      *fakeGameStore
	components *fakeComponents
	teams      *fakeTeamStore
	cancel     context.CancelFunc
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	platform := newFakePlatform()
	games := newFakeGameStore()
	components := newFakeComponents()
	teams := newFakeTeamStore()

	taskStore := task.NewMemoryTaskStore()
	logger := testLogger()
	queue := task.NewQueue(taskStore, 5*time.Millisecond, logger)
	runner := task.NewRunner(taskStore, task.Deps{Platform: platform, Games: games}, 2*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx) //nolint:errcheck
	t.Cleanup(cancel)

	return &testHarness{
		deps: Deps{
			Queue:      queue,
			Components: components,
			Teams:      teams,
			Players:    teams,
		},
		platform:   platform,
		games:      games,
		components: components,
		teams:      teams,
		cancel:     cancel,
	}
}

// withInteraction returns Deps carrying a fake interaction from the given user.
func (h *testHarness) withInteraction(userID domain.PlatformID, username string) Deps {
	deps := h.deps
	deps.Interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userID.String(), Username: username},
			},
		},
	}
	return deps
}
