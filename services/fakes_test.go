package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
)

// In-memory fakes for the repository interfaces. The fake transaction
// runner executes the critical section directly; tests drive concurrency
// semantics through the same conflict errors the postgres layer returns.

// fakeTxRunner serializes critical sections the way the row lock does in
// postgres, so concurrent callers interleave only at commit boundaries.
type fakeTxRunner struct {
	mu sync.Mutex
}

func (t *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(nil)
}

type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[int]*models.DraftRoom
	nextID int
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[int]*models.DraftRoom), nextID: 1}
}

func (r *fakeRoomRepo) Create(ctx context.Context, exec repositories.SQLExecutor, room *models.DraftRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.ID = r.nextID
	r.nextID++
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

func (r *fakeRoomRepo) get(id int) (*models.DraftRoom, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, repositories.ErrDraftRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, id int) (*models.DraftRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeRoomRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.DraftRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeRoomRepo) List(ctx context.Context, filter repositories.ListDraftRoomsFilter) ([]models.DraftRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms := make([]models.DraftRoom, 0, len(r.rooms))
	for _, room := range r.rooms {
		if filter.Status != nil && room.Status != *filter.Status {
			continue
		}
		if filter.Privacy != nil && room.Privacy != *filter.Privacy {
			continue
		}
		if filter.OwnerID != nil && room.OwnerID != *filter.OwnerID {
			continue
		}
		rooms = append(rooms, *room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (r *fakeRoomRepo) ClaimNextDraftPosition(ctx context.Context, exec repositories.SQLExecutor, id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return 0, repositories.ErrDraftRoomNotFound
	}
	position := room.NextDraftPosition
	room.NextDraftPosition++
	return position, nil
}

func (r *fakeRoomRepo) MarkStarted(ctx context.Context, exec repositories.SQLExecutor, id int, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return repositories.ErrDraftRoomNotFound
	}
	room.Status = models.RoomStatusActive
	room.StartedAt = &startedAt
	return nil
}

func (r *fakeRoomRepo) MarkCompleted(ctx context.Context, exec repositories.SQLExecutor, id int, endedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return repositories.ErrDraftRoomNotFound
	}
	room.Status = models.RoomStatusCompleted
	room.EndedAt = &endedAt
	return nil
}

func (r *fakeRoomRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return repositories.ErrDraftRoomNotFound
	}
	room.LogoKey = logoKey
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return repositories.ErrDraftRoomNotFound
	}
	delete(r.rooms, id)
	return nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants []*models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants {
		if existing.RoomID == p.RoomID && existing.UserID == p.UserID {
			return repositories.ErrParticipantConflict
		}
		if existing.RoomID == p.RoomID && existing.DraftPosition == p.DraftPosition {
			return repositories.ErrParticipantPositionConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	stored := *p
	r.participants = append(r.participants, &stored)
	return nil
}

func (r *fakeParticipantRepo) FindByUserAndRoom(ctx context.Context, exec repositories.SQLExecutor, userID, roomID int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.UserID == userID && p.RoomID == roomID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID int, includeUser bool) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.RoomID == roomID {
			copied := *p
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DraftPosition < list[j].DraftPosition })
	return list, nil
}

func (r *fakeParticipantRepo) CountByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.participants {
		if p.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) PositionTaken(ctx context.Context, exec repositories.SQLExecutor, roomID, position int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.RoomID == roomID && p.DraftPosition == position {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeParticipantRepo) SetReady(ctx context.Context, id int, ready bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ID == id {
			p.Ready = ready
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

type fakePickRepo struct {
	mu     sync.Mutex
	picks  []*models.Pick
	nextID int
}

func newFakePickRepo() *fakePickRepo {
	return &fakePickRepo{nextID: 1}
}

func (r *fakePickRepo) Create(ctx context.Context, exec repositories.SQLExecutor, pick *models.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.picks {
		if existing.RoomID == pick.RoomID && existing.TeamKey == pick.TeamKey {
			return repositories.ErrPickTeamConflict
		}
		if existing.RoomID == pick.RoomID && existing.OverallPick == pick.OverallPick {
			return repositories.ErrPickOverallConflict
		}
	}
	pick.ID = r.nextID
	r.nextID++
	pick.CreatedAt = time.Now()
	stored := *pick
	stored.Participant = nil
	r.picks = append(r.picks, &stored)
	return nil
}

func (r *fakePickRepo) CountByRoom(ctx context.Context, exec repositories.SQLExecutor, roomID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.picks {
		if p.RoomID == roomID {
			count++
		}
	}
	return count, nil
}

func (r *fakePickRepo) TeamDrafted(ctx context.Context, exec repositories.SQLExecutor, roomID int, teamKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.picks {
		if p.RoomID == roomID && p.TeamKey == teamKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePickRepo) ListByRoom(ctx context.Context, roomID int) ([]*models.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*models.Pick, 0)
	for _, p := range r.picks {
		if p.RoomID == roomID {
			copied := *p
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OverallPick < list[j].OverallPick })
	return list, nil
}

func (r *fakePickRepo) DraftedTeamKeys(ctx context.Context, roomID int) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make(map[string]bool)
	for _, p := range r.picks {
		if p.RoomID == roomID {
			keys[p.TeamKey] = true
		}
	}
	return keys, nil
}

func (r *fakePickRepo) LastPickTime(ctx context.Context, roomID int) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *time.Time
	for _, p := range r.picks {
		if p.RoomID == roomID && (last == nil || p.CreatedAt.After(*last)) {
			t := p.CreatedAt
			last = &t
		}
	}
	return last, nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[string]models.Team
}

func newFakeTeamRepo(keys ...string) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[string]models.Team)}
	for i, key := range keys {
		repo.teams[key] = models.Team{Key: key, Number: i + 1, Name: key}
	}
	return repo
}

func (r *fakeTeamRepo) Upsert(ctx context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[team.Key] = *team
	return nil
}

func (r *fakeTeamRepo) GetByKey(ctx context.Context, key string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[key]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &team, nil
}

func (r *fakeTeamRepo) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.teams[key]
	return ok, nil
}

func (r *fakeTeamRepo) List(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Number < teams[j].Number })
	if filter.Limit > 0 && len(teams) > filter.Limit {
		teams = teams[:filter.Limit]
	}
	return teams, nil
}

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[string]*models.Invite
	nextID  int
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*models.Invite), nextID: 1}
}

func (r *fakeInviteRepo) Create(ctx context.Context, inv *models.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv.ID = r.nextID
	r.nextID++
	inv.CreatedAt = time.Now()
	stored := *inv
	r.invites[inv.Token] = &stored
	return nil
}

func (r *fakeInviteRepo) FindByToken(ctx context.Context, token string) (*models.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invites[token]
	if !ok {
		return nil, repositories.ErrInviteNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *fakeInviteRepo) DeleteByRoom(ctx context.Context, roomID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, inv := range r.invites {
		if inv.RoomID == roomID {
			delete(r.invites, token)
		}
	}
	return nil
}

type fakeMatchupRepo struct {
	mu       sync.Mutex
	matchups []*models.Matchup
	nextID   int
}

func newFakeMatchupRepo() *fakeMatchupRepo {
	return &fakeMatchupRepo{nextID: 1}
}

func (r *fakeMatchupRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matchups []*models.Matchup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matchups {
		m.ID = r.nextID
		r.nextID++
		m.CreatedAt = time.Now()
		stored := *m
		r.matchups = append(r.matchups, &stored)
	}
	return nil
}

func (r *fakeMatchupRepo) ListByRoom(ctx context.Context, roomID int, week *int) ([]*models.Matchup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*models.Matchup, 0)
	for _, m := range r.matchups {
		if m.RoomID != roomID {
			continue
		}
		if week != nil && m.Week != *week {
			continue
		}
		copied := *m
		list = append(list, &copied)
	}
	return list, nil
}

func (r *fakeMatchupRepo) ExistsForRoom(ctx context.Context, roomID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matchups {
		if m.RoomID == roomID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRosterRepo struct {
	mu      sync.Mutex
	entries []*models.RosterEntry
	nextID  int
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{nextID: 1}
}

func (r *fakeRosterRepo) Insert(ctx context.Context, entry *models.RosterEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.RoomID == entry.RoomID && e.UserID == entry.UserID && e.TeamKey == entry.TeamKey {
			return nil
		}
	}
	entry.ID = r.nextID
	r.nextID++
	entry.CreatedAt = time.Now()
	stored := *entry
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *fakeRosterRepo) ListByUserAndRoom(ctx context.Context, userID, roomID int) ([]*models.RosterEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*models.RosterEntry, 0)
	for _, e := range r.entries {
		if e.UserID == userID && e.RoomID == roomID {
			copied := *e
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *fakeRosterRepo) CountStarting(ctx context.Context, userID, roomID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, e := range r.entries {
		if e.UserID == userID && e.RoomID == roomID && e.Starting {
			count++
		}
	}
	return count, nil
}

func (r *fakeRosterRepo) SetStarting(ctx context.Context, userID, roomID int, teamKey string, starting bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.UserID == userID && e.RoomID == roomID && e.TeamKey == teamKey {
			e.Starting = starting
			return nil
		}
	}
	return repositories.ErrRosterEntryNotFound
}

// Recording collaborators for the post-commit side effects.

type recordingRoster struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRoster) AddToRoster(ctx context.Context, userID, roomID int, teamKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, teamKey)
	return nil
}

type recordingSchedule struct {
	mu    sync.Mutex
	calls int
}

func (s *recordingSchedule) GenerateSeasonSchedule(ctx context.Context, roomID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) BroadcastToRoom(roomID int, eventType string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, eventType)
}

func (h *recordingHub) count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e == eventType {
			n++
		}
	}
	return n
}
