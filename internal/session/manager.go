package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/errors"
)

// Update is delivered to subscribers after a board changes. Seq grows
// with every board update of a game. A closed game is announced with
// Closed set and a zero Board.
type Update struct {
	ID     uuid.UUID
	Board  chess.Grid
	Seq    uint64
	Closed bool
}

// subscriberBuffer bounds how far a slow subscriber may lag before
// updates to it are dropped.
const subscriberBuffer = 16

type entry struct {
	session *Session
	subs    map[int]chan Update

	// sent guards lastSeq. publish holds only a read lock on the manager,
	// so concurrent publishes for one game serialize here.
	sent    sync.Mutex
	lastSeq uint64
}

// Manager keeps sessions keyed by id.
type Manager struct {
	mu       sync.RWMutex
	games    map[uuid.UUID]*entry
	nextSub  int
	maxGames int
	log      zerolog.Logger
}

// NewManager creates an empty manager. maxGames of 0 means unlimited.
func NewManager(maxGames int, log zerolog.Logger) *Manager {
	return &Manager{
		games:    make(map[uuid.UUID]*entry),
		maxGames: maxGames,
		log:      log.With().Str("component", "session").Logger(),
	}
}

// Create opens a new session on the starting position.
func (m *Manager) Create() (uuid.UUID, *Session, error) {
	return m.Add(NewSession())
}

// Add registers an existing session under a fresh id.
func (m *Manager) Add(s *Session) (uuid.UUID, *Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxGames > 0 && len(m.games) >= m.maxGames {
		return uuid.Nil, nil, fmt.Errorf("limit %d: %w", m.maxGames, errors.ErrGameLimit)
	}

	id := uuid.New()
	e := &entry{session: s, subs: make(map[int]chan Update)}
	m.games[id] = e

	s.mu.Lock()
	s.onChange = func(g chess.Grid, seq uint64) { m.publish(id, g, seq) }
	s.mu.Unlock()

	m.log.Debug().Stringer("game", id).Msg("game created")
	return id, s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, errors.ErrGameNotFound)
	}
	return e.session, nil
}

// Delete closes a session. Its subscribers receive a closing Update and
// their channels are closed.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.games[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, errors.ErrGameNotFound)
	}
	delete(m.games, id)

	e.session.mu.Lock()
	e.session.onChange = nil
	e.session.mu.Unlock()

	for key, ch := range e.subs {
		select {
		case ch <- Update{ID: id, Closed: true}:
		default:
		}
		close(ch)
		delete(e.subs, key)
	}

	m.log.Debug().Stringer("game", id).Msg("game deleted")
	return nil
}

// List returns the ids of all open sessions in string order.
func (m *Manager) List() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Subscribe returns a channel receiving an Update after every change to
// the session with the given id, and a function that cancels the
// subscription. The channel is closed on cancel or when the game is
// deleted.
func (m *Manager) Subscribe(id uuid.UUID) (<-chan Update, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.games[id]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", id, errors.ErrGameNotFound)
	}

	key := m.nextSub
	m.nextSub++
	ch := make(chan Update, subscriberBuffer)
	e.subs[key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := e.subs[key]; ok {
				delete(e.subs, key)
				close(c)
			}
		})
	}
	return ch, cancel, nil
}

// publish delivers g to every subscriber of id. A snapshot older than
// one already delivered is discarded, so the last update a subscriber
// sees is the newest board. Subscribers that are full are skipped.
func (m *Manager) publish(id uuid.UUID, g chess.Grid, seq uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.games[id]
	if !ok {
		return
	}

	e.sent.Lock()
	defer e.sent.Unlock()
	if seq <= e.lastSeq {
		return
	}
	e.lastSeq = seq

	for key, ch := range e.subs {
		select {
		case ch <- Update{ID: id, Board: g, Seq: seq}:
		default:
			m.log.Warn().Stringer("game", id).Int("subscriber", key).Msg("dropped board update")
		}
	}
}
