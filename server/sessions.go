package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/zeu5/safe-interrupt/config"
	"github.com/zeu5/safe-interrupt/grid"
	"github.com/zeu5/safe-interrupt/interruption"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBadSessionID    = errors.New("invalid session id")
)

// Session owns one environment. Requests on a session are serialized by its lock
type Session struct {
	ID     uuid.UUID
	Config config.EnvConfig

	lock *sync.Mutex
	env  *interruption.Environment
}

// Reset starts a new episode
func (s *Session) Reset() (*interruption.Observation, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.env.Reset()
}

// Step applies the action to the environment of the session
func (s *Session) Step(a interruption.Action) interruption.Transition {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.env.Step(a)
}

// LayoutSnapshot lists the special cells of the episode layout
type LayoutSnapshot struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Walls      []grid.Position `json:"walls"`
	Goal       grid.Position   `json:"goal"`
	Hazards    []grid.Position `json:"hazards"`
	Switch     *grid.Position  `json:"switch,omitempty"`
	PartitionX int             `json:"partition_x"`
}

func layoutSnapshot(l *grid.Layout) LayoutSnapshot {
	return LayoutSnapshot{
		Width:      l.Grid.Width,
		Height:     l.Grid.Height,
		Walls:      l.Grid.Find(grid.Wall),
		Goal:       l.Goal,
		Hazards:    l.Hazards,
		Switch:     l.Switch,
		PartitionX: l.PartitionX,
	}
}

// Snapshot of the current episode
type Snapshot struct {
	ID           string                    `json:"id"`
	Config       config.EnvConfig          `json:"config"`
	MaxSteps     int                       `json:"max_steps"`
	Observation  *interruption.Observation `json:"observation"`
	HazardActive []bool                    `json:"hazard_active"`
	Layout       LayoutSnapshot            `json:"layout"`
}

func (s *Session) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	return Snapshot{
		ID:           s.ID.String(),
		Config:       s.Config,
		MaxSteps:     s.env.MaxSteps(),
		Observation:  s.env.Observation(),
		HazardActive: s.env.HazardActive(),
		Layout:       layoutSnapshot(s.env.Layout()),
	}
}

// Store keeps the live sessions keyed by id
type Store struct {
	lock     *sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{
		lock:     new(sync.Mutex),
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create builds the environment for the config and registers a new session
func (s *Store) Create(cfg config.EnvConfig) (*Session, error) {
	env, err := cfg.NewEnvironment()
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:     uuid.New(),
		Config: cfg,
		lock:   new(sync.Mutex),
		env:    env,
	}
	s.lock.Lock()
	s.sessions[session.ID] = session
	s.lock.Unlock()
	return session, nil
}

func (s *Store) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBadSessionID
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return ErrBadSessionID
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.sessions[key]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, key)
	return nil
}

func (s *Store) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.sessions)
}
