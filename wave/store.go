package wave

import (
	"sync"

	"waveportal-tui/portal"

	"github.com/ethereum/go-ethereum/common"
)

// WaveRecord is one wave from the contract history
type WaveRecord = portal.WaveRecord

// Phase is where the interaction flow currently is
type Phase int

const (
	Disconnected Phase = iota
	Connecting
	Idle
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Idle:
		return "connected"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// State is a snapshot of everything the UI renders
type State struct {
	Phase   Phase
	Account common.Address

	// contract facts, valid once a handle is bound
	Contract     common.Address
	HasHistory   bool
	TakesMessage bool

	TotalWaves uint64
	CountKnown bool
	// Stale is set when a refresh after a confirmed wave failed
	Stale bool
	Waves []WaveRecord

	Message string
	Loading bool

	LastTx    common.Hash
	LastError string

	// Version increases with every published change
	Version uint64
}

// Connected reports whether an account is set
func (s State) Connected() bool {
	return s.Account != (common.Address{})
}

// RecentFirst returns the waves newest first
func (s State) RecentFirst() []WaveRecord {
	out := make([]WaveRecord, len(s.Waves))
	for i, w := range s.Waves {
		out[len(s.Waves)-1-i] = w
	}
	return out
}

// Store holds the view state and the contract handle, and publishes a
// snapshot to every subscriber after each change.
type Store struct {
	mu     sync.Mutex
	state  State
	handle Contract
	subs   map[int]chan State
	nextID int

	// readGen advances when a confirmed wave makes reads in flight stale
	readGen uint64
}

// NewStore creates an empty, disconnected store
func NewStore() *Store {
	return &Store{subs: make(map[int]chan State)}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Handle returns the bound contract, or nil before connect
func (s *Store) Handle() Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// HandleReady reports whether the contract handle has been bound.
// Reads that follow binding are skipped until it has.
func (s *Store) HandleReady() bool {
	return s.Handle() != nil
}

// Subscribe returns a channel that always holds the latest snapshot.
// Intermediate snapshots may be skipped by slow readers.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	s.subs[id] = ch
	ch <- s.copyLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Update applies fn and publishes the result
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.publishLocked()
}

// transition moves from one phase to another and applies fn, only if the
// store is in from. It reports whether it did.
func (s *Store) transition(from, to Phase, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase != from {
		return false
	}
	s.state.Phase = to
	if fn != nil {
		fn(&s.state)
	}
	s.publishLocked()
	return true
}

// beginRead returns the generation a contract read starts in
func (s *Store) beginRead() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readGen
}

// commitRead applies fn only if no wave was confirmed since gen
func (s *Store) commitRead(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readGen != gen {
		return false
	}
	fn(&s.state)
	s.publishLocked()
	return true
}

// invalidateReads makes every read in flight stale
func (s *Store) invalidateReads() {
	s.mu.Lock()
	s.readGen++
	s.mu.Unlock()
}

// bindOnce installs the handle and account unless a handle already exists
func (s *Store) bindOnce(account common.Address, h Contract, addr common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		return false
	}
	s.handle = h
	s.state.Account = account
	s.state.Contract = addr
	s.state.HasHistory = h.HasHistory()
	s.state.TakesMessage = h.TakesMessage()
	s.state.Phase = Idle
	s.publishLocked()
	return true
}

func (s *Store) copyLocked() State {
	st := s.state
	if s.state.Waves != nil {
		st.Waves = make([]WaveRecord, len(s.state.Waves))
		copy(st.Waves, s.state.Waves)
	}
	return st
}

func (s *Store) publishLocked() {
	s.state.Version++
	snap := s.copyLocked()
	for _, ch := range s.subs {
		// keep only the newest snapshot in the buffer
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
