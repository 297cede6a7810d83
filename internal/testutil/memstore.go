package testutil

import (
	"context"

	"github.com/mnemo-app/mnemo/internal/card"
)

// MemStore is an in-memory implementation of the engine's Store and
// GroupIndex contracts for tests. Items keep insertion order so queue
// builds are deterministic.
//
// PersistErr, when set, is returned by the next Persist call and then
// cleared, which lets tests exercise the engine's persistence-failure
// ordering guarantees. Mirroring the SQLite store, mutations issued
// through the engine.Store methods are staged: a failed Persist
// discards them and the snapshot reverts to the last persisted state.
type MemStore struct {
	ItemList     []card.Item
	States       map[string]card.SchedulingState
	ReviewLog    []card.ReviewEntry
	AnalyticsLog []card.AnalyticsEntry

	GroupMembers map[string][]string
	Quarantine   map[string]bool

	PersistCalls int
	PersistErr   error

	dirty bool
	base  memSnapshot
}

// memSnapshot is the persisted state a failed Persist rolls back to.
type memSnapshot struct {
	items     []card.Item
	states    map[string]card.SchedulingState
	reviews   []card.ReviewEntry
	analytics []card.AnalyticsEntry
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		States:       make(map[string]card.SchedulingState),
		GroupMembers: make(map[string][]string),
		Quarantine:   make(map[string]bool),
	}
}

// Add registers an item, optionally with a scheduling state.
func (m *MemStore) Add(it card.Item, st *card.SchedulingState) {
	m.ItemList = append(m.ItemList, it)
	if st != nil {
		m.States[it.ID] = *st
	}
}

// Items implements engine.Store.
func (m *MemStore) Items() []card.Item {
	out := make([]card.Item, len(m.ItemList))
	copy(out, m.ItemList)
	return out
}

// State implements engine.Store.
func (m *MemStore) State(id string) (card.SchedulingState, bool) {
	st, ok := m.States[id]
	return st, ok
}

// PutState implements engine.Store.
func (m *MemStore) PutState(id string, st card.SchedulingState) error {
	m.stage()
	m.States[id] = st
	return nil
}

// Reviews implements engine.Store.
func (m *MemStore) Reviews() []card.ReviewEntry {
	out := make([]card.ReviewEntry, len(m.ReviewLog))
	copy(out, m.ReviewLog)
	return out
}

// ReviewCount implements engine.Store.
func (m *MemStore) ReviewCount() int {
	return len(m.ReviewLog)
}

// AppendReview implements engine.Store.
func (m *MemStore) AppendReview(e card.ReviewEntry) error {
	m.stage()
	m.ReviewLog = append(m.ReviewLog, e)
	return nil
}

// TruncateReviews implements engine.Store.
func (m *MemStore) TruncateReviews(n int) error {
	if n < len(m.ReviewLog) {
		m.stage()
		m.ReviewLog = m.ReviewLog[:n]
	}
	return nil
}

// AnalyticsCount implements engine.Store.
func (m *MemStore) AnalyticsCount() int {
	return len(m.AnalyticsLog)
}

// AppendAnalytics implements engine.Store.
func (m *MemStore) AppendAnalytics(e card.AnalyticsEntry) error {
	m.stage()
	m.AnalyticsLog = append(m.AnalyticsLog, e)
	return nil
}

// TruncateAnalytics implements engine.Store.
func (m *MemStore) TruncateAnalytics(n int) error {
	if n < len(m.AnalyticsLog) {
		m.stage()
		m.AnalyticsLog = m.AnalyticsLog[:n]
	}
	return nil
}

// Persist implements engine.Store. Returns and clears PersistErr when
// set, rolling staged mutations back to the last persisted state.
func (m *MemStore) Persist(_ context.Context) error {
	m.PersistCalls++
	if err := m.PersistErr; err != nil {
		m.PersistErr = nil
		if m.dirty {
			m.ItemList = m.base.items
			m.States = m.base.states
			m.ReviewLog = m.base.reviews
			m.AnalyticsLog = m.base.analytics
		}
		m.dirty = false
		m.base = memSnapshot{}
		return err
	}
	m.dirty = false
	m.base = memSnapshot{}
	return nil
}

// stage captures the snapshot before the first mutation after a
// Persist, so a failed commit can restore it.
func (m *MemStore) stage() {
	if m.dirty {
		return
	}
	m.dirty = true
	m.base = memSnapshot{
		items:     append([]card.Item(nil), m.ItemList...),
		states:    make(map[string]card.SchedulingState, len(m.States)),
		reviews:   append([]card.ReviewEntry(nil), m.ReviewLog...),
		analytics: append([]card.AnalyticsEntry(nil), m.AnalyticsLog...),
	}
	for id, st := range m.States {
		m.base.states[id] = st
	}
}

// Members implements engine.GroupIndex.
func (m *MemStore) Members(group string) []string {
	return m.GroupMembers[group]
}

// Quarantined implements engine.GroupIndex.
func (m *MemStore) Quarantined(id string) bool {
	return m.Quarantine[id]
}
