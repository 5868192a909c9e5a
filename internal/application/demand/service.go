// Package demand owns the canonical entity snapshot and the three guarded
// mutations that move a property from open reservations to ownership.
package demand

import (
	"context"
	"sync"
	"time"

	"coown-backend/internal/application/eventlog"
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/ids"

	"github.com/rs/zerolog/log"
)

// Persister receives a copy of the snapshot after every committed mutation.
// Submit must not block; the store never looks at the outcome.
type Persister interface {
	Submit(domain.Snapshot)
}

// Options configures a Service. Zero values fall back to UUID ids, the wall
// clock, no persistence and a random web session.
type Options struct {
	IDs       ids.Generator
	Clock     func() time.Time
	Persister Persister
	// Session tags events whose context carries no client session.
	Session eventlog.Session
}

// Result is the outcome of a mutation. Message is user-facing; Err carries
// the domain sentinel on failure.
type Result struct {
	OK            bool                  `json:"ok"`
	Message       string                `json:"message"`
	Err           error                 `json:"-"`
	ReservationID string                `json:"reservation_id,omitempty"`
	HoldingID     string                `json:"holding_id,omitempty"`
	Status        domain.PropertyStatus `json:"status,omitempty"`
}

// Service is the single writer of the entity snapshot. Mutations run under
// the write lock from validation through event append and persistence
// submission; readers get deep copies under the read lock.
type Service struct {
	mu sync.RWMutex

	user         domain.User
	properties   []domain.Property
	propertyIdx  map[string]int
	reservations []domain.Reservation
	reservIdx    map[string]int
	holdings     []domain.Holding
	events       *eventlog.Log

	ids       ids.Generator
	clock     func() time.Time
	persister Persister
	session   eventlog.Session
}

// New builds a Service from an initial snapshot. The snapshot is copied.
func New(initial domain.Snapshot, opts Options) *Service {
	s := &Service{
		ids:       opts.IDs,
		clock:     opts.Clock,
		persister: opts.Persister,
		session:   opts.Session,
	}
	if s.ids == nil {
		s.ids = ids.UUID{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.session.ID == "" {
		s.session.ID = s.ids.NewID("s")
	}
	if s.session.Channel == "" {
		s.session.Channel = domain.ChannelWeb
	}
	s.load(initial)
	return s
}

func (s *Service) load(snap domain.Snapshot) {
	c := snap.Clone()
	s.user = c.User
	s.properties = c.Properties
	s.reservations = c.Reservations
	s.holdings = c.Holdings
	s.events = eventlog.New(c.DemandEvents)

	s.propertyIdx = make(map[string]int, len(s.properties))
	for i, p := range s.properties {
		s.propertyIdx[p.ID] = i
	}
	s.reservIdx = make(map[string]int, len(s.reservations))
	for i, r := range s.reservations {
		s.reservIdx[r.ID] = i
	}
}

// ResetTo runs wipe and then replaces the whole state with snap, both under
// the write lock, so no mutation can submit a snapshot between the two. When
// wipe fails the state is left untouched. snap itself is not submitted to
// the persister; storage stays empty until the next mutation.
func (s *Service) ResetTo(snap domain.Snapshot, wipe func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wipe != nil {
		if err := wipe(); err != nil {
			return err
		}
	}
	s.load(snap)
	log.Info().
		Int("properties", len(s.properties)).
		Int("events", s.events.Len()).
		Msg("demand state reset")
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		User:         s.user,
		Properties:   s.properties,
		Reservations: s.reservations,
		Holdings:     s.holdings,
		DemandEvents: s.events.Events(),
		AsOf:         s.clock(),
	}.Clone()
}

func (s *Service) persistLocked() {
	if s.persister == nil {
		return
	}
	s.persister.Submit(s.snapshotLocked())
}

func (s *Service) reject(op string, err error) Result {
	log.Info().Str("op", op).Str("kind", domain.KindOf(err)).Msg(err.Error())
	return Result{OK: false, Message: err.Error(), Err: err}
}

func (s *Service) newEvent(ctx context.Context, p domain.Property, userID string, t domain.EventType, amount float64, before, after domain.PropertyStatus, at time.Time) domain.DemandEvent {
	sess := eventlog.SessionFrom(ctx, s.session)
	return domain.DemandEvent{
		ID:           s.ids.NewID("de"),
		UserID:       userID,
		PropertyID:   p.ID,
		RegionCode:   p.RegionCode(),
		EventType:    t,
		IntentAmount: amount,
		StatusBefore: domain.StatusPtr(before),
		StatusAfter:  domain.StatusPtr(after),
		CreatedAt:    at,
		SessionID:    sess.ID,
		Channel:      sess.Channel,
	}
}
