// Package persistence stores whole demand snapshots in an external backend.
// Every backend overwrites the full snapshot on save; nothing is merged.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"coown-backend/internal/domain"
)

// DefaultKey names the persisted snapshot when none is configured.
const DefaultKey = "coown-demand-v3"

// Adapter is a snapshot store. Load reports ok=false when nothing usable is
// stored; a stored snapshot without a user or properties counts as absent.
type Adapter interface {
	Name() string
	Load(ctx context.Context) (snap domain.Snapshot, ok bool, err error)
	Save(ctx context.Context, snap domain.Snapshot) error
	Reset(ctx context.Context) error
}

func encode(snap domain.Snapshot) ([]byte, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("persistence: encode snapshot: %w", err)
	}
	return b, nil
}

func decode(b []byte) (domain.Snapshot, bool, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("persistence: decode snapshot: %w", err)
	}
	if !snap.Valid() {
		return domain.Snapshot{}, false, nil
	}
	if snap.Reservations == nil {
		snap.Reservations = []domain.Reservation{}
	}
	if snap.Holdings == nil {
		snap.Holdings = []domain.Holding{}
	}
	if snap.DemandEvents == nil {
		snap.DemandEvents = []domain.DemandEvent{}
	}
	return snap, true, nil
}
