// Package seed builds the initial demand snapshot from a YAML catalogue.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/money"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embedded []byte

const (
	defaultCohortUser = "u-cohort"
	minVoters         = 12
	votersPerRatio    = 220
	avgPriceUnit      = 100000
)

var ErrInvalidCatalogue = errors.New("seed: invalid catalogue")

// Catalogue is the on-disk seed format.
type Catalogue struct {
	User         domain.User `yaml:"user"`
	CohortUserID string      `yaml:"cohort_user_id"`
	SeededAt     time.Time   `yaml:"seeded_at"`
	Properties   []Entry     `yaml:"properties"`
}

// Entry describes one property. ReservedAmount is not stored; it is derived
// from ReserveRatio.
type Entry struct {
	Name           string                `yaml:"name"`
	Address        string                `yaml:"address"`
	Type           domain.PropertyType   `yaml:"type"`
	TargetPrice    float64               `yaml:"target_price"`
	ReserveRatio   float64               `yaml:"reserve_ratio"`
	PredictedYield float64               `yaml:"predicted_yield"`
	RiskGrade      domain.RiskGrade      `yaml:"risk_grade"`
	Status         domain.PropertyStatus `yaml:"status"`
	VoterCount     *int                  `yaml:"voter_count"`
	StageNote      string                `yaml:"stage_note"`
	Image          string                `yaml:"image"`
	Lat            *float64              `yaml:"lat"`
	Lng            *float64              `yaml:"lng"`
}

// Load reads the catalogue at path, or the embedded one when path is empty.
func Load(path string) (domain.Snapshot, error) {
	if path == "" {
		return Parse(embedded)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(b)
}

// Default returns the embedded seed snapshot.
func Default() (domain.Snapshot, error) {
	return Parse(embedded)
}

func Parse(b []byte) (domain.Snapshot, error) {
	var c Catalogue
	if err := yaml.Unmarshal(b, &c); err != nil {
		return domain.Snapshot{}, fmt.Errorf("seed: parse: %w", err)
	}
	return c.Build()
}

// Build expands the catalogue into a snapshot. Every non-zero reserved
// amount is backed by one cohort reservation so that reserved amounts always
// match committed reservations: FULFILLED with a holding for tradable
// properties, ACTIVE otherwise.
func (c Catalogue) Build() (domain.Snapshot, error) {
	if c.User.ID == "" {
		return domain.Snapshot{}, fmt.Errorf("%w: user id is required", ErrInvalidCatalogue)
	}
	if len(c.Properties) == 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: no properties", ErrInvalidCatalogue)
	}
	cohort := c.CohortUserID
	if cohort == "" {
		cohort = defaultCohortUser
	}

	snap := domain.Snapshot{
		User:         c.User,
		Properties:   make([]domain.Property, 0, len(c.Properties)),
		Reservations: []domain.Reservation{},
		Holdings:     []domain.Holding{},
		DemandEvents: []domain.DemandEvent{},
	}
	for i, e := range c.Properties {
		n := i + 1
		p, err := e.property(fmt.Sprintf("p%d", n))
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("%w: entry %d: %v", ErrInvalidCatalogue, n, err)
		}
		snap.Properties = append(snap.Properties, p)
		if p.ReservedAmount == 0 {
			continue
		}

		r := domain.Reservation{
			ID:         fmt.Sprintf("r-seed-%d", n),
			UserID:     cohort,
			PropertyID: p.ID,
			Amount:     p.ReservedAmount,
			CreatedAt:  c.SeededAt,
			Status:     domain.ReservationActive,
		}
		if p.Status == domain.StatusTradable {
			r.Status = domain.ReservationFulfilled
			snap.Holdings = append(snap.Holdings, domain.Holding{
				ID:         fmt.Sprintf("h-seed-%d", n),
				UserID:     cohort,
				PropertyID: p.ID,
				Amount:     p.ReservedAmount,
				AvgPrice:   money.Round(p.TargetPrice / avgPriceUnit),
				CreatedAt:  c.SeededAt,
			})
		}
		snap.Reservations = append(snap.Reservations, r)
	}
	return snap, nil
}

func (e Entry) property(id string) (domain.Property, error) {
	if e.Name == "" {
		return domain.Property{}, errors.New("name is required")
	}
	if !money.Valid(e.TargetPrice) || e.TargetPrice < 0 {
		return domain.Property{}, errors.New("target_price must be a non-negative number")
	}
	if !money.Valid(e.ReserveRatio) || e.ReserveRatio < 0 {
		return domain.Property{}, errors.New("reserve_ratio must be a non-negative number")
	}
	status := e.Status
	if status == "" {
		status = domain.StatusVotingOpen
	}
	if !status.Valid() {
		return domain.Property{}, fmt.Errorf("unknown status %q", status)
	}
	voters := max(minVoters, int(money.Round(e.ReserveRatio*votersPerRatio)))
	if e.VoterCount != nil {
		voters = *e.VoterCount
	}
	return domain.Property{
		ID:             id,
		Name:           e.Name,
		Address:        e.Address,
		Type:           e.Type,
		TargetPrice:    e.TargetPrice,
		ReservedAmount: money.Round(e.TargetPrice * e.ReserveRatio),
		PredictedYield: e.PredictedYield,
		RiskGrade:      e.RiskGrade,
		Status:         status,
		VoterCount:     voters,
		StageNote:      e.StageNote,
		Image:          e.Image,
		Lat:            e.Lat,
		Lng:            e.Lng,
	}, nil
}
