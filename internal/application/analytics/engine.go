// Package analytics derives read-only aggregates from a demand snapshot.
// Every function is pure: it reads the snapshot it is given and nothing else.
package analytics

import (
	"sort"
	"time"

	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/money"
)

const (
	intentWeight      = 0.7
	participantWeight = 0.3
	// Each distinct participant counts as this much committed capital.
	participantValue = 10000000

	coverageWeight      = 60
	growthWeight        = 30
	concentrationWeight = 10
	topContributors     = 5
	growthWindow        = 7 * 24 * time.Hour
)

// DemandKpi is the headline demand summary across all properties.
type DemandKpi struct {
	TotalIntent        float64 `json:"total_intent"`
	UniqueParticipants int     `json:"unique_participants"`
	VotingMetCount     int     `json:"voting_met_count"`
	OfferSuccessRate   float64 `json:"offer_success_rate"`
	FulfillmentRate    float64 `json:"fulfillment_rate"`
}

// RegionSummary aggregates demand for one region code.
type RegionSummary struct {
	RegionCode         string  `json:"region_code"`
	PropertyCount      int     `json:"property_count"`
	IntentTotal        float64 `json:"intent_total"`
	UniqueParticipants int     `json:"unique_participants"`
	HotnessScore       float64 `json:"hotness_score"`
}

// FunnelMetrics counts properties at each lifecycle stage.
type FunnelMetrics struct {
	VotingOpen  int `json:"voting_open"`
	VotingMet   int `json:"voting_met"`
	PublicOffer int `json:"public_offer"`
	Tradable    int `json:"tradable"`
}

// PropertyPriority is a property with its priority score and the inputs to it.
type PropertyPriority struct {
	Property          domain.Property `json:"property"`
	Coverage          float64         `json:"coverage"`
	Growth7d          float64         `json:"growth_7d"`
	ConcentrationTop5 float64         `json:"concentration_top5"`
	PriorityScore     float64         `json:"priority_score"`
}

func countStatus(props []domain.Property, status domain.PropertyStatus) int {
	n := 0
	for _, p := range props {
		if p.Status == status {
			n++
		}
	}
	return n
}

func distinctUsers(events []domain.DemandEvent, keep func(domain.DemandEvent) bool) int {
	seen := make(map[string]struct{})
	for _, e := range events {
		if keep == nil || keep(e) {
			seen[e.UserID] = struct{}{}
		}
	}
	return len(seen)
}

// ComputeDemandKpi summarises the whole snapshot. Rates are ratios in [0, 1]
// and are 0 when their denominator is empty.
func ComputeDemandKpi(snap domain.Snapshot) DemandKpi {
	var total float64
	for _, p := range snap.Properties {
		total += p.ReservedAmount
	}
	var committed, fulfilled float64
	for _, r := range snap.Reservations {
		if !r.Committed() {
			continue
		}
		committed += r.Amount
		if r.Status == domain.ReservationFulfilled {
			fulfilled += r.Amount
		}
	}
	offers := countStatus(snap.Properties, domain.StatusPublicOffer)
	tradable := countStatus(snap.Properties, domain.StatusTradable)

	return DemandKpi{
		TotalIntent:        total,
		UniqueParticipants: distinctUsers(snap.DemandEvents, nil),
		VotingMetCount:     countStatus(snap.Properties, domain.StatusVotingMet),
		OfferSuccessRate:   money.Ratio(float64(tradable), float64(offers)),
		FulfillmentRate:    money.Ratio(fulfilled, committed),
	}
}

// ComputeRegionSummaries groups properties by region code, hottest first.
// Regions with equal scores keep the order in which they were first seen.
func ComputeRegionSummaries(snap domain.Snapshot) []RegionSummary {
	out := []RegionSummary{}
	idx := map[string]int{}
	for _, p := range snap.Properties {
		code := p.RegionCode()
		i, ok := idx[code]
		if !ok {
			i = len(out)
			idx[code] = i
			out = append(out, RegionSummary{RegionCode: code})
		}
		out[i].PropertyCount++
		out[i].IntentTotal += p.ReservedAmount
	}

	users := make(map[string]map[string]struct{}, len(out))
	for _, e := range snap.DemandEvents {
		if _, ok := idx[e.RegionCode]; !ok {
			continue
		}
		if users[e.RegionCode] == nil {
			users[e.RegionCode] = map[string]struct{}{}
		}
		users[e.RegionCode][e.UserID] = struct{}{}
	}

	for i := range out {
		r := &out[i]
		r.UniqueParticipants = len(users[r.RegionCode])
		blended := r.IntentTotal*intentWeight + float64(r.UniqueParticipants)*participantValue*participantWeight
		r.HotnessScore = money.Ratio(blended, float64(r.PropertyCount))
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].HotnessScore > out[b].HotnessScore
	})
	return out
}

// ComputeFunnelMetrics counts properties per funnel stage. CLOSED and
// DISCOVERY are not part of the funnel.
func ComputeFunnelMetrics(snap domain.Snapshot) FunnelMetrics {
	return FunnelMetrics{
		VotingOpen:  countStatus(snap.Properties, domain.StatusVotingOpen),
		VotingMet:   countStatus(snap.Properties, domain.StatusVotingMet),
		PublicOffer: countStatus(snap.Properties, domain.StatusPublicOffer),
		Tradable:    countStatus(snap.Properties, domain.StatusTradable),
	}
}

// ComputePriorityBoard ranks properties for acquisition review, highest
// score first; ties keep catalogue order. The 7-day growth window ends at
// snap.AsOf, or now when AsOf is zero.
func ComputePriorityBoard(snap domain.Snapshot) []PropertyPriority {
	now := snap.AsOf
	if now.IsZero() {
		now = time.Now()
	}
	since := now.Add(-growthWindow)

	recent := map[string]float64{}
	contrib := map[string]map[string]float64{}
	for _, e := range snap.DemandEvents {
		if e.EventType != domain.EventCreate {
			continue
		}
		if !e.CreatedAt.Before(since) {
			recent[e.PropertyID] += e.IntentAmount
		}
		if contrib[e.PropertyID] == nil {
			contrib[e.PropertyID] = map[string]float64{}
		}
		contrib[e.PropertyID][e.UserID] += e.IntentAmount
	}

	out := make([]PropertyPriority, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		coverage := money.Ratio(p.ReservedAmount, p.TargetPrice)
		growth := money.Ratio(recent[p.ID], p.ReservedAmount)
		conc := concentration(contrib[p.ID], topContributors)
		out = append(out, PropertyPriority{
			Property:          p,
			Coverage:          coverage,
			Growth7d:          growth,
			ConcentrationTop5: conc,
			PriorityScore:     coverage*coverageWeight + growth*growthWeight + (1-conc)*concentrationWeight,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].PriorityScore > out[b].PriorityScore
	})
	return out
}

// concentration is the share of the total contributed by the top n users.
func concentration(byUser map[string]float64, n int) float64 {
	totals := make([]float64, 0, len(byUser))
	var all float64
	for _, v := range byUser {
		totals = append(totals, v)
		all += v
	}
	if all == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(totals)))
	var top float64
	for i := 0; i < len(totals) && i < n; i++ {
		top += totals[i]
	}
	return top / all
}
