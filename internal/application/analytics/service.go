package analytics

import "coown-backend/internal/domain"

// SnapshotSource hands out isolated copies of the current state.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// Dashboard bundles every aggregate computed from one snapshot, so the
// numbers always agree with each other.
type Dashboard struct {
	Kpi           DemandKpi          `json:"kpi"`
	Funnel        FunnelMetrics      `json:"funnel"`
	Regions       []RegionSummary    `json:"regions"`
	PriorityBoard []PropertyPriority `json:"priority_board"`
}

type Service struct {
	source SnapshotSource
}

func NewService(source SnapshotSource) *Service {
	return &Service{source: source}
}

func (s *Service) Kpi() DemandKpi {
	return ComputeDemandKpi(s.source.Snapshot())
}

func (s *Service) Regions() []RegionSummary {
	return ComputeRegionSummaries(s.source.Snapshot())
}

func (s *Service) Funnel() FunnelMetrics {
	return ComputeFunnelMetrics(s.source.Snapshot())
}

// PriorityBoard returns the top entries of the board; top <= 0 means all.
func (s *Service) PriorityBoard(top int) []PropertyPriority {
	return limit(ComputePriorityBoard(s.source.Snapshot()), top)
}

func (s *Service) MapMarkers() []MapMarker {
	return ComputeMapMarkers(s.source.Snapshot())
}

// Dashboard computes every aggregate from a single snapshot.
func (s *Service) Dashboard(top int) Dashboard {
	return BuildDashboard(s.source.Snapshot(), top)
}

// BuildDashboard is Dashboard for a snapshot the caller already holds.
func BuildDashboard(snap domain.Snapshot, top int) Dashboard {
	return Dashboard{
		Kpi:           ComputeDemandKpi(snap),
		Funnel:        ComputeFunnelMetrics(snap),
		Regions:       ComputeRegionSummaries(snap),
		PriorityBoard: limit(ComputePriorityBoard(snap), top),
	}
}

func limit[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
