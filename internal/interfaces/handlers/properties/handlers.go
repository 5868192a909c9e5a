package properties

import (
	"strings"

	"coown-backend/internal/application/analytics"
	"coown-backend/internal/application/workflow"
	"coown-backend/internal/domain"
	"coown-backend/internal/pkg/money"
	"coown-backend/internal/pkg/response"
	"coown-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Store is the read side of the demand store used here.
type Store interface {
	Properties(status domain.PropertyStatus) []domain.Property
	GetPropertyByID(id string) (domain.Property, bool)
	GetActiveReservation(userID, propertyID string) (domain.Reservation, bool)
	User() domain.User
}

type MarkerSource interface {
	MapMarkers() []analytics.MapMarker
}

type Handlers struct {
	Store   Store
	Markers MarkerSource
}

// View is a property with its display fields.
type View struct {
	domain.Property
	RegionCode        string  `json:"region_code"`
	StatusLabel       string  `json:"status_label"`
	StatusDescription string  `json:"status_description"`
	ProgressPercent   float64 `json:"progress_percent"`
	// ProgressBar is ProgressPercent capped to 0..100 for bar widths.
	ProgressBar       float64 `json:"progress_bar"`
	CanReserve        bool    `json:"can_reserve"`
	CanOpenOffer      bool    `json:"can_open_offer"`
	CanFulfill        bool    `json:"can_fulfill"`
}

func NewView(p domain.Property) View {
	return View{
		Property:          p,
		RegionCode:        p.RegionCode(),
		StatusLabel:       workflow.Label(p.Status),
		StatusDescription: workflow.Describe(p.Status),
		ProgressPercent:   money.Percent(p.ReservedAmount, p.TargetPrice),
		ProgressBar:       money.Round(money.Clamp01(money.Ratio(p.ReservedAmount, p.TargetPrice)) * 100),
		CanReserve:        workflow.CanReserve(p.Status),
		CanOpenOffer:      workflow.CanOpenOffer(p.Status) && p.GoalMet(),
		CanFulfill:        workflow.CanFulfill(p.Status),
	}
}

// List handles GET /api/v1/properties?status=VOTING_OPEN.
func (h *Handlers) List(c *fiber.Ctx) error {
	status := domain.PropertyStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	if status != "" && !status.Valid() {
		return response.Error(c, "Unknown property status", fiber.StatusBadRequest, fiber.Map{"status": status})
	}
	props := h.Store.Properties(status)
	views := make([]View, 0, len(props))
	for _, p := range props {
		views = append(views, NewView(p))
	}
	return response.Success(c, "Properties fetched successfully", views, fiber.Map{"count": len(views)})
}

// Map handles GET /api/v1/properties/map.
func (h *Handlers) Map(c *fiber.Ctx) error {
	markers := h.Markers.MapMarkers()
	return response.Success(c, "Map markers fetched successfully", markers, fiber.Map{"count": len(markers)})
}

// Get handles GET /api/v1/properties/:id.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsValidID(id) {
		return response.DomainError(c, domain.ErrPropertyNotFound)
	}
	p, ok := h.Store.GetPropertyByID(id)
	if !ok {
		return response.DomainError(c, domain.ErrPropertyNotFound)
	}
	return response.Success(c, "Property fetched successfully", NewView(p), nil)
}

// ActiveReservation handles GET /api/v1/properties/:id/active-reservation.
// Data is null when the user has no ACTIVE reservation on the property.
func (h *Handlers) ActiveReservation(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validation.IsValidID(id) {
		return response.DomainError(c, domain.ErrPropertyNotFound)
	}
	if _, ok := h.Store.GetPropertyByID(id); !ok {
		return response.DomainError(c, domain.ErrPropertyNotFound)
	}
	r, ok := h.Store.GetActiveReservation(h.Store.User().ID, id)
	if !ok {
		return response.Success(c, "No active reservation", nil, nil)
	}
	return response.Success(c, "Active reservation fetched successfully", r, nil)
}

// TransitionView is one lifecycle edge with display labels.
type TransitionView struct {
	From      domain.PropertyStatus `json:"from"`
	To        domain.PropertyStatus `json:"to"`
	FromLabel string                `json:"from_label"`
	ToLabel   string                `json:"to_label"`
}

// Workflow handles GET /api/v1/workflow.
func (h *Handlers) Workflow(c *fiber.Ctx) error {
	ts := workflow.Transitions()
	views := make([]TransitionView, 0, len(ts))
	for _, t := range ts {
		views = append(views, TransitionView{
			From:      t.From,
			To:        t.To,
			FromLabel: workflow.Label(t.From),
			ToLabel:   workflow.Label(t.To),
		})
	}
	return response.Success(c, "Workflow fetched successfully", views, fiber.Map{"count": len(views)})
}
