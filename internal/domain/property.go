package domain

// PropertyStatus is a stage of the funding lifecycle.
type PropertyStatus string

const (
	StatusDiscovery   PropertyStatus = "DISCOVERY"
	StatusVotingOpen  PropertyStatus = "VOTING_OPEN"
	StatusVotingMet   PropertyStatus = "VOTING_MET"
	StatusPublicOffer PropertyStatus = "PUBLIC_OFFER"
	StatusTradable    PropertyStatus = "TRADABLE"
	StatusClosed      PropertyStatus = "CLOSED"
)

// Valid reports whether s is one of the known statuses.
func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusDiscovery, StatusVotingOpen, StatusVotingMet, StatusPublicOffer, StatusTradable, StatusClosed:
		return true
	}
	return false
}

// PropertyType keeps the catalogue labels as they are stored.
type PropertyType string

const (
	TypeOffice      PropertyType = "오피스"
	TypeRetail      PropertyType = "상가"
	TypeResidential PropertyType = "주거"
	TypeLogistics   PropertyType = "물류"
	TypeOther       PropertyType = "기타"
)

type RiskGrade string

const (
	RiskLow  RiskGrade = "LOW"
	RiskMid  RiskGrade = "MID"
	RiskHigh RiskGrade = "HIGH"
)

// Property is a funding target. ReservedAmount always equals the sum of its
// ACTIVE and FULFILLED reservations.
type Property struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Address        string         `json:"address" yaml:"address"`
	Type           PropertyType   `json:"type" yaml:"type"`
	TargetPrice    float64        `json:"target_price" yaml:"target_price"`
	ReservedAmount float64        `json:"reserved_amount" yaml:"reserved_amount"`
	PredictedYield float64        `json:"predicted_yield" yaml:"predicted_yield"`
	RiskGrade      RiskGrade      `json:"risk_grade" yaml:"risk_grade"`
	Status         PropertyStatus `json:"status" yaml:"status"`
	VoterCount     int            `json:"voter_count" yaml:"voter_count"`
	StageNote      string         `json:"stage_note,omitempty" yaml:"stage_note,omitempty"`
	Image          string         `json:"image,omitempty" yaml:"image,omitempty"`
	Lat            *float64       `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lng            *float64       `json:"lng,omitempty" yaml:"lng,omitempty"`
}

// RegionCode derives the property's region from its address.
func (p Property) RegionCode() string {
	return RegionCode(p.Address)
}

// GoalMet reports whether committed capital has reached the target.
func (p Property) GoalMet() bool {
	return p.ReservedAmount >= p.TargetPrice
}
