package domain

// User is the acting investor profile. Its aggregates change only as a side
// effect of reservation and fulfillment operations.
type User struct {
	ID                         string  `json:"id" yaml:"id"`
	Name                       string  `json:"name" yaml:"name"`
	Balance                    float64 `json:"balance" yaml:"balance"`
	ReservationLimit           float64 `json:"reservation_limit" yaml:"reservation_limit"`
	ReservedTotal              float64 `json:"reserved_total" yaml:"reserved_total"`
	PortfolioTotal             float64 `json:"portfolio_total" yaml:"portfolio_total"`
	AvgBuyPrice                float64 `json:"avg_buy_price" yaml:"avg_buy_price"`
	TrustScore                 float64 `json:"trust_score" yaml:"trust_score"`
	ReservationFulfillmentRate float64 `json:"reservation_fulfillment_rate" yaml:"reservation_fulfillment_rate"`
}
