package workflow

import "coown-backend/internal/domain"

var labels = map[domain.PropertyStatus]string{
	domain.StatusDiscovery:   "Under review",
	domain.StatusVotingOpen:  "Reservations open",
	domain.StatusVotingMet:   "Goal met",
	domain.StatusPublicOffer: "Public offer",
	domain.StatusTradable:    "Tradable",
	domain.StatusClosed:      "Closed",
}

var descriptions = map[domain.PropertyStatus]string{
	domain.StatusDiscovery:   "Conditional contract under review; reservations have not opened yet.",
	domain.StatusVotingOpen:  "Collecting reservation deposits to gauge demand.",
	domain.StatusVotingMet:   "Reservation goal met. Waiting for the public offer to open.",
	domain.StatusPublicOffer: "Public offer in progress; reservations can be fulfilled into holdings.",
	domain.StatusTradable:    "Offer and allocation complete; holdings are tradable.",
	domain.StatusClosed:      "This property is closed.",
}

// Label returns a short display name for s.
func Label(s domain.PropertyStatus) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Describe returns a one-sentence explanation of s.
func Describe(s domain.PropertyStatus) string {
	return descriptions[s]
}
