package domain

// Urgency classifies how soon a product is expected to stock out.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyWarning  Urgency = "warning"
	UrgencyOK       Urgency = "ok"
)

var urgencyRanks = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyWarning:  1,
	UrgencyOK:       2,
}

// Rank returns the sort rank of an urgency tier, critical first. Unknown
// tiers sort after every known one.
func (u Urgency) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}

	return len(urgencyRanks)
}
