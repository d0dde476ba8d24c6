package holdings

import (
	"fmt"
	"strings"
)

// CostBasisMethod defines how the cost basis of a position is updated when
// shares of an already held symbol are added.
type CostBasisMethod int

const (
	// PairwiseAverage replaces the cost basis by the arithmetic mean of the
	// current cost basis and the new purchase price, regardless of the
	// number of shares involved. The result depends on the order of the
	// purchases.
	PairwiseAverage CostBasisMethod = iota
	// WeightedAverage computes the share-weighted average price of all
	// purchases.
	WeightedAverage
)

func (m CostBasisMethod) String() string {
	switch m {
	case PairwiseAverage:
		return "pairwise"
	case WeightedAverage:
		return "weighted"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pairwise", "":
		return PairwiseAverage, nil
	case "weighted":
		return WeightedAverage, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// merge returns the cost basis after buying 'added' shares at 'price' on top
// of 'held' shares bought at 'basis'.
func (m CostBasisMethod) merge(held Quantity, basis Money, added Quantity, price Money) Money {
	switch m {
	case WeightedAverage:
		total := held.Add(added)
		return basis.Mul(held).Add(price.Mul(added)).Div(total)
	default:
		return basis.Add(price).Div(Q(2))
	}
}
