package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/foundry/core/economy"
)

// Mode selects how per-instance scores are combined.
type Mode string

const (
	// ModeWeightedSum sums instance ID times score over all selected instances.
	ModeWeightedSum Mode = "weighted_sum"
	// ModeProduct multiplies the scores of the selected instances.
	ModeProduct Mode = "product"
)

// ErrMode is returned for an unknown aggregation mode.
var ErrMode = errors.New("unknown aggregation mode")

// ParseMode accepts the config spellings of a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "weighted_sum", "sum", "quality":
		return ModeWeightedSum, nil
	case "product", "prod":
		return ModeProduct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMode, s)
	}
}

// Request selects the instances to evaluate and how to combine them.
type Request struct {
	Mode Mode
	// First keeps only the first N instances in input order. Zero keeps all.
	First int
	// IDs keeps only the listed instance IDs, in the listed order. It takes
	// precedence over First.
	IDs []int
}

// Select applies the request's subset to economies. Duplicate instance IDs
// and unknown requested IDs are configuration errors.
func Select(economies []*economy.Economy, req Request) ([]*economy.Economy, error) {
	byID := make(map[int]*economy.Economy, len(economies))
	for i, e := range economies {
		if e == nil {
			return nil, &economy.ConfigError{Economy: i, Field: "economies", Reason: "nil economy"}
		}
		if _, dup := byID[e.ID()]; dup {
			return nil, &economy.ConfigError{Economy: e.ID(), Field: "id", Reason: "duplicate instance id"}
		}
		byID[e.ID()] = e
	}
	if req.First < 0 {
		return nil, fmt.Errorf("first must not be negative, got %d", req.First)
	}
	if len(req.IDs) > 0 {
		out := make([]*economy.Economy, 0, len(req.IDs))
		for _, id := range req.IDs {
			e, ok := byID[id]
			if !ok {
				return nil, &economy.ConfigError{Economy: id, Field: "instances", Reason: "no such instance"}
			}
			out = append(out, e)
		}
		return out, nil
	}
	if req.First > 0 && req.First < len(economies) {
		return economies[:req.First], nil
	}
	return economies, nil
}

// Aggregate combines instance scores according to mode. The weighted sum of
// nothing is 0 and the product of nothing is 1.
func Aggregate(mode Mode, results []InstanceResult) (int, error) {
	switch mode {
	case ModeWeightedSum:
		total := 0
		for _, r := range results {
			total += r.ID * r.Result.Score
		}
		return total, nil
	case ModeProduct:
		total := 1
		for _, r := range results {
			total *= r.Result.Score
		}
		return total, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrMode, mode)
	}
}
