package workflow

import "sort"

// EligibleTargets computes the states a case may transition to from the
// given current state. Pure function; the single authoritative home of the
// progression rules, shared by the service, the catalog endpoint and the
// UI's quick actions.
//
// Rules:
//   - A terminal state has no outgoing transitions.
//   - A holding state may only advance to the single immediate next state
//     (order+1) or to any cancellation state, whatever its order.
//   - Every other state may jump to any state with a strictly greater
//     order.
//
// The result is sorted ascending by order.
func EligibleTargets(current State, catalog []State) []State {
	if current.IsTerminal() {
		return []State{}
	}

	holding := Classify(current) == CategoryHolding

	targets := make([]State, 0, len(catalog))
	for _, s := range catalog {
		if s.ID == current.ID {
			continue
		}
		if holding {
			if s.Order == current.Order+1 || Classify(s) == CategoryCancellation {
				targets = append(targets, Normalize(s))
			}
			continue
		}
		if s.Order > current.Order {
			targets = append(targets, Normalize(s))
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Order < targets[j].Order })
	return targets
}

// AllowedNextIDs returns just the ids of the eligible targets, for the
// catalog endpoint's allowedNext field.
func AllowedNextIDs(current State, catalog []State) []int64 {
	targets := EligibleTargets(current, catalog)
	ids := make([]int64, len(targets))
	for i, s := range targets {
		ids[i] = s.ID
	}
	return ids
}

// CanTransition reports whether target is reachable from current.
func CanTransition(current State, target State, catalog []State) bool {
	for _, s := range EligibleTargets(current, catalog) {
		if s.ID == target.ID {
			return true
		}
	}
	return false
}
