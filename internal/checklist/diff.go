package checklist

import (
	"strings"

	"github.com/aygame101/cardboard/internal/trello"
)

// Plan is the set of remote mutations that brings a checklist's items in line
// with a desired item list.
type Plan struct {
	Deletes []trello.CheckItem // remote order
	Adds    []string           // desired order
}

// Empty reports whether the plan schedules no calls.
func (p Plan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Adds) == 0
}

// Calls returns the number of remote calls the plan schedules.
func (p Plan) Calls() int {
	return len(p.Deletes) + len(p.Adds)
}

// FilterDesired trims every entry and drops the blank ones. Order and
// duplicates are preserved.
func FilterDesired(desired []string) []string {
	valid := make([]string, 0, len(desired))
	for _, name := range desired {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			valid = append(valid, trimmed)
		}
	}
	return valid
}

// Diff computes the minimal plan for desired against the remote snapshot.
//
// Items are matched by exact name. Each desired entry, left to right, claims
// the first unclaimed remote item with the same name; unclaimed remote items
// are deleted and desired entries that claimed nothing are added. A pure
// rename is therefore a delete plus an add, and reordering alone produces an
// empty plan.
func Diff(remote []trello.CheckItem, desired []string) Plan {
	valid := FilterDesired(desired)

	byName := make(map[string][]int, len(remote))
	for i, item := range remote {
		byName[item.Name] = append(byName[item.Name], i)
	}

	claimed := make([]bool, len(remote))
	var plan Plan
	for _, name := range valid {
		candidates := byName[name]
		if len(candidates) == 0 {
			plan.Adds = append(plan.Adds, name)
			continue
		}
		claimed[candidates[0]] = true
		byName[name] = candidates[1:]
	}
	for i, item := range remote {
		if !claimed[i] {
			plan.Deletes = append(plan.Deletes, item)
		}
	}
	return plan
}
