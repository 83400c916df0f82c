package core

import "time"

type (
	// DateRange is an inclusive pair of calendar days. The effective window
	// follows the business-day convention: a day starts at 09:00 and runs
	// to 08:59:59 of the next calendar day.
	DateRange struct {
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	}

	// Criteria is a set of independent predicates over the item collection.
	// An empty list (or nil range) means no constraint on that dimension.
	Criteria struct {
		Owners     []string   `json:"owner"`
		Statuses   []string   `json:"status"`
		Games      []string   `json:"game"`
		DetailTags []string   `json:"details"`
		Created    *DateRange `json:"createdAtRange,omitempty"`
	}
)

// Window returns the effective [start, end] instants for the range:
// From at 09:00:00 through To plus one day at 08:59:59, both inclusive.
func (r DateRange) Window() (time.Time, time.Time) {
	loc := r.From.Location()
	start := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 9, 0, 0, 0, loc)
	next := r.To.AddDate(0, 0, 1)
	end := time.Date(next.Year(), next.Month(), next.Day(), 8, 59, 59, 0, next.Location())
	return start, end
}

// Contains reports whether t falls inside the business-day window.
func (r DateRange) Contains(t time.Time) bool {
	start, end := r.Window()
	return !t.Before(start) && !t.After(end)
}

// IsEmpty reports whether no dimension carries a constraint.
func (c Criteria) IsEmpty() bool {
	return len(c.Owners) == 0 && len(c.Statuses) == 0 && len(c.Games) == 0 &&
		len(c.DetailTags) == 0 && c.Created == nil
}

// Matches reports whether the item satisfies every active clause.
func (c Criteria) Matches(it Item) bool {
	if len(c.Owners) > 0 && !contains(c.Owners, string(it.Owner)) {
		return false
	}
	if len(c.Statuses) > 0 && !contains(c.Statuses, string(it.Status)) {
		return false
	}
	if len(c.Games) > 0 && !contains(c.Games, string(it.Game)) {
		return false
	}
	if len(c.DetailTags) > 0 && !overlaps(it.DetailTags(), c.DetailTags) {
		return false
	}
	if c.Created != nil {
		// An item without a creation timestamp never matches a date clause.
		if it.CreatedAt.IsZero() || !c.Created.Contains(it.CreatedAt) {
			return false
		}
	}
	return true
}

// Filter returns the subset of items matching the criteria, preserving
// the input order. The input slice is never mutated.
func Filter(items []Item, c Criteria) []Item {
	if c.IsEmpty() {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if c.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// overlaps reports whether any tag of the item appears in the wanted set.
func overlaps(have, want []string) bool {
	for _, h := range have {
		if contains(want, h) {
			return true
		}
	}
	return false
}
