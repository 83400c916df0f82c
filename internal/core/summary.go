package core

import "sort"

type (
	// TagCount pairs a detail tag with how many sold items carry it.
	TagCount struct {
		Tag   string  `json:"tag"`
		Count int     `json:"count"`
		Price float64 `json:"price"`
	}

	// Summary bundles every aggregate the dashboard shows for one
	// (possibly filtered) item collection.
	Summary struct {
		Total          float64            `json:"total"`
		NetTotal       float64            `json:"netTotal"`
		NetOwner       Owner              `json:"netOwner"`
		SoldByOwner    map[string]float64 `json:"soldByOwner"`
		PendingByOwner map[string]float64 `json:"pendingByOwner"`
		TotalByGame    map[string]float64 `json:"totalByGame"`
		TopDetails     []TagCount         `json:"topDetails"`
		ItemCount      int                `json:"itemCount"`
	}
)

// TopDetailsDefault is how many leading detail tags the dashboard card shows.
const TopDetailsDefault = 3

// SoldByOwner sums price per owner over sold items.
func SoldByOwner(items []Item) map[string]float64 {
	return priceByOwner(items, StatusSold)
}

// PendingByOwner sums price per owner over pending items.
func PendingByOwner(items []Item) map[string]float64 {
	return priceByOwner(items, StatusPending)
}

func priceByOwner(items []Item, status Status) map[string]float64 {
	acc := map[string]float64{}
	for _, it := range items {
		if it.Status == status {
			acc[string(it.Owner)] += it.Price
		}
	}
	return acc
}

// Total sums price over all items regardless of status.
func Total(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}

// NetTotal sums price over items belonging to the distinguished owner.
// The owner comes from configuration, not from a literal in here.
func NetTotal(items []Item, owner Owner) float64 {
	var sum float64
	for _, it := range items {
		if it.Owner == owner {
			sum += it.Price
		}
	}
	return sum
}

// TotalByGame sums price per game over all items.
func TotalByGame(items []Item) map[string]float64 {
	acc := map[string]float64{}
	for _, it := range items {
		acc[string(it.Game)] += it.Price
	}
	return acc
}

// SoldCountByDetail counts sold items per detail tag. An item contributes
// once per distinct tag it carries.
func SoldCountByDetail(items []Item) map[string]int {
	acc := map[string]int{}
	for _, it := range items {
		if it.Status != StatusSold {
			continue
		}
		for _, tag := range it.DetailTags() {
			acc[tag]++
		}
	}
	return acc
}

// SoldRevenueByDetail sums price of sold items per detail tag, with the
// same per-tag fan-out as SoldCountByDetail.
func SoldRevenueByDetail(items []Item) map[string]float64 {
	acc := map[string]float64{}
	for _, it := range items {
		if it.Status != StatusSold {
			continue
		}
		for _, tag := range it.DetailTags() {
			acc[tag] += it.Price
		}
	}
	return acc
}

// TopDetails returns the n detail tags with the highest sold counts,
// each annotated with its sold revenue. Ties keep the order in which
// the tags first appear in the item collection, which makes the result
// deterministic across runs.
func TopDetails(items []Item, n int) []TagCount {
	counts := map[string]int{}
	revenue := map[string]float64{}
	var order []string
	for _, it := range items {
		if it.Status != StatusSold {
			continue
		}
		for _, tag := range it.DetailTags() {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
			revenue[tag] += it.Price
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag], Price: revenue[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summarize computes the full dashboard summary in one pass set.
// Every aggregate is recomputed from scratch; nothing is maintained
// incrementally.
func Summarize(items []Item, netOwner Owner) Summary {
	return Summary{
		Total:          Total(items),
		NetTotal:       NetTotal(items, netOwner),
		NetOwner:       netOwner,
		SoldByOwner:    SoldByOwner(items),
		PendingByOwner: PendingByOwner(items),
		TotalByGame:    TotalByGame(items),
		TopDetails:     TopDetails(items, TopDetailsDefault),
		ItemCount:      len(items),
	}
}
