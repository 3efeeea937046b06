package costing

import (
	"math"
	"sort"
	"time"
)

const eventEpsilon = 0.001

// CostEvents lists the days up to end on which a price feeding the entity
// changed, with the entity cost on that day and the items that moved. Days on
// which the changes cancel out are skipped, except the first one.
func (s *Snapshot) CostEvents(id string, kind Kind, end time.Time) []CostEvent {
	items := s.reachableItems(id, kind)
	if len(items) == 0 {
		return []CostEvent{}
	}

	last := dayOf(end)
	seen := make(map[time.Time]struct{})
	var days []time.Time
	for _, itemID := range items {
		for _, dp := range s.index.seriesOf(itemID) {
			if dp.day.After(last) {
				break
			}
			if _, ok := seen[dp.day]; !ok {
				seen[dp.day] = struct{}{}
				days = append(days, dp.day)
			}
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	calc := s.NewCalculator()
	out := make([]CostEvent, 0, len(days))
	prevCost := 0.0
	for i, day := range days {
		cost := calc.CostOf(id, kind, day)
		var prevDay time.Time
		if i > 0 {
			prevDay = days[i-1]
		}

		changed := make([]PriceChange, 0)
		for _, itemID := range items {
			newPrice := s.index.PriceAsOf(itemID, day)
			oldPrice := s.index.PriceAsOf(itemID, prevDay)
			if math.Abs(newPrice-oldPrice) > eventEpsilon {
				changed = append(changed, PriceChange{
					ItemID:   itemID,
					Name:     s.Name(itemID, KindPurchasedItem),
					OldPrice: oldPrice,
					NewPrice: newPrice,
				})
			}
		}

		if i == 0 || math.Abs(cost-prevCost) > eventEpsilon {
			out = append(out, CostEvent{Date: day, Cost: cost, ChangedItems: changed})
			prevCost = cost
		}
	}
	return out
}

// reachableItems returns the ids of purchased items the entity's cost depends
// on, sorted.
func (s *Snapshot) reachableItems(id string, kind Kind) []string {
	found := make(map[string]struct{})
	visited := make(map[string]struct{})

	var walk func(id string, kind Kind, depth int)
	walk = func(id string, kind Kind, depth int) {
		if depth > MaxDepth {
			return
		}
		switch kind {
		case KindPurchasedItem:
			if it, ok := s.index.Item(id); ok {
				found[it.ID] = struct{}{}
			}
		case KindIngredient:
			if ing, ok := s.ingredients[id]; ok {
				walk(ing.PurchasedItemLink, KindPurchasedItem, depth+1)
			}
		case KindElaboration:
			if _, ok := visited[id]; ok {
				return
			}
			visited[id] = struct{}{}
			for _, c := range s.components[id] {
				walk(c.Ref, c.RefKind, depth+1)
			}
		case KindRecipe:
			for _, u := range s.recipeUsages[id] {
				walk(u.elaborationID, KindElaboration, depth+1)
			}
		}
	}
	walk(id, kind, 0)

	out := make([]string, 0, len(found))
	for itemID := range found {
		out = append(out, itemID)
	}
	sort.Strings(out)
	return out
}
