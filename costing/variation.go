package costing

import (
	"math"
	"sort"
	"time"
)

type entityRef struct {
	id       string
	name     string
	category string
	supplier string
}

func (s *Snapshot) entities(kind Kind) []entityRef {
	var out []entityRef
	switch kind {
	case KindPurchasedItem:
		for _, it := range s.data.Items {
			out = append(out, entityRef{id: it.ID, name: it.Name, category: it.Category, supplier: it.SupplierName})
		}
	case KindIngredient:
		for _, ing := range s.data.Ingredients {
			ref := entityRef{id: ing.ID, name: ing.Name}
			if it, ok := s.index.Item(ing.PurchasedItemLink); ok {
				ref.category = it.Category
				ref.supplier = it.SupplierName
			}
			out = append(out, ref)
		}
	case KindElaboration:
		for _, e := range s.data.Elaborations {
			out = append(out, entityRef{id: e.ID, name: e.Name})
		}
	case KindRecipe:
		for _, r := range s.data.Recipes {
			out = append(out, entityRef{id: r.ID, name: r.Name, category: r.Category})
		}
	}
	return out
}

// Analyze ranks every entity of kind by how much its cost moved between start
// and end, largest absolute movement first. Entities without cost data at
// both ends are left out. A reversed range yields nothing.
func (s *Snapshot) Analyze(kind Kind, start, end time.Time) []VariationResult {
	if dayOf(start).After(dayOf(end)) {
		return []VariationResult{}
	}

	startCalc := s.NewCalculator()
	endCalc := s.NewCalculator()
	if kind == KindRecipe {
		s.warmElaborations(startCalc, start)
		s.warmElaborations(endCalc, end)
	}

	results := make([]VariationResult, 0)
	for _, e := range s.entities(kind) {
		startPrice := startCalc.CostOf(e.id, kind, start)
		endPrice := endCalc.CostOf(e.id, kind, end)
		if startPrice == 0 && endPrice == 0 {
			continue
		}
		diff := endPrice - startPrice
		results = append(results, VariationResult{
			ID:         e.id,
			Name:       e.name,
			Kind:       kind,
			StartPrice: startPrice,
			EndPrice:   endPrice,
			Diff:       diff,
			Percent:    percentChange(startPrice, endPrice),
			Category:   e.category,
			Supplier:   e.supplier,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Diff) > math.Abs(results[j].Diff)
	})
	return results
}

// warmElaborations rolls up every elaboration once for date so recipes
// sharing them read the memo.
func (s *Snapshot) warmElaborations(c *Calculator, date time.Time) {
	for _, e := range s.data.Elaborations {
		c.CostOf(e.ID, KindElaboration, date)
	}
}

// Breakdown splits the variation of an elaboration or recipe into the
// contributions of its direct components. Other kinds have no components.
func (s *Snapshot) Breakdown(id string, kind Kind, start, end time.Time) []ComponentBreakdown {
	if dayOf(start).After(dayOf(end)) {
		return []ComponentBreakdown{}
	}
	startCalc := s.NewCalculator()
	endCalc := s.NewCalculator()

	out := make([]ComponentBreakdown, 0)
	switch kind {
	case KindElaboration:
		e, ok := s.elaborations[id]
		if !ok {
			return out
		}
		y := yieldOf(e)
		for _, comp := range s.components[id] {
			sp := startCalc.componentContribution(comp, dayOf(start), 0) / y
			ep := endCalc.componentContribution(comp, dayOf(end), 0) / y
			out = append(out, ComponentBreakdown{
				ID:         comp.Ref,
				Name:       s.Name(comp.Ref, comp.RefKind),
				Kind:       comp.RefKind,
				Quantity:   comp.NetQuantity,
				StartPrice: sp,
				EndPrice:   ep,
			})
		}
	case KindRecipe:
		r, ok := s.recipes[id]
		if !ok {
			return out
		}
		m := marginFactor(r)
		for _, u := range s.recipeUsages[id] {
			sp := startCalc.CostOf(u.elaborationID, KindElaboration, start) * u.quantity * m
			ep := endCalc.CostOf(u.elaborationID, KindElaboration, end) * u.quantity * m
			out = append(out, ComponentBreakdown{
				ID:         u.elaborationID,
				Name:       s.Name(u.elaborationID, KindElaboration),
				Kind:       KindElaboration,
				Quantity:   u.quantity,
				StartPrice: sp,
				EndPrice:   ep,
			})
		}
	default:
		return out
	}

	parentDiff := endCalc.CostOf(id, kind, end) - startCalc.CostOf(id, kind, start)
	for i := range out {
		out[i].Diff = out[i].EndPrice - out[i].StartPrice
		out[i].Percent = percentChange(out[i].StartPrice, out[i].EndPrice)
		if parentDiff != 0 {
			out[i].ContributionPercent = out[i].Diff / parentDiff * 100
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Diff) > math.Abs(out[j].Diff)
	})
	return out
}
