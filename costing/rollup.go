package costing

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// MaxDepth bounds elaboration nesting. Deeper references, which only occur
// with self-referencing or cyclic data, contribute zero.
const MaxDepth = 8

type memoKey struct {
	kind Kind
	id   string
	day  time.Time
}

// Calculator rolls up costs over one snapshot and memoizes every
// (entity, day) it has computed. It belongs to a single call and is not safe
// for concurrent use; the snapshot it reads is.
type Calculator struct {
	snap *Snapshot
	memo map[memoKey]float64
}

func (s *Snapshot) NewCalculator() *Calculator {
	return &Calculator{snap: s, memo: make(map[memoKey]float64)}
}

// CostOf is a convenience for a single lookup without memo reuse.
func (s *Snapshot) CostOf(id string, kind Kind, date time.Time) float64 {
	return s.NewCalculator().CostOf(id, kind, date)
}

// CostOf returns the unit cost of an entity as of date.
func (c *Calculator) CostOf(id string, kind Kind, date time.Time) float64 {
	return c.cost(id, kind, dayOf(date), 0)
}

func (c *Calculator) cost(id string, kind Kind, day time.Time, depth int) float64 {
	if depth > MaxDepth {
		c.snap.log.Warn("cost rollup depth exceeded",
			zap.String("id", id), zap.String("kind", string(kind)), zap.Int("depth", depth))
		return 0
	}

	key := memoKey{kind: kind, id: id, day: day}
	if v, ok := c.memo[key]; ok {
		return v
	}

	var v float64
	switch kind {
	case KindPurchasedItem:
		v = c.snap.index.PriceAsOf(id, day)
	case KindIngredient:
		v = c.ingredientCost(id, day)
	case KindElaboration:
		v = c.elaborationCost(id, day, depth)
	case KindRecipe:
		v = c.recipeCost(id, day, depth)
	}
	v = finite(v)

	// values at the depth limit depend on the path taken
	if depth < MaxDepth {
		c.memo[key] = v
	}
	return v
}

func (c *Calculator) ingredientCost(id string, day time.Time) float64 {
	ing, ok := c.snap.ingredients[id]
	if !ok || ing.PurchasedItemLink == "" {
		return 0
	}
	return c.snap.index.PriceAsOf(ing.PurchasedItemLink, day)
}

func (c *Calculator) elaborationCost(id string, day time.Time, depth int) float64 {
	e, ok := c.snap.elaborations[id]
	if !ok {
		return 0
	}
	sum := 0.0
	for _, comp := range c.snap.components[id] {
		sum += c.componentContribution(comp, day, depth)
	}
	return sum / yieldOf(e)
}

// componentContribution is the batch cost of one component line, before the
// division by the elaboration yield.
func (c *Calculator) componentContribution(comp Component, day time.Time, depth int) float64 {
	unit := c.cost(comp.Ref, comp.RefKind, day, depth+1)
	return unit * comp.NetQuantity * (1 + comp.WastePercent/100)
}

func (c *Calculator) recipeCost(id string, day time.Time, depth int) float64 {
	r, ok := c.snap.recipes[id]
	if !ok {
		return 0
	}
	sum := 0.0
	for _, u := range c.snap.recipeUsages[id] {
		sum += c.cost(u.elaborationID, KindElaboration, day, depth+1) * u.quantity
	}
	return sum * marginFactor(r)
}

func yieldOf(e *Elaboration) float64 {
	if math.IsNaN(e.TotalYield) || e.TotalYield < 1 {
		return 1
	}
	return e.TotalYield
}

func marginFactor(r *Recipe) float64 {
	return 1 + r.ProductionCostMarginPercent/100
}
