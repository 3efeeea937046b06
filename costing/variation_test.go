package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_SaladRecipe(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	results := snap.Analyze(KindRecipe, day("2024-01-15"), day("2024-07-01"))
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "rec-salad", r.ID)
	assert.Equal(t, "Salad", r.Name)
	assert.Equal(t, KindRecipe, r.Kind)
	assert.Equal(t, "Starters", r.Category)
	assert.InDelta(t, 1.20, r.StartPrice, 1e-9)
	assert.InDelta(t, 1.44, r.EndPrice, 1e-9)
	assert.InDelta(t, 0.24, r.Diff, 1e-9)
	assert.InDelta(t, 20.0, r.Percent, 1e-9)
}

func TestAnalyze_Idempotent(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	first := snap.Analyze(KindElaboration, day("2024-01-15"), day("2024-07-01"))
	second := snap.Analyze(KindElaboration, day("2024-01-15"), day("2024-07-01"))
	assert.Equal(t, first, second)
}

func TestAnalyze_ReversedRangeIsEmpty(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	results := snap.Analyze(KindRecipe, day("2024-07-01"), day("2024-01-15"))
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestAnalyze_SameDayRangeHasZeroDiff(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	results := snap.Analyze(KindPurchasedItem, day("2024-03-01"), day("2024-03-01"))
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Diff)
	assert.Equal(t, 0.0, results[0].Percent)
}

func TestAnalyze_SortingAndZeroEntities(t *testing.T) {
	data := saladData()
	data.Items = append(data.Items,
		PurchasedItem{ID: "item-saffron", Name: "Saffron", CurrentPrice: 0},
		PurchasedItem{ID: "item-water", Name: "Water", CurrentPrice: 0},
	)
	data.Points = append(data.Points,
		PricePoint{PurchasedItemRef: "item-saffron", Date: day("2024-03-01"), CalculatedPrice: 2},
	)
	snap := newTestSnapshot(t, data)

	results := snap.Analyze(KindPurchasedItem, day("2024-01-15"), day("2024-07-01"))
	require.Len(t, results, 2, "items priced zero at both ends are left out")

	assert.Equal(t, "item-saffron", results[0].ID)
	assert.InDelta(t, 2.0, results[0].Diff, 1e-9)
	assert.Equal(t, 0.0, results[0].Percent, "no percent against a zero start")

	assert.Equal(t, "item-oil", results[1].ID)
	assert.InDelta(t, 1.0, results[1].Diff, 1e-9)
	assert.Equal(t, "Oils", results[1].Category)
	assert.Equal(t, "Aceites Sur", results[1].Supplier)
}

func TestAnalyze_IngredientsInheritItemDetails(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	results := snap.Analyze(KindIngredient, day("2024-01-15"), day("2024-07-01"))
	require.Len(t, results, 1)
	assert.Equal(t, "ing-oil", results[0].ID)
	assert.Equal(t, "Oils", results[0].Category)
	assert.Equal(t, "Aceites Sur", results[0].Supplier)
	assert.InDelta(t, 5.0, results[0].StartPrice, 1e-9)
	assert.InDelta(t, 6.0, results[0].EndPrice, 1e-9)
}

func TestBreakdown_Recipe(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	parts := snap.Breakdown("rec-salad", KindRecipe, day("2024-01-15"), day("2024-07-01"))
	require.Len(t, parts, 1)
	assert.Equal(t, "elab-vinaigrette-0001", parts[0].ID)
	assert.Equal(t, "Vinaigrette", parts[0].Name)
	assert.InDelta(t, 1.20, parts[0].StartPrice, 1e-9)
	assert.InDelta(t, 1.44, parts[0].EndPrice, 1e-9)
	assert.InDelta(t, 100.0, parts[0].ContributionPercent, 1e-9)
}

func TestBreakdown_ElaborationSplitsContribution(t *testing.T) {
	data := saladData()
	data.Items = append(data.Items, PurchasedItem{ID: "item-vinegar", Name: "Vinegar", CurrentPrice: 1})
	data.Points = append(data.Points, PricePoint{PurchasedItemRef: "item-vinegar", Date: day("2024-05-01"), CalculatedPrice: 4})
	data.Ingredients = append(data.Ingredients, Ingredient{ID: "ing-vinegar", Name: "Vinegar", PurchasedItemLink: "item-vinegar"})
	data.Components = append(data.Components, Component{
		ParentElaborationID: "elab-vinaigrette-0001", Ref: "ing-vinegar", RefKind: KindIngredient, NetQuantity: 1,
	})
	snap := newTestSnapshot(t, data)

	// oil: 2*5/10 -> 2*6/10 (+0.2); vinegar: 1/10 -> 4/10 (+0.3)
	parts := snap.Breakdown("elab-vinaigrette-0001", KindElaboration, day("2024-01-15"), day("2024-07-01"))
	require.Len(t, parts, 2)
	assert.Equal(t, "ing-vinegar", parts[0].ID)
	assert.InDelta(t, 0.3, parts[0].Diff, 1e-9)
	assert.InDelta(t, 60.0, parts[0].ContributionPercent, 1e-9)
	assert.Equal(t, "ing-oil", parts[1].ID)
	assert.InDelta(t, 0.2, parts[1].Diff, 1e-9)
	assert.InDelta(t, 40.0, parts[1].ContributionPercent, 1e-9)
}

func TestBreakdown_LeafKindsHaveNoComponents(t *testing.T) {
	snap := newTestSnapshot(t, saladData())

	assert.Empty(t, snap.Breakdown("ing-oil", KindIngredient, day("2024-01-15"), day("2024-07-01")))
	assert.Empty(t, snap.Breakdown("missing", KindRecipe, day("2024-01-15"), day("2024-07-01")))
}
