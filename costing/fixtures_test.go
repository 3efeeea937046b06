package costing

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// saladData is the olive oil / vinaigrette / salad chain: oil costs 5.00 from
// 2024-01-01 and 6.00 from 2024-06-01.
func saladData() *RawData {
	return &RawData{
		Items: []PurchasedItem{
			{ID: "item-oil", ExternalID: "ERP-0001", Name: "Olive Oil 1L", CurrentPrice: 4.5, Category: "Oils", SupplierName: "Aceites Sur"},
		},
		Points: []PricePoint{
			{PurchasedItemRef: "ERP-0001", Date: day("2024-06-01"), CalculatedPrice: 6.00},
			{PurchasedItemRef: "item-oil", Date: day("2024-01-01"), CalculatedPrice: 5.00},
		},
		Ingredients: []Ingredient{
			{ID: "ing-oil", Name: "Olive Oil", PurchasedItemLink: "ERP-0001"},
		},
		Elaborations: []Elaboration{
			{ID: "elab-vinaigrette-0001", Name: "Vinaigrette", TotalYield: 10},
		},
		Components: []Component{
			{ParentElaborationID: "elab-vinaigrette-0001", Ref: "ing-oil", RefKind: KindIngredient, NetQuantity: 2},
		},
		Recipes: []Recipe{
			{
				ID:                          "rec-salad",
				Name:                        "Salad",
				Category:                    "Starters",
				ProductionCostMarginPercent: 20,
				Usages:                      []Usage{{ElaborationRef: "elab-vinaigrette-0001", Quantity: 1}},
			},
		},
	}
}

func newTestSnapshot(t *testing.T, data *RawData) *Snapshot {
	t.Helper()
	return NewSnapshot(data, day("2030-12-31"), nil)
}
