// Package costing computes point-in-time costs of purchased items,
// ingredients, elaborations and recipes, ranks their variations between two
// dates and samples cost trends for charting.
package costing

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects which entity class an operation works on.
type Kind string

const (
	KindPurchasedItem Kind = "purchasedItem"
	KindIngredient    Kind = "ingredient"
	KindElaboration   Kind = "elaboration"
	KindRecipe        Kind = "recipe"
)

// ParseKind accepts the canonical names plus the plural/snake forms used by
// older clients.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchaseditem", "purchased_item", "purchaseditems", "purchased_items", "item", "items":
		return KindPurchasedItem, nil
	case "ingredient", "ingredients":
		return KindIngredient, nil
	case "elaboration", "elaborations":
		return KindElaboration, nil
	case "recipe", "recipes":
		return KindRecipe, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

type PurchasedItem struct {
	ID           string
	ExternalID   string
	Name         string
	CurrentPrice float64
	Category     string
	SupplierName string
}

type PricePoint struct {
	PurchasedItemRef string
	Date             time.Time
	CalculatedPrice  float64
}

type Ingredient struct {
	ID                string
	Name              string
	PurchasedItemLink string
}

// Component is one line of an elaboration's bill of materials. RefKind is
// KindIngredient unless the line points at a nested elaboration.
type Component struct {
	ParentElaborationID string
	Ref                 string
	RefKind             Kind
	NetQuantity         float64
	WastePercent        float64
}

type Elaboration struct {
	ID         string
	Name       string
	TotalYield float64
}

// Usage is one elaboration consumed by a recipe. ElaborationRef is the raw
// reference as persisted and may need fuzzy resolution.
type Usage struct {
	ElaborationRef string
	Quantity       float64
}

type Recipe struct {
	ID                          string
	Name                        string
	Category                    string
	ProductionCostMarginPercent float64
	Usages                      []Usage
}

// RawData is everything one analysis needs, exactly as fetched.
type RawData struct {
	Items        []PurchasedItem
	Points       []PricePoint
	Ingredients  []Ingredient
	Elaborations []Elaboration
	Components   []Component
	Recipes      []Recipe
}

type VariationResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Kind       Kind    `json:"kind"`
	StartPrice float64 `json:"startPrice"`
	EndPrice   float64 `json:"endPrice"`
	Diff       float64 `json:"diff"`
	Percent    float64 `json:"percent"`
	Category   string  `json:"category,omitempty"`
	Supplier   string  `json:"supplier,omitempty"`
}

type HistoryPoint struct {
	Date time.Time `json:"date"`
	Cost float64   `json:"cost"`
}

type ComponentBreakdown struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Kind                Kind    `json:"kind"`
	Quantity            float64 `json:"quantity"`
	StartPrice          float64 `json:"startPrice"`
	EndPrice            float64 `json:"endPrice"`
	Diff                float64 `json:"diff"`
	Percent             float64 `json:"percent"`
	ContributionPercent float64 `json:"contributionPercent"`
}

type PriceChange struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	OldPrice float64 `json:"oldPrice"`
	NewPrice float64 `json:"newPrice"`
}

type CostEvent struct {
	Date         time.Time     `json:"date"`
	Cost         float64       `json:"cost"`
	ChangedItems []PriceChange `json:"changedItems"`
}

type PriceAlert struct {
	ItemID           string    `json:"itemId"`
	Name             string    `json:"name"`
	PreviousPrice    float64   `json:"previousPrice"`
	NewPrice         float64   `json:"newPrice"`
	VariationPercent float64   `json:"variationPercent"`
	Date             time.Time `json:"date"`
}

func percentChange(start, end float64) float64 {
	if start > 0 {
		return (end - start) / start * 100
	}
	return 0
}
