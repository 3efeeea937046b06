package costing

import (
	"sort"
	"time"
)

type dayPrice struct {
	day   time.Time
	price float64
}

// PriceIndex resolves the price of a purchased item as it was known on a
// given day. Items may be referenced by internal or external id.
type PriceIndex struct {
	items      map[string]*PurchasedItem
	byExternal map[string]*PurchasedItem
	series     map[string][]dayPrice

	dropped int
}

func newPriceIndex(items []PurchasedItem, points []PricePoint) *PriceIndex {
	ix := &PriceIndex{
		items:      make(map[string]*PurchasedItem, len(items)),
		byExternal: make(map[string]*PurchasedItem, len(items)),
		series:     make(map[string][]dayPrice),
	}
	for i := range items {
		it := &items[i]
		if it.ID != "" {
			ix.items[it.ID] = it
		}
		if it.ExternalID != "" {
			ix.byExternal[it.ExternalID] = it
		}
	}

	for _, p := range points {
		it := ix.resolve(p.PurchasedItemRef)
		if it == nil {
			ix.dropped++
			continue
		}
		ix.series[it.ID] = append(ix.series[it.ID], dayPrice{day: dayOf(p.Date), price: p.CalculatedPrice})
	}

	for id, s := range ix.series {
		// stable keeps load order inside a day so the last one wins below
		sort.SliceStable(s, func(a, b int) bool { return s[a].day.Before(s[b].day) })
		out := s[:0]
		for _, dp := range s {
			if n := len(out); n > 0 && out[n-1].day.Equal(dp.day) {
				out[n-1] = dp
				continue
			}
			out = append(out, dp)
		}
		ix.series[id] = out
	}
	return ix
}

func (ix *PriceIndex) resolve(ref string) *PurchasedItem {
	if ref == "" {
		return nil
	}
	if it, ok := ix.items[ref]; ok {
		return it
	}
	if it, ok := ix.byExternal[ref]; ok {
		return it
	}
	return nil
}

// Item returns the purchased item behind ref, trying the internal id first.
func (ix *PriceIndex) Item(ref string) (*PurchasedItem, bool) {
	it := ix.resolve(ref)
	return it, it != nil
}

// PriceAsOf returns the latest recorded price dated on or before date's day,
// the item's current price when no such point exists, and 0 when the item is
// unknown.
func (ix *PriceIndex) PriceAsOf(ref string, date time.Time) float64 {
	it := ix.resolve(ref)
	if it == nil {
		return 0
	}
	s := ix.series[it.ID]
	target := dayOf(date)
	i := sort.Search(len(s), func(i int) bool { return s[i].day.After(target) })
	if i == 0 {
		return it.CurrentPrice
	}
	return s[i-1].price
}

// seriesOf returns the day-collapsed price points of an item in ascending order.
func (ix *PriceIndex) seriesOf(ref string) []dayPrice {
	it := ix.resolve(ref)
	if it == nil {
		return nil
	}
	return ix.series[it.ID]
}

// Dropped is the number of loaded points that referenced no known item.
func (ix *PriceIndex) Dropped() int { return ix.dropped }

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
