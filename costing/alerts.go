package costing

import (
	"math"
	"sort"
	"time"
)

// DefaultAlertThreshold is the variation, in percent, that raises an alert.
const DefaultAlertThreshold = 10.0

// PriceAlerts reports every recorded price change dated on or after since
// whose variation against the previous point reaches thresholdPercent.
// Biggest movements first.
func (s *Snapshot) PriceAlerts(since time.Time, thresholdPercent float64) []PriceAlert {
	if thresholdPercent <= 0 {
		thresholdPercent = DefaultAlertThreshold
	}
	from := dayOf(since)

	out := make([]PriceAlert, 0)
	for _, it := range s.data.Items {
		series := s.index.seriesOf(it.ID)
		for i := 1; i < len(series); i++ {
			cur, prev := series[i], series[i-1]
			if cur.day.Before(from) || prev.price <= 0 {
				continue
			}
			pct := (cur.price - prev.price) / prev.price * 100
			if math.Abs(pct) < thresholdPercent {
				continue
			}
			out = append(out, PriceAlert{
				ItemID:           it.ID,
				Name:             it.Name,
				PreviousPrice:    prev.price,
				NewPrice:         cur.price,
				VariationPercent: pct,
				Date:             cur.day,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].VariationPercent) > math.Abs(out[j].VariationPercent)
	})
	return out
}
