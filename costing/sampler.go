package costing

import "time"

const (
	// DailySamplingMaxDays is the longest range returned day by day.
	DailySamplingMaxDays = 90
	// TargetSamplePoints is roughly how many points longer ranges are cut to.
	TargetSamplePoints = 60

	secondsPerDay = 24 * 60 * 60
)

// SampleDays lists the calendar days of [start, end] to chart: all of them for
// ranges up to DailySamplingMaxDays days, otherwise every ceil(days/60)-th.
func SampleDays(start, end time.Time) []time.Time {
	first, last := dayOf(start), dayOf(end)
	if first.After(last) {
		return nil
	}
	days := int((last.Unix()-first.Unix())/secondsPerDay) + 1
	step := 1
	if days > DailySamplingMaxDays {
		step = (days + TargetSamplePoints - 1) / TargetSamplePoints
	}
	out := make([]time.Time, 0, (days+step-1)/step)
	for i := 0; i < days; i += step {
		out = append(out, first.AddDate(0, 0, i))
	}
	return out
}

// History recomputes the cost of one entity on each sampled day of
// [start, end].
func (s *Snapshot) History(id string, kind Kind, start, end time.Time) []HistoryPoint {
	days := SampleDays(start, end)
	calc := s.NewCalculator()
	out := make([]HistoryPoint, 0, len(days))
	for _, d := range days {
		out = append(out, HistoryPoint{Date: d, Cost: calc.CostOf(id, kind, d)})
	}
	return out
}
