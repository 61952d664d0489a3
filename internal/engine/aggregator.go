package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Summary holds per-metric statistics for a view. Delta compares the last
// two usable observations in view order; with fewer than two, or a zero
// previous value for the percentage, both fall back to 0.
type Summary struct {
	Mean         float64
	Delta        float64
	DeltaPercent float64
	Count        int
}

// GroupValue is one group's aggregated value, keyed by country.
type GroupValue struct {
	Country string
	Value   float64
	Count   int
}

// GeoGroupValue is a GroupValue with the group's coordinates, for the
// bubble map.
type GeoGroupValue struct {
	Country string
	Lat     float64
	Lon     float64
	Value   float64
	Count   int
}

// MissingIndicatorError reports composite-score prerequisite columns
// absent from the dataset schema.
type MissingIndicatorError struct {
	Columns []string
}

func (e *MissingIndicatorError) Error() string {
	return fmt.Sprintf("required indicator columns missing from dataset: %s",
		strings.Join(e.Columns, ", "))
}

// MetricSummary computes mean, delta and delta percent for one column
// over a view. Absent cells are skipped. Never fails; degenerate views
// return zeroes.
func MetricSummary(v View, column string) Summary {
	var s Summary
	var sum float64
	var last, prev float64

	for i := 0; i < v.Len(); i++ {
		val, ok := v.Value(i, column)
		if !ok {
			continue
		}
		sum += val
		s.Count++
		prev = last
		last = val
	}

	if s.Count > 0 {
		s.Mean = sum / float64(s.Count)
	}
	if s.Count >= 2 {
		s.Delta = last - prev
		if prev != 0 {
			s.DeltaPercent = s.Delta / prev * 100
		}
	}
	return s
}

// GroupMean averages a column per country. Groups appear in
// first-appearance order and cover exactly the distinct countries in the
// view; a group with no usable cells has Value 0 and Count 0.
func GroupMean(v View, column string) []GroupValue {
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[string]*acc)
	order := make([]string, 0)

	for i := 0; i < v.Len(); i++ {
		country := v.Country(i)
		a, seen := sums[country]
		if !seen {
			a = &acc{}
			sums[country] = a
			order = append(order, country)
		}
		if val, ok := v.Value(i, column); ok {
			a.sum += val
			a.count++
		}
	}

	groups := make([]GroupValue, 0, len(order))
	for _, country := range order {
		a := sums[country]
		g := GroupValue{Country: country, Count: a.count}
		if a.count > 0 {
			g.Value = a.sum / float64(a.count)
		}
		groups = append(groups, g)
	}
	return groups
}

// GroupMeanGeo averages a column per (country, latitude, longitude).
// Rows without coordinates are skipped — they cannot be placed on a map.
func GroupMeanGeo(v View, column string) []GeoGroupValue {
	type geoKey struct {
		country  string
		lat, lon float64
	}
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[geoKey]*acc)
	order := make([]geoKey, 0)

	for i := 0; i < v.Len(); i++ {
		lat, okLat := v.Value(i, ColLatitude)
		lon, okLon := v.Value(i, ColLongitude)
		if !okLat || !okLon {
			continue
		}
		key := geoKey{country: v.Country(i), lat: lat, lon: lon}
		a, seen := sums[key]
		if !seen {
			a = &acc{}
			sums[key] = a
			order = append(order, key)
		}
		if val, ok := v.Value(i, column); ok {
			a.sum += val
			a.count++
		}
	}

	groups := make([]GeoGroupValue, 0, len(order))
	for _, key := range order {
		a := sums[key]
		g := GeoGroupValue{Country: key.country, Lat: key.lat, Lon: key.lon, Count: a.count}
		if a.count > 0 {
			g.Value = a.sum / float64(a.count)
		}
		groups = append(groups, g)
	}
	return groups
}

// CompositeScores computes the per-row composite education score: the
// mean of the composite indicators present on that row. Fails fast with
// MissingIndicatorError when any required column is absent from the
// schema — silently dropping indicators would change the metric.
// The second return reports which rows produced a score.
func CompositeScores(v View) ([]float64, []bool, error) {
	var missing []string
	for _, col := range CompositeIndicators {
		if !v.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingIndicatorError{Columns: missing}
	}

	scores := make([]float64, v.Len())
	scored := make([]bool, v.Len())
	for i := 0; i < v.Len(); i++ {
		var sum float64
		var n int
		for _, col := range CompositeIndicators {
			if val, ok := v.Value(i, col); ok {
				sum += val
				n++
			}
		}
		if n > 0 {
			scores[i] = sum / float64(n)
			scored[i] = true
		}
	}
	return scores, scored, nil
}

// CompositeByCountry averages row composite scores per country, in
// first-appearance order. Countries with no scored rows are dropped.
func CompositeByCountry(v View) ([]GroupValue, error) {
	scores, scored, err := CompositeScores(v)
	if err != nil {
		return nil, err
	}

	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[string]*acc)
	order := make([]string, 0)

	for i := 0; i < v.Len(); i++ {
		if !scored[i] {
			continue
		}
		country := v.Country(i)
		a, seen := sums[country]
		if !seen {
			a = &acc{}
			sums[country] = a
			order = append(order, country)
		}
		a.sum += scores[i]
		a.count++
	}

	groups := make([]GroupValue, 0, len(order))
	for _, country := range order {
		a := sums[country]
		groups = append(groups, GroupValue{
			Country: country,
			Value:   a.sum / float64(a.count),
			Count:   a.count,
		})
	}
	return groups, nil
}

// TopN sorts groups descending by value and returns the first n. The
// sort is stable: equal scores keep their input order.
func TopN(groups []GroupValue, n int) []GroupValue {
	if n <= 0 {
		return nil
	}
	ranked := make([]GroupValue, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
