package engine

import (
	"errors"
	"math"
	"testing"
)

type testRow struct {
	country string
	year    int
	vals    map[string]float64
}

// storeFrom builds a ColumnStore by hand, the columns listed becoming
// the schema. Cells not in vals are absent.
func storeFrom(columns []string, rows ...testRow) *ColumnStore {
	cs := &ColumnStore{Indicators: make(map[string]*Column)}
	for _, c := range columns {
		cs.Indicators[c] = &Column{}
	}
	ids := make(map[string]int32)
	for _, r := range rows {
		id, ok := ids[r.country]
		if !ok {
			id = int32(len(cs.CountryDict))
			cs.CountryDict = append(cs.CountryDict, r.country)
			ids[r.country] = id
		}
		cs.CountryIDs = append(cs.CountryIDs, id)
		cs.Years = append(cs.Years, int32(r.year))
		for _, c := range columns {
			col := cs.Indicators[c]
			v, present := r.vals[c]
			col.Values = append(col.Values, v)
			col.Present = append(col.Present, present)
		}
	}
	return cs
}

func approx(got, want float64) bool { return math.Abs(got-want) < 1e-9 }

func TestFilterEmptyCountries(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
	)
	if got := Filter(cs.All(), nil, 2000, 2020); got.Len() != 0 {
		t.Errorf("empty country set should yield empty view, got %d rows", got.Len())
	}
}

func TestFilterInvertedRange(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
	)
	if got := Filter(cs.All(), []string{"Afghanistan"}, 2015, 2010); got.Len() != 0 {
		t.Errorf("inverted year range should yield empty view, got %d rows", got.Len())
	}
}

func TestFilterIsCaseSensitive(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
	)
	if got := Filter(cs.All(), []string{"afghanistan"}, 2000, 2020); got.Len() != 0 {
		t.Errorf("country match must be exact, got %d rows", got.Len())
	}
}

func TestFilterIdempotent(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
		testRow{"Afghanistan", 2011, map[string]float64{ColGovExpPctGDP: 3.5}},
		testRow{"Brazil", 2010, map[string]float64{ColGovExpPctGDP: 5.0}},
	)
	once := Filter(cs.All(), []string{"Afghanistan"}, 2010, 2011)
	twice := Filter(once, []string{"Afghanistan"}, 2010, 2011)
	if once.Len() != twice.Len() {
		t.Fatalf("re-filtering changed row count: %d vs %d", once.Len(), twice.Len())
	}
	for i := 0; i < once.Len(); i++ {
		if once.Country(i) != twice.Country(i) || once.Year(i) != twice.Year(i) {
			t.Errorf("row %d differs after re-filtering", i)
		}
	}
}

func TestFilterYearsKeepsAllCountries(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
		testRow{"Brazil", 2012, map[string]float64{ColGovExpPctGDP: 5.0}},
		testRow{"Chile", 1999, map[string]float64{ColGovExpPctGDP: 4.0}},
	)
	v := FilterYears(cs.All(), 2010, 2020)
	if v.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", v.Len())
	}
	if v.Country(0) != "Afghanistan" || v.Country(1) != "Brazil" {
		t.Error("FilterYears must not drop countries inside the range")
	}
}

func TestMetricSummaryScenario(t *testing.T) {
	// Afghanistan 2010 gov_exp=3.2, 2011 gov_exp=3.5:
	// mean=3.35, delta=0.3, deltaPercent=9.375
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
		testRow{"Afghanistan", 2011, map[string]float64{ColGovExpPctGDP: 3.5}},
	)
	v := Filter(cs.All(), []string{"Afghanistan"}, 2010, 2011)
	if v.Len() != 2 {
		t.Fatalf("expected both rows, got %d", v.Len())
	}
	if v.Year(0) != 2010 || v.Year(1) != 2011 {
		t.Error("rows should come back in year order")
	}

	s := MetricSummary(v, ColGovExpPctGDP)
	if !approx(s.Mean, 3.35) {
		t.Errorf("mean: expected 3.35, got %v", s.Mean)
	}
	if !approx(s.Delta, 0.3) {
		t.Errorf("delta: expected 0.3, got %v", s.Delta)
	}
	if math.Abs(s.DeltaPercent-9.375) > 1e-6 {
		t.Errorf("delta percent: expected ~9.375, got %v", s.DeltaPercent)
	}
}

func TestMetricSummarySingleRow(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.2}},
	)
	s := MetricSummary(cs.All(), ColGovExpPctGDP)
	if s.Delta != 0 || s.DeltaPercent != 0 {
		t.Errorf("single row must give zero delta, got %v / %v", s.Delta, s.DeltaPercent)
	}
	if !approx(s.Mean, 3.2) {
		t.Errorf("mean: expected 3.2, got %v", s.Mean)
	}
}

func TestMetricSummaryZeroPrevious(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 0}},
		testRow{"Afghanistan", 2011, map[string]float64{ColGovExpPctGDP: 4.0}},
	)
	s := MetricSummary(cs.All(), ColGovExpPctGDP)
	if !approx(s.Delta, 4.0) {
		t.Errorf("delta: expected 4.0, got %v", s.Delta)
	}
	if s.DeltaPercent != 0 {
		t.Errorf("delta percent must be 0 when previous value is 0, got %v", s.DeltaPercent)
	}
}

func TestMetricSummarySkipsAbsentCells(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.0}},
		testRow{"Afghanistan", 2011, nil},
		testRow{"Afghanistan", 2012, map[string]float64{ColGovExpPctGDP: 5.0}},
	)
	s := MetricSummary(cs.All(), ColGovExpPctGDP)
	if !approx(s.Mean, 4.0) {
		t.Errorf("mean: expected 4.0, got %v", s.Mean)
	}
	if s.Count != 2 {
		t.Errorf("count: expected 2 usable cells, got %d", s.Count)
	}
	if !approx(s.Delta, 2.0) {
		t.Errorf("delta: expected 2.0 across the gap, got %v", s.Delta)
	}
}

func TestMetricSummaryEmptyView(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP})
	s := MetricSummary(cs.All(), ColGovExpPctGDP)
	if s.Mean != 0 || s.Delta != 0 || s.DeltaPercent != 0 {
		t.Errorf("empty view must give zeroes, got %+v", s)
	}
}

func TestGroupMeanKeys(t *testing.T) {
	cs := storeFrom([]string{ColGovExpPctGDP},
		testRow{"Brazil", 2010, map[string]float64{ColGovExpPctGDP: 6.0}},
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.0}},
		testRow{"Brazil", 2011, map[string]float64{ColGovExpPctGDP: 4.0}},
	)
	groups := GroupMean(cs.All(), ColGovExpPctGDP)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// First-appearance order
	if groups[0].Country != "Brazil" || groups[1].Country != "Afghanistan" {
		t.Errorf("unexpected group order: %v, %v", groups[0].Country, groups[1].Country)
	}
	if !approx(groups[0].Value, 5.0) {
		t.Errorf("Brazil mean: expected 5.0, got %v", groups[0].Value)
	}
}

func TestGroupMeanGeo(t *testing.T) {
	cols := []string{ColGovExpPctGDP, ColLatitude, ColLongitude}
	cs := storeFrom(cols,
		testRow{"Afghanistan", 2010, map[string]float64{ColGovExpPctGDP: 3.0, ColLatitude: 33.93, ColLongitude: 67.71}},
		testRow{"Afghanistan", 2011, map[string]float64{ColGovExpPctGDP: 5.0, ColLatitude: 33.93, ColLongitude: 67.71}},
		testRow{"Brazil", 2010, map[string]float64{ColGovExpPctGDP: 6.0}}, // no coordinates
	)
	groups := GroupMeanGeo(cs.All(), ColGovExpPctGDP)
	if len(groups) != 1 {
		t.Fatalf("rows without coordinates must be skipped, got %d groups", len(groups))
	}
	g := groups[0]
	if g.Country != "Afghanistan" || !approx(g.Value, 4.0) || !approx(g.Lat, 33.93) {
		t.Errorf("unexpected geo group: %+v", g)
	}
}

func compositeStore(withCompletion bool) *ColumnStore {
	cols := []string{ColEnrolPrimaryPct, ColEnrolSecondaryPct, ColEnrolTertiaryPct}
	if withCompletion {
		cols = append(cols, ColPriCompletionPct)
	}
	return storeFrom(cols,
		testRow{"Afghanistan", 2015, map[string]float64{
			ColEnrolPrimaryPct: 100, ColEnrolSecondaryPct: 50, ColEnrolTertiaryPct: 10, ColPriCompletionPct: 40,
		}},
		testRow{"Brazil", 2015, map[string]float64{
			ColEnrolPrimaryPct: 100, ColEnrolSecondaryPct: 90, ColEnrolTertiaryPct: 50, ColPriCompletionPct: 80,
		}},
	)
}

func TestCompositeMissingIndicator(t *testing.T) {
	_, _, err := CompositeScores(compositeStore(false).All())
	var mie *MissingIndicatorError
	if !errors.As(err, &mie) {
		t.Fatalf("expected MissingIndicatorError, got %v", err)
	}
	if len(mie.Columns) != 1 || mie.Columns[0] != ColPriCompletionPct {
		t.Errorf("expected missing column %q, got %v", ColPriCompletionPct, mie.Columns)
	}

	// With every required column present there is no error.
	if _, _, err := CompositeScores(compositeStore(true).All()); err != nil {
		t.Fatalf("unexpected error with full schema: %v", err)
	}
}

func TestCompositeByCountry(t *testing.T) {
	groups, err := CompositeByCountry(compositeStore(true).All())
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !approx(groups[0].Value, 50.0) { // (100+50+10+40)/4
		t.Errorf("Afghanistan composite: expected 50.0, got %v", groups[0].Value)
	}
	if !approx(groups[1].Value, 80.0) { // (100+90+50+80)/4
		t.Errorf("Brazil composite: expected 80.0, got %v", groups[1].Value)
	}
}

func TestTopN(t *testing.T) {
	groups := []GroupValue{
		{Country: "A", Value: 10},
		{Country: "B", Value: 30},
		{Country: "C", Value: 20},
		{Country: "D", Value: 30},
	}
	top := TopN(groups, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	// Stable: B before D despite equal scores
	if top[0].Country != "B" || top[1].Country != "D" || top[2].Country != "C" {
		t.Errorf("unexpected ranking: %v, %v, %v", top[0].Country, top[1].Country, top[2].Country)
	}

	if got := TopN(groups, 10); len(got) != 4 {
		t.Errorf("TopN must never return more entries than groups, got %d", len(got))
	}
	if got := TopN(groups, 0); got != nil {
		t.Errorf("TopN with n=0 should be empty, got %v", got)
	}
}
