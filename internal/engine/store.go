package engine

// Column names expected in the source CSV. Indicator columns absent from
// the header are simply absent from the store's schema.
const (
	ColCountry = "country"
	ColYear    = "year"

	ColGovExpPctGDP      = "gov_exp_pct_gdp"
	ColEnrolPrimaryPct   = "school_enrol_primary_pct"
	ColEnrolSecondaryPct = "school_enrol_secondary_pct"
	ColEnrolTertiaryPct  = "school_enrol_tertiary_pct"
	ColPupilTeacherPri   = "pupil_teacher_primary"
	ColPupilTeacherSec   = "pupil_teacher_secondary"
	ColPriCompletionPct  = "pri_comp_rate_pct"
	ColLatitude          = "latitude"
	ColLongitude         = "longitude"
)

// MetricColumns is the fixed set of user-selectable metrics.
var MetricColumns = []string{
	ColGovExpPctGDP,
	ColEnrolPrimaryPct,
	ColEnrolSecondaryPct,
	ColEnrolTertiaryPct,
	ColPupilTeacherPri,
	ColPupilTeacherSec,
}

// CompositeIndicators are the columns averaged into the composite
// education score. All four must exist in the schema.
var CompositeIndicators = []string{
	ColPriCompletionPct,
	ColEnrolPrimaryPct,
	ColEnrolSecondaryPct,
	ColEnrolTertiaryPct,
}

// indicatorColumns lists every numeric column the loader keeps.
var indicatorColumns = []string{
	ColGovExpPctGDP,
	ColEnrolPrimaryPct,
	ColEnrolSecondaryPct,
	ColEnrolTertiaryPct,
	ColPupilTeacherPri,
	ColPupilTeacherSec,
	ColPriCompletionPct,
	ColLatitude,
	ColLongitude,
}

// Column is one numeric column with a per-cell presence bitmap. Empty or
// unparseable cells are recorded as absent and skipped by every mean.
type Column struct {
	Values  []float64
	Present []bool
}

// ColumnStore holds the dataset in Struct-of-Arrays format: one flat
// array per column, countries dictionary encoded. Immutable after load.
type ColumnStore struct {
	Years      []int32
	CountryIDs []int32

	// Dictionary (ID -> country name, first-appearance order)
	CountryDict []string

	// Indicator columns keyed by header name
	Indicators map[string]*Column
}

// Len returns the number of rows.
func (cs *ColumnStore) Len() int { return len(cs.Years) }

// Country returns the country name for row i.
func (cs *ColumnStore) Country(i int) string {
	return cs.CountryDict[cs.CountryIDs[i]]
}

// HasColumn reports whether an indicator column exists in the schema.
func (cs *ColumnStore) HasColumn(name string) bool {
	_, ok := cs.Indicators[name]
	return ok
}

// Value returns the cell at (row, column) and whether it is present.
func (cs *ColumnStore) Value(i int, column string) (float64, bool) {
	col, ok := cs.Indicators[column]
	if !ok || !col.Present[i] {
		return 0, false
	}
	return col.Values[i], true
}

// YearBounds returns the min and max year across all rows.
func (cs *ColumnStore) YearBounds() (int, int) {
	if len(cs.Years) == 0 {
		return 0, 0
	}
	lo, hi := cs.Years[0], cs.Years[0]
	for _, y := range cs.Years[1:] {
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	return int(lo), int(hi)
}
