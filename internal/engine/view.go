package engine

// View is a row subset of a ColumnStore: an index list into the store,
// no data copy. Views compose — filtering a filtered view narrows it.
type View struct {
	store *ColumnStore
	rows  []int
}

// All returns a view over every row of the store.
func (cs *ColumnStore) All() View {
	rows := make([]int, cs.Len())
	for i := range rows {
		rows[i] = i
	}
	return View{store: cs, rows: rows}
}

// Len returns the number of rows in the view.
func (v View) Len() int { return len(v.rows) }

// Country returns the country of view row i.
func (v View) Country(i int) string { return v.store.Country(v.rows[i]) }

// Year returns the year of view row i.
func (v View) Year(i int) int { return int(v.store.Years[v.rows[i]]) }

// Value returns the cell of view row i and whether it is present.
func (v View) Value(i int, column string) (float64, bool) {
	return v.store.Value(v.rows[i], column)
}

// HasColumn reports whether the view's schema contains a column.
func (v View) HasColumn(column string) bool { return v.store.HasColumn(column) }

// Filter keeps rows whose country is in the given set (case-sensitive
// exact match) and whose year lies in [yearLo, yearHi]. An empty country
// set or an inverted range yields an empty view, never an error.
func Filter(v View, countries []string, yearLo, yearHi int) View {
	if len(countries) == 0 || yearLo > yearHi {
		return View{store: v.store}
	}

	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[c] = struct{}{}
	}

	rows := make([]int, 0, len(v.rows))
	for i, r := range v.rows {
		y := v.Year(i)
		if y < yearLo || y > yearHi {
			continue
		}
		if _, ok := set[v.Country(i)]; ok {
			rows = append(rows, r)
		}
	}
	return View{store: v.store, rows: rows}
}

// FilterYears keeps rows in [yearLo, yearHi] across all countries. The
// map views have no country control, only the year slider.
func FilterYears(v View, yearLo, yearHi int) View {
	if yearLo > yearHi {
		return View{store: v.store}
	}
	rows := make([]int, 0, len(v.rows))
	for i, r := range v.rows {
		if y := v.Year(i); y >= yearLo && y <= yearHi {
			rows = append(rows, r)
		}
	}
	return View{store: v.store, rows: rows}
}
