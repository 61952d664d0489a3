package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DataLoadError reports a dataset that could not be loaded: missing file,
// malformed CSV, or a year value outside the expected 4-digit format.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Load reads the education CSV into a ColumnStore. Columns are mapped by
// header name; the country column is dictionary encoded; the year column
// must parse as a 4-digit year. Unknown columns are skipped.
func Load(path string) (*ColumnStore, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	countryIdx, yearIdx := -1, -1
	indicatorIdx := make(map[string]int)
	for i, h := range header {
		switch name := strings.TrimSpace(h); name {
		case ColCountry:
			countryIdx = i
		case ColYear:
			yearIdx = i
		default:
			for _, known := range indicatorColumns {
				if name == known {
					indicatorIdx[name] = i
					break
				}
			}
		}
	}
	if countryIdx < 0 || yearIdx < 0 {
		return nil, &DataLoadError{Path: path, Err: fmt.Errorf("header lacks %q or %q column", ColCountry, ColYear)}
	}

	store := &ColumnStore{Indicators: make(map[string]*Column, len(indicatorIdx))}
	for name := range indicatorIdx {
		store.Indicators[name] = &Column{}
	}
	countryID := make(map[string]int32)

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}

		country := strings.TrimSpace(row[countryIdx])
		id, ok := countryID[country]
		if !ok {
			id = int32(len(store.CountryDict))
			store.CountryDict = append(store.CountryDict, country)
			countryID[country] = id
		}
		store.CountryIDs = append(store.CountryIDs, id)

		yearStr := strings.TrimSpace(row[yearIdx])
		t, err := time.Parse("2006", yearStr)
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: fmt.Errorf("line %d: year %q: %w", line, yearStr, err)}
		}
		store.Years = append(store.Years, int32(t.Year()))

		for name, idx := range indicatorIdx {
			col := store.Indicators[name]
			cell := strings.TrimSpace(row[idx])
			v, err := strconv.ParseFloat(cell, 64)
			if cell == "" || err != nil {
				col.Values = append(col.Values, 0)
				col.Present = append(col.Present, false)
				continue
			}
			col.Values = append(col.Values, v)
			col.Present = append(col.Present, true)
		}
	}

	log.Printf("Load complete. Rows: %d, Countries: %d, Columns: %d. Time: %v",
		store.Len(), len(store.CountryDict), len(store.Indicators), time.Since(start))
	return store, nil
}
