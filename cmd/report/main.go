package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Rangikaj80/educationalDB/internal/charts"
	"github.com/Rangikaj80/educationalDB/internal/engine"
	"github.com/Rangikaj80/educationalDB/internal/report"
)

func main() {
	dataPath := flag.String("data", "cleaned_world_education_data.csv", "path to the education dataset CSV")
	outDir := flag.String("out", "report", "output directory for PNG charts and the xlsx workbook")
	countriesArg := flag.String("countries", "United States", "comma-separated country names")
	from := flag.Int("from", 2010, "first year (inclusive)")
	to := flag.Int("to", 2020, "last year (inclusive)")
	metric := flag.String("metric", engine.ColGovExpPctGDP, "metric column for charts")
	topN := flag.Int("n", 10, "size of the composite-score ranking")
	verbose := flag.Bool("v", false, "dump aggregation internals")
	flag.Parse()

	src := engine.NewSource(*dataPath)
	store, err := src.Get()
	if err != nil {
		log.Fatal(err)
	}

	var countries []string
	for _, c := range strings.Split(*countriesArg, ",") {
		if c = strings.TrimSpace(c); c != "" {
			countries = append(countries, c)
		}
	}

	view := engine.Filter(store.All(), countries, *from, *to)
	yearView := engine.FilterYears(store.All(), *from, *to)

	p := message.NewPrinter(language.English)
	p.Printf("%d of %d rows match %s, %d-%d\n", view.Len(), store.Len(), *countriesArg, *from, *to)

	for _, m := range engine.MetricColumns {
		s := engine.MetricSummary(view, m)
		card := charts.MetricCard(m, s)
		p.Printf("%-35s %12s  %s\n", card.Title, card.ValueLabel, card.DeltaLabel)
	}

	// Ranking across all countries in the year range, as on the map page.
	// A missing indicator column replaces the chart, not the whole report.
	var top []engine.GroupValue
	composite, err := engine.CompositeByCountry(yearView)
	if err != nil {
		var mie *engine.MissingIndicatorError
		if errors.As(err, &mie) {
			log.Printf("skipping ranking: %v", mie)
		} else {
			log.Fatal(err)
		}
	} else {
		top = engine.TopN(composite, *topN)
		for i, g := range top {
			p.Printf("%2d. %-30s %.2f\n", i+1, g.Country, g.Value)
		}
	}

	if *verbose {
		spew.Dump(engine.GroupMean(view, *metric))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}
	if err := report.Charts(*outDir, view, *metric, top); err != nil {
		log.Fatal(err)
	}
	if err := report.Workbook(filepath.Join(*outDir, "education_report.xlsx"), view, engine.GroupMean(view, *metric), top, *metric); err != nil {
		log.Fatal(err)
	}

	log.Printf("report written to %s", *outDir)
}
