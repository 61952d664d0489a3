package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Rangikaj80/educationalDB/internal/charts"
	"github.com/Rangikaj80/educationalDB/internal/engine"
)

var palette = []color.RGBA{
	{R: 41, G: 181, B: 232, A: 255},
	{R: 16, G: 185, B: 129, A: 255},
	{R: 245, G: 158, B: 11, A: 255},
	{R: 239, G: 68, B: 68, A: 255},
	{R: 139, G: 92, B: 246, A: 255},
	{R: 6, G: 182, B: 212, A: 255},
	{R: 236, G: 72, B: 153, A: 255},
	{R: 132, G: 204, B: 22, A: 255},
}

// Charts renders the dashboard views as PNG files under dir. The top
// ranking is optional — callers pass nil when the composite indicators
// are missing and the ranked chart is replaced by an error message.
func Charts(dir string, view engine.View, metric string, top []engine.GroupValue) error {
	if err := countryBarPNG(filepath.Join(dir, "country_means.png"), engine.GroupMean(view, metric), metric); err != nil {
		return err
	}
	if err := trendPNG(filepath.Join(dir, "trend.png"), view, metric); err != nil {
		return err
	}
	if err := bubblePNG(filepath.Join(dir, "bubble_map.png"), engine.GroupMeanGeo(view, metric), metric); err != nil {
		return err
	}
	if len(top) > 0 {
		if err := countryBarPNG(filepath.Join(dir, "top_countries.png"), top, "composite score"); err != nil {
			return err
		}
	}
	return nil
}

func countryBarPNG(path string, groups []engine.GroupValue, metric string) error {
	p := plot.New()
	p.Title.Text = charts.MetricTitle(metric) + " by Country"
	p.X.Label.Text = "Country"
	p.Y.Label.Text = charts.AxisTitle(metric)

	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Value
		labels[i] = g.Country
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = palette[0]
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

func trendPNG(path string, view engine.View, metric string) error {
	p := plot.New()
	p.Title.Text = charts.AxisTitle(metric) + " Over Time"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = charts.AxisTitle(metric)

	byCountry := make(map[string]plotter.XYs)
	order := make([]string, 0)
	for i := 0; i < view.Len(); i++ {
		val, ok := view.Value(i, metric)
		if !ok {
			continue
		}
		country := view.Country(i)
		if _, seen := byCountry[country]; !seen {
			order = append(order, country)
		}
		byCountry[country] = append(byCountry[country], plotter.XY{
			X: float64(view.Year(i)),
			Y: val,
		})
	}

	for i, country := range order {
		line, err := plotter.NewLine(byCountry[country])
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(country, line)
	}
	p.Add(plotter.NewGrid())

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

func bubblePNG(path string, groups []engine.GeoGroupValue, metric string) error {
	p := plot.New()
	p.Title.Text = "Bubble Map of " + charts.MetricTitle(metric)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	maxVal := 0.0
	for _, g := range groups {
		if g.Value > maxVal {
			maxVal = g.Value
		}
	}

	for i, g := range groups {
		bubble, err := plotter.NewScatter(plotter.XYs{{X: g.Lon, Y: g.Lat}})
		if err != nil {
			return err
		}
		bubble.GlyphStyle.Color = palette[i%len(palette)]
		bubble.GlyphStyle.Shape = draw.CircleGlyph{}
		radius := vg.Points(3)
		if maxVal > 0 {
			radius = vg.Points(3 + 9*g.Value/maxVal)
		}
		bubble.GlyphStyle.Radius = radius
		p.Add(bubble)
	}
	p.Add(plotter.NewGrid())

	return p.Save(16*vg.Inch, 8*vg.Inch, path)
}

// Workbook writes the filtered rows, per-country means, and Top-N
// ranking into a multi-sheet xlsx file.
func Workbook(path string, view engine.View, groups []engine.GroupValue, top []engine.GroupValue, metric string) error {
	f := excelize.NewFile()
	defer f.Close()

	const dataSheet = "Filtered Data"
	f.SetSheetName("Sheet1", dataSheet)

	headers := append([]string{engine.ColCountry, engine.ColYear}, engine.MetricColumns...)
	headers = append(headers, engine.ColPriCompletionPct)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(dataSheet, cell, h)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(dataSheet, col, col, 18)
	}
	for i := 0; i < view.Len(); i++ {
		row := i + 2
		f.SetCellValue(dataSheet, fmt.Sprintf("A%d", row), view.Country(i))
		f.SetCellValue(dataSheet, fmt.Sprintf("B%d", row), view.Year(i))
		for j, col := range headers[2:] {
			if v, ok := view.Value(i, col); ok {
				cell, _ := excelize.CoordinatesToCellName(j+3, row)
				f.SetCellValue(dataSheet, cell, v)
			}
		}
	}

	const meansSheet = "Country Means"
	f.NewSheet(meansSheet)
	f.SetCellValue(meansSheet, "A1", "Country")
	f.SetCellValue(meansSheet, "B1", charts.AxisTitle(metric))
	f.SetCellValue(meansSheet, "C1", "Samples")
	for i, g := range groups {
		row := i + 2
		f.SetCellValue(meansSheet, fmt.Sprintf("A%d", row), g.Country)
		f.SetCellValue(meansSheet, fmt.Sprintf("B%d", row), g.Value)
		f.SetCellValue(meansSheet, fmt.Sprintf("C%d", row), g.Count)
	}

	if len(top) > 0 {
		const topSheet = "Top Countries"
		f.NewSheet(topSheet)
		f.SetCellValue(topSheet, "A1", "Rank")
		f.SetCellValue(topSheet, "B1", "Country")
		f.SetCellValue(topSheet, "C1", "Composite Education Metric")
		for i, g := range top {
			row := i + 2
			f.SetCellValue(topSheet, fmt.Sprintf("A%d", row), i+1)
			f.SetCellValue(topSheet, fmt.Sprintf("B%d", row), g.Country)
			f.SetCellValue(topSheet, fmt.Sprintf("C%d", row), g.Value)
		}
	}

	return f.SaveAs(path)
}
