package charts

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Rangikaj80/educationalDB/internal/engine"
	"github.com/Rangikaj80/educationalDB/internal/models"
)

// Pure builders: aggregated engine output in, chart specification out.
// Nothing here reaches back into filtering, so the engine stays testable
// without any rendering dependency.

var defaultColors = []string{
	"#29b5e8", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

var (
	printer   = message.NewPrinter(language.English)
	titleCase = cases.Title(language.English)
)

// Axis titles for the known metrics; anything else falls back to the
// title-cased column name.
var axisTitles = map[string]string{
	engine.ColGovExpPctGDP:      "Government Expenditure (% of GDP)",
	engine.ColEnrolPrimaryPct:   "Primary Enrollment (%)",
	engine.ColEnrolSecondaryPct: "Secondary Enrollment (%)",
	engine.ColEnrolTertiaryPct:  "Tertiary Enrollment (%)",
	engine.ColPupilTeacherPri:   "Pupil-Teacher Ratio (Primary)",
	engine.ColPupilTeacherSec:   "Pupil-Teacher Ratio (Secondary)",
	engine.ColPriCompletionPct:  "Primary Completion Rate (%)",
}

// MetricTitle turns a column name into a display title, e.g.
// "gov_exp_pct_gdp" -> "Gov Exp Pct Gdp".
func MetricTitle(metric string) string {
	return titleCase.String(strings.ReplaceAll(metric, "_", " "))
}

// AxisTitle returns the axis label for a metric column.
func AxisTitle(metric string) string {
	if t, ok := axisTitles[metric]; ok {
		return t
	}
	return MetricTitle(metric)
}

// MetricCard formats one summary into a display card. Values are
// comma-grouped, deltas signed, matching the dashboard's metric tiles.
func MetricCard(metric string, s engine.Summary) models.MetricCard {
	return models.MetricCard{
		Metric:       metric,
		Title:        MetricTitle(metric),
		Value:        s.Mean,
		ValueLabel:   printer.Sprintf("%.2f", s.Mean),
		Delta:        s.Delta,
		DeltaPercent: s.DeltaPercent,
		DeltaLabel:   printer.Sprintf("%+.0f (%+.2f%%)", s.Delta, s.DeltaPercent),
		Samples:      s.Count,
	}
}

// CountryBar builds the grouped country-comparison bar chart.
func CountryBar(groups []engine.GroupValue, metric string) *models.ChartConfig {
	points := make([]models.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.ChartPoint{Label: g.Country, Value: g.Value})
	}
	return &models.ChartConfig{
		ChartType:  "bar",
		Title:      "Country Comparison",
		XAxis:      "Country",
		YAxis:      AxisTitle(metric),
		Series:     []models.ChartSeries{{Name: AxisTitle(metric), Data: points}},
		Colors:     assignColors(len(groups)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// TrendLines builds the time-series line chart: one series per country,
// points in year order. Absent cells are dropped, not drawn as zeroes.
func TrendLines(v engine.View, metric string) *models.ChartConfig {
	type obs struct {
		year int
		val  float64
	}
	byCountry := make(map[string][]obs)
	order := make([]string, 0)

	for i := 0; i < v.Len(); i++ {
		val, ok := v.Value(i, metric)
		if !ok {
			continue
		}
		country := v.Country(i)
		if _, seen := byCountry[country]; !seen {
			order = append(order, country)
		}
		byCountry[country] = append(byCountry[country], obs{year: v.Year(i), val: val})
	}

	series := make([]models.ChartSeries, 0, len(order))
	for i, country := range order {
		points := byCountry[country]
		sort.SliceStable(points, func(a, b int) bool { return points[a].year < points[b].year })
		data := make([]models.ChartPoint, 0, len(points))
		for _, o := range points {
			data = append(data, models.ChartPoint{Label: strconv.Itoa(o.year), Value: o.val})
		}
		series = append(series, models.ChartSeries{
			Name:  country,
			Data:  data,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &models.ChartConfig{
		ChartType:  "line",
		Title:      AxisTitle(metric) + " Over Time",
		XAxis:      "Year",
		YAxis:      AxisTitle(metric),
		Series:     series,
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// Choropleth builds the heatmap colored by a metric's per-country mean.
// Locations are country names; the renderer resolves them.
func Choropleth(groups []engine.GroupValue, metric string) *models.MapConfig {
	points := make([]models.MapPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.MapPoint{Country: g.Country, Value: g.Value, Samples: g.Count})
	}
	return &models.MapConfig{
		MapType:    "choropleth",
		Title:      "Heatmap of " + MetricTitle(metric),
		Metric:     metric,
		ColorScale: "Viridis",
		Points:     points,
	}
}

// BubbleMap builds the coordinate bubble map sized and colored by the
// metric's per-country mean.
func BubbleMap(groups []engine.GeoGroupValue, metric string) *models.MapConfig {
	points := make([]models.MapPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.MapPoint{
			Country: g.Country,
			Lat:     g.Lat,
			Lon:     g.Lon,
			Value:   g.Value,
			Samples: g.Count,
		})
	}
	return &models.MapConfig{
		MapType:    "bubble",
		Title:      "Bubble Map of " + MetricTitle(metric),
		Metric:     metric,
		ColorScale: "Viridis",
		Points:     points,
	}
}

// TopBar builds the ranked composite-score bar chart.
func TopBar(groups []engine.GroupValue) *models.ChartConfig {
	points := make([]models.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.ChartPoint{Label: g.Country, Value: g.Value})
	}
	return &models.ChartConfig{
		ChartType:  "ranked_bar",
		Title:      "Top Countries by Composite Education Metric",
		XAxis:      "Composite Education Metric",
		YAxis:      "Country",
		Series:     []models.ChartSeries{{Name: "Composite Education Metric", Data: points}},
		Colors:     assignColors(len(groups)),
		ShowGrid:   true,
		ShowLegend: false,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
