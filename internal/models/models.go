package models

// Meta describes the selectable filter space for the UI.
type Meta struct {
	Countries []string `json:"countries"`
	MinYear   int      `json:"min_year"`
	MaxYear   int      `json:"max_year"`
	Metrics   []string `json:"metrics"`
}

// MetricCard is one summary card: mean over the selection plus the
// change between the last two observations.
type MetricCard struct {
	Metric       string  `json:"metric"`
	Title        string  `json:"title"`
	Value        float64 `json:"value"`
	ValueLabel   string  `json:"value_label"`
	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
	DeltaLabel   string  `json:"delta_label"`
	Samples      int     `json:"samples"`
}

// ChartConfig is a render-ready chart description. The frontend decides
// how to draw it; the backend only guarantees the shape.
type ChartConfig struct {
	ChartType  string        `json:"chart_type"`
	Title      string        `json:"title"`
	XAxis      string        `json:"x_axis,omitempty"`
	YAxis      string        `json:"y_axis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"show_legend"`
	ShowGrid   bool          `json:"show_grid"`
}

// ChartSeries is one data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a single labelled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MapConfig describes a choropleth or bubble map colored by one metric's
// per-country mean.
type MapConfig struct {
	MapType    string     `json:"map_type"`
	Title      string     `json:"title"`
	Metric     string     `json:"metric"`
	ColorScale string     `json:"color_scale"`
	Points     []MapPoint `json:"points"`
}

// MapPoint is one country on a map. Lat/Lon are zero for choropleths,
// which locate by country name.
type MapPoint struct {
	Country string  `json:"country"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
}

// Row is one filtered observation handed back to the data table.
// Indicators holds only the cells present in the source.
type Row struct {
	Country    string             `json:"country"`
	Year       int                `json:"year"`
	Indicators map[string]float64 `json:"indicators"`
}
