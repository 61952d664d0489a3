package api

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/Rangikaj80/educationalDB/internal/charts"
	"github.com/Rangikaj80/educationalDB/internal/engine"
	"github.com/Rangikaj80/educationalDB/internal/models"
)

// Handler serves the dashboard API. The store is nil until the
// background load finishes; until then every data endpoint returns 503.
type Handler struct {
	src *engine.Source

	mu    sync.RWMutex
	store *engine.ColumnStore
}

func NewHandler(src *engine.Source) *Handler {
	return &Handler{src: src}
}

// SetStore publishes a freshly loaded store to the live API.
func (h *Handler) SetStore(cs *engine.ColumnStore) {
	h.mu.Lock()
	h.store = cs
	h.mu.Unlock()
}

func (h *Handler) getStore() *engine.ColumnStore {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/meta", h.GetMeta)
	api.GET("/summary", h.GetSummary)
	api.GET("/charts/countries", h.GetCountryChart)
	api.GET("/charts/trend", h.GetTrendChart)
	api.GET("/map/choropleth", h.GetChoropleth)
	api.GET("/map/bubble", h.GetBubbleMap)
	api.GET("/top", h.GetTopCountries)
	api.GET("/data", h.GetFilteredData)
	api.POST("/reload", h.Reload)
}

// --- PARAM HELPERS ---

func splitParam(c echo.Context, name string) []string {
	var out []string
	for _, part := range strings.Split(c.QueryParam(name), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// yearRange reads from/to, defaulting to the dataset bounds.
func yearRange(c echo.Context, cs *engine.ColumnStore) (int, int) {
	lo, hi := cs.YearBounds()
	if v, err := strconv.Atoi(c.QueryParam("from")); err == nil {
		lo = v
	}
	if v, err := strconv.Atoi(c.QueryParam("to")); err == nil {
		hi = v
	}
	return lo, hi
}

// metricParam reads a single metric selector, constrained to the fixed
// metric set.
func metricParam(c echo.Context, fallback string) string {
	m := c.QueryParam("metric")
	for _, known := range engine.MetricColumns {
		if m == known {
			return m
		}
	}
	return fallback
}

// metricsParam reads the multi-select metric list; unknown names are
// dropped, an empty selection falls back to the dashboard defaults.
func metricsParam(c echo.Context) []string {
	known := make(map[string]bool, len(engine.MetricColumns))
	for _, m := range engine.MetricColumns {
		known[m] = true
	}
	var out []string
	for _, m := range splitParam(c, "metrics") {
		if known[m] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		out = []string{engine.ColGovExpPctGDP, engine.ColEnrolPrimaryPct}
	}
	return out
}

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func loading(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{
		"error": "dataset is still loading",
	})
}

// --- HANDLERS ---

func (h *Handler) GetMeta(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	countries := append([]string(nil), cs.CountryDict...)
	sort.Strings(countries)
	lo, hi := cs.YearBounds()

	return c.JSON(http.StatusOK, models.Meta{
		Countries: countries,
		MinYear:   lo,
		MaxYear:   hi,
		Metrics:   engine.MetricColumns,
	})
}

func (h *Handler) GetSummary(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.Filter(cs.All(), splitParam(c, "countries"), lo, hi)

	metrics := metricsParam(c)
	cards := make([]models.MetricCard, 0, len(metrics))
	for _, m := range metrics {
		cards = append(cards, charts.MetricCard(m, engine.MetricSummary(view, m)))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cards": cards,
		"rows":  view.Len(),
	})
}

func (h *Handler) GetCountryChart(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.Filter(cs.All(), splitParam(c, "countries"), lo, hi)
	metric := metricParam(c, engine.ColGovExpPctGDP)

	return c.JSON(http.StatusOK, charts.CountryBar(engine.GroupMean(view, metric), metric))
}

func (h *Handler) GetTrendChart(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.Filter(cs.All(), splitParam(c, "countries"), lo, hi)
	metric := metricParam(c, engine.ColEnrolPrimaryPct)

	return c.JSON(http.StatusOK, charts.TrendLines(view, metric))
}

func (h *Handler) GetChoropleth(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.FilterYears(cs.All(), lo, hi)
	metric := metricParam(c, engine.ColGovExpPctGDP)

	return c.JSON(http.StatusOK, charts.Choropleth(engine.GroupMean(view, metric), metric))
}

func (h *Handler) GetBubbleMap(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.FilterYears(cs.All(), lo, hi)
	metric := metricParam(c, engine.ColGovExpPctGDP)

	return c.JSON(http.StatusOK, charts.BubbleMap(engine.GroupMeanGeo(view, metric), metric))
}

func (h *Handler) GetTopCountries(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.FilterYears(cs.All(), lo, hi)

	groups, err := engine.CompositeByCountry(view)
	if err != nil {
		var mie *engine.MissingIndicatorError
		if errors.As(err, &mie) {
			// Non-fatal to the rest of the dashboard: the client shows
			// this message in place of the ranking chart.
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": mie.Error(),
			})
		}
		return err
	}

	n := 10
	if v, err := strconv.Atoi(c.QueryParam("n")); err == nil && v > 0 {
		n = v
	}

	return c.JSON(http.StatusOK, charts.TopBar(engine.TopN(groups, n)))
}

func (h *Handler) GetFilteredData(c echo.Context) error {
	cs := h.getStore()
	if cs == nil {
		return loading(c)
	}

	lo, hi := yearRange(c, cs)
	view := engine.Filter(cs.All(), splitParam(c, "countries"), lo, hi)

	total := view.Len()
	limit, offset := getPaginationParams(c, total)
	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"data": []models.Row{}, "total": total, "limit": limit, "offset": offset,
		})
	}
	end := offset + limit
	if end > total {
		end = total
	}

	rows := make([]models.Row, 0, end-offset)
	for i := offset; i < end; i++ {
		row := models.Row{
			Country:    view.Country(i),
			Year:       view.Year(i),
			Indicators: make(map[string]float64),
		}
		for _, col := range engine.MetricColumns {
			if v, ok := view.Value(i, col); ok {
				row.Indicators[col] = v
			}
		}
		if v, ok := view.Value(i, engine.ColPriCompletionPct); ok {
			row.Indicators[engine.ColPriCompletionPct] = v
		}
		rows = append(rows, row)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": rows, "total": total, "limit": limit, "offset": offset,
	})
}

// Reload re-reads the dataset file and swaps it in.
func (h *Handler) Reload(c echo.Context) error {
	cs, err := h.src.Reload()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	h.SetStore(cs)
	return c.JSON(http.StatusOK, map[string]interface{}{"rows": cs.Len()})
}
