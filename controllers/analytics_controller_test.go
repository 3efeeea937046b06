package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"catering-backend/costing"
	"catering-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeAnalytics struct {
	err        error
	variations []costing.VariationResult
	gotKind    costing.Kind
	gotID      string
	gotFrom    string
	gotTo      string
	gotSince   string
	gotPct     float64
}

func (f *fakeAnalytics) GetVariations(_ context.Context, kind costing.Kind, from, to string) ([]costing.VariationResult, error) {
	f.gotKind, f.gotFrom, f.gotTo = kind, from, to
	return f.variations, f.err
}

func (f *fakeAnalytics) GetHistory(_ context.Context, id string, kind costing.Kind, from, to string) ([]costing.HistoryPoint, error) {
	f.gotID, f.gotKind, f.gotFrom, f.gotTo = id, kind, from, to
	if f.err != nil {
		return nil, f.err
	}
	return []costing.HistoryPoint{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Cost: 1.2}}, nil
}

func (f *fakeAnalytics) GetBreakdown(_ context.Context, id string, kind costing.Kind, from, to string) ([]costing.ComponentBreakdown, error) {
	f.gotID, f.gotKind = id, kind
	return []costing.ComponentBreakdown{}, f.err
}

func (f *fakeAnalytics) GetCostEvents(_ context.Context, id string, kind costing.Kind, to string) ([]costing.CostEvent, error) {
	f.gotID, f.gotKind, f.gotTo = id, kind, to
	return []costing.CostEvent{}, f.err
}

func (f *fakeAnalytics) GetPriceAlerts(_ context.Context, since string, pct float64) ([]costing.PriceAlert, error) {
	f.gotSince, f.gotPct = since, pct
	return []costing.PriceAlert{}, f.err
}

func newTestApp(svc Analytics) *fiber.App {
	app := fiber.New()
	h := NewAnalyticsController(svc, nil)
	app.Get("/variations", h.GetVariations)
	app.Get("/variations/summary", h.GetVariationSummary)
	app.Get("/variations/export", h.ExportVariations)
	app.Get("/history/:id", h.GetHistory)
	app.Get("/breakdown/:id", h.GetBreakdown)
	app.Get("/events/:id", h.GetCostEvents)
	app.Get("/alerts", h.GetPriceAlerts)
	return app
}

func decode(t *testing.T, body io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func TestGetVariations(t *testing.T) {
	svc := &fakeAnalytics{variations: []costing.VariationResult{
		{ID: "rec-salad", Name: "Salad", Kind: costing.KindRecipe, StartPrice: 1.2, EndPrice: 1.44, Diff: 0.24, Percent: 20},
	}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/variations?kind=recipes&from=2024-01-15&to=2024-07-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, costing.KindRecipe, svc.gotKind)
	assert.Equal(t, "2024-01-15", svc.gotFrom)
	assert.Equal(t, "2024-07-01", svc.gotTo)

	var body []map[string]any
	decode(t, resp.Body, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "rec-salad", body[0]["id"])
	assert.InDelta(t, 0.24, body[0]["diff"], 1e-9)
	assert.Equal(t, "recipe", body[0]["kind"])
}

func TestBadKindIs400(t *testing.T) {
	app := newTestApp(&fakeAnalytics{})

	for _, url := range []string{"/variations?kind=dessert", "/variations", "/history/x?kind=", "/events/x?kind=pizza"} {
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, url)

		var body map[string]any
		decode(t, resp.Body, &body)
		assert.Contains(t, body["error"], "kind must be one of")
	}
}

func TestDataLoadErrorIs503(t *testing.T) {
	app := newTestApp(&fakeAnalytics{err: &costing.DataLoadError{Op: "recipes", Err: errors.New("timeout")}})

	resp, err := app.Test(httptest.NewRequest("GET", "/variations?kind=recipe&from=2024-01-01&to=2024-02-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]any
	decode(t, resp.Body, &body)
	assert.Equal(t, true, body["retryable"])
}

func TestNotFoundIs404(t *testing.T) {
	app := newTestApp(&fakeAnalytics{err: services.ErrNotFound})

	resp, err := app.Test(httptest.NewRequest("GET", "/history/nope?kind=recipe&from=2024-01-01&to=2024-02-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUnexpectedErrorIs500(t *testing.T) {
	app := newTestApp(&fakeAnalytics{err: errors.New("boom")})

	resp, err := app.Test(httptest.NewRequest("GET", "/breakdown/x?kind=recipe", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSingleEntityRoutes(t *testing.T) {
	svc := &fakeAnalytics{}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/history/rec-salad?kind=recipe&from=2024-01-01&to=2024-02-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "rec-salad", svc.gotID)
	var points []map[string]any
	decode(t, resp.Body, &points)
	require.Len(t, points, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", points[0]["date"])

	resp, err = app.Test(httptest.NewRequest("GET", "/events/elab-1?kind=elaboration&to=2024-02-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, costing.KindElaboration, svc.gotKind)
	assert.Equal(t, "2024-02-01", svc.gotTo)
}

func TestGetPriceAlerts(t *testing.T) {
	svc := &fakeAnalytics{}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts?since=2024-06-01&threshold=15", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2024-06-01", svc.gotSince)
	assert.Equal(t, 15.0, svc.gotPct)

	resp, err = app.Test(httptest.NewRequest("GET", "/alerts?threshold=-3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetVariationSummary(t *testing.T) {
	svc := &fakeAnalytics{variations: []costing.VariationResult{
		{ID: "a", Diff: 2, Percent: 40},
		{ID: "b", Diff: -1, Percent: -10},
		{ID: "c", Diff: 0, Percent: 0},
	}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/variations/summary?kind=item&from=2024-01-01&to=2024-02-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp.Body, &body)
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 1, body["increased"])
	assert.EqualValues(t, 1, body["decreased"])
	assert.EqualValues(t, 1, body["unchanged"])
	assert.InDelta(t, 10.0, body["averagePercent"], 1e-9)
	assert.Len(t, body["topMovers"], 3)
}

func TestExportVariations(t *testing.T) {
	svc := &fakeAnalytics{variations: []costing.VariationResult{
		{ID: "rec-salad", Name: "Salad", Kind: costing.KindRecipe, Diff: 0.24},
	}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/variations/export?kind=recipe&from=2024-01-15&to=2024-07-01", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "variations-recipe-2024-01-15-2024-07-01.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Variations", "A2")
	require.NoError(t, err)
	assert.Equal(t, "rec-salad", v)
}
