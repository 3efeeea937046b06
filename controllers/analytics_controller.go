package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"catering-backend/costing"
	"catering-backend/report"
	"catering-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Analytics is what the handlers need from the analytics service.
type Analytics interface {
	GetVariations(ctx context.Context, kind costing.Kind, from, to string) ([]costing.VariationResult, error)
	GetHistory(ctx context.Context, id string, kind costing.Kind, from, to string) ([]costing.HistoryPoint, error)
	GetBreakdown(ctx context.Context, id string, kind costing.Kind, from, to string) ([]costing.ComponentBreakdown, error)
	GetCostEvents(ctx context.Context, id string, kind costing.Kind, to string) ([]costing.CostEvent, error)
	GetPriceAlerts(ctx context.Context, since string, thresholdPercent float64) ([]costing.PriceAlert, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("costkind", func(fl validator.FieldLevel) bool {
		_, err := costing.ParseKind(fl.Field().String())
		return err == nil
	})
	return v
}

type rangeQuery struct {
	Kind string `query:"kind" validate:"required,costkind"`
	From string `query:"from"`
	To   string `query:"to"`
}

type alertQuery struct {
	Since     string  `query:"since"`
	Threshold float64 `query:"threshold" validate:"gte=0,lte=1000"`
}

type AnalyticsController struct {
	svc Analytics
	log *zap.Logger
}

func NewAnalyticsController(svc Analytics, log *zap.Logger) *AnalyticsController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsController{svc: svc, log: log}
}

// GetVariations ranks entities of one kind by cost movement.
func (h *AnalyticsController) GetVariations(c *fiber.Ctx) error {
	q, kind, err := parseRange(c)
	if err != nil {
		return badRequest(c, err)
	}
	results, err := h.svc.GetVariations(c.UserContext(), kind, q.From, q.To)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(results)
}

// GetVariationSummary condenses a ranking for the dashboard cards.
func (h *AnalyticsController) GetVariationSummary(c *fiber.Ctx) error {
	q, kind, err := parseRange(c)
	if err != nil {
		return badRequest(c, err)
	}
	results, err := h.svc.GetVariations(c.UserContext(), kind, q.From, q.To)
	if err != nil {
		return h.fail(c, err)
	}

	increased, decreased := 0, 0
	sumPercent := 0.0
	for _, r := range results {
		switch {
		case r.Diff > 0:
			increased++
		case r.Diff < 0:
			decreased++
		}
		sumPercent += r.Percent
	}
	avg := 0.0
	if len(results) > 0 {
		avg = sumPercent / float64(len(results))
	}
	top := results
	if len(top) > 5 {
		top = top[:5]
	}

	return c.JSON(fiber.Map{
		"total":          len(results),
		"increased":      increased,
		"decreased":      decreased,
		"unchanged":      len(results) - increased - decreased,
		"averagePercent": avg,
		"topMovers":      top,
	})
}

// ExportVariations sends the ranking as an XLSX download.
func (h *AnalyticsController) ExportVariations(c *fiber.Ctx) error {
	q, kind, err := parseRange(c)
	if err != nil {
		return badRequest(c, err)
	}
	results, err := h.svc.GetVariations(c.UserContext(), kind, q.From, q.To)
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	if err := report.WriteVariations(&buf, results); err != nil {
		h.log.Error("xlsx export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not build report"})
	}

	filename := fmt.Sprintf("variations-%s-%s-%s.xlsx", kind, q.From, q.To)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

// GetHistory returns the cost trend of one entity.
func (h *AnalyticsController) GetHistory(c *fiber.Ctx) error {
	q, kind, err := parseRange(c)
	if err != nil {
		return badRequest(c, err)
	}
	points, err := h.svc.GetHistory(c.UserContext(), c.Params("id"), kind, q.From, q.To)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(points)
}

func (h *AnalyticsController) GetBreakdown(c *fiber.Ctx) error {
	q, kind, err := parseRange(c)
	if err != nil {
		return badRequest(c, err)
	}
	parts, err := h.svc.GetBreakdown(c.UserContext(), c.Params("id"), kind, q.From, q.To)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(parts)
}

func (h *AnalyticsController) GetCostEvents(c *fiber.Ctx) error {
	q, kind, err := parseRange(c)
	if err != nil {
		return badRequest(c, err)
	}
	events, err := h.svc.GetCostEvents(c.UserContext(), c.Params("id"), kind, q.To)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(events)
}

// GetPriceAlerts lists purchased items whose price jumped recently.
func (h *AnalyticsController) GetPriceAlerts(c *fiber.Ctx) error {
	var q alertQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, err)
	}
	if err := validate.Struct(q); err != nil {
		return badRequest(c, errors.New("threshold must be between 0 and 1000"))
	}
	alerts, err := h.svc.GetPriceAlerts(c.UserContext(), q.Since, q.Threshold)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(alerts)
}

func parseRange(c *fiber.Ctx) (rangeQuery, costing.Kind, error) {
	var q rangeQuery
	if err := c.QueryParser(&q); err != nil {
		return q, "", err
	}
	if err := validate.Struct(q); err != nil {
		return q, "", fmt.Errorf("kind must be one of %s", strings.Join(kindNames(), ", "))
	}
	kind, err := costing.ParseKind(q.Kind)
	return q, kind, err
}

func kindNames() []string {
	return []string{
		string(costing.KindPurchasedItem),
		string(costing.KindIngredient),
		string(costing.KindElaboration),
		string(costing.KindRecipe),
	}
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func (h *AnalyticsController) fail(c *fiber.Ctx, err error) error {
	var dle *costing.DataLoadError
	switch {
	case errors.As(err, &dle):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":     "Cost data is temporarily unavailable",
			"retryable": dle.Retryable(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Entity not found"})
	}
	h.log.Error("analytics request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
}
