package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"catering-backend/costing"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultPageSize = 1000

// RestSource loads raw costing data from a PostgREST style API, where each
// table is exposed as GET /<table> and filters go in the query string.
type RestSource struct {
	client   *resty.Client
	pageSize int
	log      *zap.Logger
}

func NewRestSource(baseURL, apiKey string, log *zap.Logger) *RestSource {
	if log == nil {
		log = zap.NewNop()
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
		client.SetAuthToken(apiKey)
	}
	return &RestSource{client: client, pageSize: defaultPageSize, log: log}
}

type row map[string]any

func (s *RestSource) Load(ctx context.Context, windowEnd time.Time) (*costing.RawData, error) {
	itemRows, err := s.fetch(ctx, "purchased_items", nil)
	if err != nil {
		return nil, err
	}
	pointRows, err := s.fetch(ctx, "price_points", map[string]string{
		"date": "lt." + endOfDay(windowEnd).Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	ingredientRows, err := s.fetch(ctx, "ingredients", nil)
	if err != nil {
		return nil, err
	}
	elaborationRows, err := s.fetch(ctx, "elaborations", nil)
	if err != nil {
		return nil, err
	}
	componentRows, err := s.fetch(ctx, "elaboration_components", nil)
	if err != nil {
		return nil, err
	}
	recipeRows, err := s.fetch(ctx, "recipes", nil)
	if err != nil {
		return nil, err
	}

	data := &costing.RawData{}
	for _, r := range itemRows {
		data.Items = append(data.Items, costing.PurchasedItem{
			ID:           r.str("id"),
			ExternalID:   r.str("external_id", "erp_id"),
			Name:         r.str("name", "nombre"),
			CurrentPrice: costing.ParseNumber(r.first("current_price", "precio")),
			Category:     r.nestedName("category", "categoria"),
			SupplierName: r.nestedName("supplier_name", "supplier", "nombre_proveedor"),
		})
	}

	skipped := 0
	for _, r := range pointRows {
		d, ok := parseDate(r.str("date", "fecha"))
		if !ok {
			skipped++
			continue
		}
		data.Points = append(data.Points, costing.PricePoint{
			PurchasedItemRef: r.str("purchased_item_ref", "purchased_item_id", "articulo_erp_id"),
			Date:             d,
			CalculatedPrice:  costing.ParseNumber(r.first("calculated_price", "precio_calculado")),
		})
	}
	if skipped > 0 {
		s.log.Warn("price points without a readable date skipped", zap.Int("count", skipped))
	}

	for _, r := range ingredientRows {
		data.Ingredients = append(data.Ingredients, costing.Ingredient{
			ID:                r.str("id"),
			Name:              r.str("name", "nombre_ingrediente"),
			PurchasedItemLink: r.str("purchased_item_link", "producto_erp_link_id"),
		})
	}
	for _, r := range elaborationRows {
		data.Elaborations = append(data.Elaborations, costing.Elaboration{
			ID:         r.str("id"),
			Name:       r.str("name", "nombre"),
			TotalYield: costing.ParseNumber(r.first("total_yield", "produccion_total")),
		})
	}
	for _, r := range componentRows {
		kind := costing.KindIngredient
		if k, err := costing.ParseKind(r.str("ref_kind", "tipo_componente")); err == nil {
			kind = k
		}
		data.Components = append(data.Components, costing.Component{
			ParentElaborationID: r.str("elaboration_id", "elaboracion_padre_id"),
			Ref:                 r.str("ref", "componente_id"),
			RefKind:             kind,
			NetQuantity:         costing.ParseNumber(r.first("net_quantity", "cantidad_neta")),
			WastePercent:        costing.ParseNumber(r.first("waste_percent", "merma_aplicada")),
		})
	}
	for _, r := range recipeRows {
		usages, err := costing.DecodeUsages(r.first("elaboration_usages", "elaboraciones"))
		if err != nil {
			s.log.Warn("recipe usages unreadable, treating as empty", zap.String("recipe", r.str("id")), zap.Error(err))
		}
		data.Recipes = append(data.Recipes, costing.Recipe{
			ID:                          r.str("id"),
			Name:                        r.str("name", "nombre"),
			Category:                    r.str("category", "categoria"),
			ProductionCostMarginPercent: costing.ParseNumber(r.first("production_cost_margin_percent", "porcentaje_coste_produccion")),
			Usages:                      usages,
		})
	}
	return data, nil
}

// fetch pages through one table. Anything but a JSON array of objects is a
// load error.
func (s *RestSource) fetch(ctx context.Context, table string, filters map[string]string) ([]row, error) {
	var all []row
	for offset := 0; ; offset += s.pageSize {
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParams(filters).
			SetQueryParam("select", "*").
			SetQueryParam("order", "id.asc").
			SetQueryParam("limit", strconv.Itoa(s.pageSize)).
			SetQueryParam("offset", strconv.Itoa(offset)).
			Get("/" + table)
		if err != nil {
			return nil, loadError(table, errors.Wrapf(err, "GET %s", table))
		}
		if resp.IsError() {
			return nil, loadError(table, fmt.Errorf("GET %s: unexpected status %d", table, resp.StatusCode()))
		}

		var page []row
		dec := json.NewDecoder(bytes.NewReader(resp.Body()))
		dec.UseNumber()
		if err := dec.Decode(&page); err != nil {
			return nil, loadError(table, errors.Wrapf(err, "decode %s", table))
		}
		all = append(all, page...)
		if len(page) < s.pageSize {
			return all, nil
		}
	}
}

func (r row) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (r row) str(keys ...string) string {
	switch v := r.first(keys...).(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	}
	return ""
}

// nestedName reads either a plain string or an embedded {"name": ...} object.
func (r row) nestedName(keys ...string) string {
	switch v := r.first(keys...).(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return row(v).str("name", "nombre")
	}
	return ""
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
