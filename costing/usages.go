package costing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// usageIDKeys name the elaboration explicitly. usageGenericKeys may also hold
// the usage row's own id, so they are only read after the nested keys.
var usageIDKeys = []string{"elaborationId", "elaboration_id", "elaboracionId", "elaboracion_id", "elaborationRef"}

var usageGenericKeys = []string{"ref", "id"}

var usageNestedKeys = []string{"elaboration", "elaboracion"}

var nestedIDKeys = append(append([]string{}, usageIDKeys...), usageGenericKeys...)

var usageQuantityKeys = []string{"quantity", "cantidad", "qty"}

// DecodeUsages reads a recipe's elaboration usage list from whatever shape it
// was persisted in: a JSON array (possibly double encoded as a JSON string) of
// bare ids or of objects carrying the id under one of several legacy field
// names. Entries without an id are skipped. A bare id, or an object without a
// quantity, counts as quantity 1.
func DecodeUsages(raw any) ([]Usage, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []Usage:
		return v, nil
	case []byte:
		return decodeUsageJSON(v)
	case json.RawMessage:
		return decodeUsageJSON(v)
	case string:
		return decodeUsageJSON([]byte(v))
	case []any:
		return usagesFromList(v), nil
	case []map[string]any:
		out := make([]Usage, 0, len(v))
		for _, m := range v {
			if u, ok := usageFromMap(m); ok {
				out = append(out, u)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported usage list type %T", raw)
}

func decodeUsageJSON(b []byte) ([]Usage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, fmt.Errorf("decode usages: %w", err)
	}
	switch v := decoded.(type) {
	case []any:
		return usagesFromList(v), nil
	case string:
		// serialized twice
		return decodeUsageJSON([]byte(v))
	case map[string]any:
		if u, ok := usageFromMap(v); ok {
			return []Usage{u}, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("decode usages: unexpected %T", decoded)
}

func usagesFromList(list []any) []Usage {
	out := make([]Usage, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if u, ok := usageFromMap(m); ok {
				out = append(out, u)
			}
			continue
		}
		if id := idString(item); id != "" {
			out = append(out, Usage{ElaborationRef: id, Quantity: 1})
		}
	}
	return out
}

func usageFromMap(m map[string]any) (Usage, bool) {
	id := idFromKeys(m, usageIDKeys)
	for _, k := range usageNestedKeys {
		if id != "" {
			break
		}
		if nested, ok := m[k].(map[string]any); ok {
			id = idFromKeys(nested, nestedIDKeys)
		} else {
			id = idString(m[k])
		}
	}
	if id == "" {
		id = idFromKeys(m, usageGenericKeys)
	}
	if id == "" {
		return Usage{}, false
	}

	qty := 1.0
	for _, k := range usageQuantityKeys {
		if v, ok := m[k]; ok {
			qty = ParseNumber(v)
			break
		}
	}
	return Usage{ElaborationRef: id, Quantity: qty}, true
}

func idFromKeys(m map[string]any, keys []string) string {
	for _, k := range keys {
		if id := idString(m[k]); id != "" {
			return id
		}
	}
	return ""
}

// idString formats a scalar id; anything else yields "".
func idString(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}
