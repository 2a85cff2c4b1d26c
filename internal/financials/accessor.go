package financials

import (
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/wonny/probe/backend/internal/contracts"
)

// Lookup returns the numeric value at a dotted path inside financials[idx]
// ⭐ SSOT: 모든 계산기는 이 함수로만 라인 아이템에 접근
//
// ok is false when the index is out of range, any key is missing, an
// intermediate value is not a mapping, or the leaf is not numeric.
func Lookup(doc contracts.FinancialDocument, idx int, path string) (float64, bool) {
	periods := doc.Periods()
	if idx < 0 || idx >= len(periods) {
		return 0, false
	}

	leaf, ok := walk(periods[idx], strings.Split(path, "."))
	if !ok {
		return 0, false
	}
	return toNumber(leaf)
}

// Get is Lookup with a default substituted on any traversal failure
func Get(doc contracts.FinancialDocument, idx int, path string, def float64) float64 {
	if v, ok := Lookup(doc, idx, path); ok {
		return v
	}
	return def
}

// walk descends through nested mappings one key at a time
func walk(node any, keys []string) (any, bool) {
	for _, key := range keys {
		var ok bool
		node, ok = field(node, key)
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// field returns node[key] for any string-keyed map.
// Decoded JSON hits the fast path; typed Go maps (map[string]float64, ...) go through reflect.
func field(node any, key string) (any, bool) {
	switch m := node.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case contracts.FinancialDocument:
		v, ok := m[key]
		return v, ok
	}

	rv := reflect.ValueOf(node)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// toNumber accepts Go numbers, json.Number and numeric strings.
// bool is rejected explicitly because cast maps it to 0/1.
// NaN and ±Inf count as missing.
func toNumber(leaf any) (float64, bool) {
	switch v := leaf.(type) {
	case nil, bool:
		return 0, false
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false
		}
		leaf = strings.TrimSpace(v)
	}

	v, err := cast.ToFloat64E(leaf)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
