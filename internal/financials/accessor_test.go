package financials

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/probe/backend/internal/contracts"
)

func TestLookup(t *testing.T) {
	doc := document(
		period("CONSOLIDATED", map[string]any{"net_revenue": 10.0}, nil),
		period("STANDALONE", map[string]any{
			"net_revenue":       json.Number("123.5"),
			"depreciation":      int64(7),
			"profit_before_tax": "42",
			"flag":              true,
			"label":             "n/a",
			"blank":             "  ",
			"nothing":           nil,
			"nan":               "NaN",
			"inf":               "Infinity",
			"short_inf":         "Inf",
			"neg_inf":           "-inf",
			"huge":              "1e400",
			"float_nan":         math.NaN(),
			"float_inf":         math.Inf(1),
		}, nil),
		"not a period",
	)

	tests := []struct {
		name   string
		idx    int
		path   string
		want   float64
		wantOK bool
	}{
		{"float leaf", 0, contracts.PathNetRevenue, 10, true},
		{"json.Number leaf", 1, contracts.PathNetRevenue, 123.5, true},
		{"int leaf", 1, contracts.PathDepreciation, 7, true},
		{"numeric string leaf", 1, contracts.PathProfitBeforeTax, 42, true},
		{"bool leaf", 1, "pnl.lineItems.flag", 0, false},
		{"non numeric string", 1, "pnl.lineItems.label", 0, false},
		{"blank string", 1, "pnl.lineItems.blank", 0, false},
		{"null leaf", 1, "pnl.lineItems.nothing", 0, false},
		{"NaN string", 1, "pnl.lineItems.nan", 0, false},
		{"Infinity string", 1, "pnl.lineItems.inf", 0, false},
		{"Inf string", 1, "pnl.lineItems.short_inf", 0, false},
		{"negative inf string", 1, "pnl.lineItems.neg_inf", 0, false},
		{"overflowing string", 1, "pnl.lineItems.huge", 0, false},
		{"NaN float", 1, "pnl.lineItems.float_nan", 0, false},
		{"Inf float", 1, "pnl.lineItems.float_inf", 0, false},
		{"missing leaf", 0, contracts.PathDepreciation, 0, false},
		{"missing branch", 0, contracts.PathLongTermBorrowings, 0, false},
		{"intermediate not a mapping", 0, "pnl.lineItems.net_revenue.value", 0, false},
		{"period not a mapping", 2, contracts.PathNetRevenue, 0, false},
		{"index out of range", 3, contracts.PathNetRevenue, 0, false},
		{"negative index", -1, contracts.PathNetRevenue, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(doc, tt.idx, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupTypedContainers(t *testing.T) {
	type amounts map[string]float64

	tests := []struct {
		name   string
		doc    contracts.FinancialDocument
		want   float64
		wantOK bool
	}{
		{
			name: "typed period slice",
			doc: contracts.FinancialDocument{"financials": []map[string]any{
				period("STANDALONE", map[string]any{"net_revenue": 6e7}, nil),
			}},
			want:   6e7,
			wantOK: true,
		},
		{
			name: "typed line item map",
			doc: document(map[string]any{
				"nature": "STANDALONE",
				"pnl":    map[string]any{"lineItems": map[string]float64{"net_revenue": 6e7}},
			}),
			want:   6e7,
			wantOK: true,
		},
		{
			name: "named map type",
			doc: document(map[string]any{
				"pnl": map[string]any{"lineItems": amounts{"net_revenue": 42}},
			}),
			want:   42,
			wantOK: true,
		},
		{
			name: "typed map missing key",
			doc: document(map[string]any{
				"pnl": map[string]any{"lineItems": map[string]float64{"depreciation": 1}},
			}),
			wantOK: false,
		},
		{
			name: "array of periods",
			doc: contracts.FinancialDocument{"financials": [1]map[string]any{
				period("", map[string]any{"net_revenue": 7.0}, nil),
			}},
			want:   7,
			wantOK: true,
		},
		{
			name:   "non string keys",
			doc:    document(map[string]any{"pnl": map[int]any{1: 2}}),
			wantOK: false,
		},
		{
			name:   "string is not a sequence",
			doc:    contracts.FinancialDocument{"financials": "abc"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.doc, 0, contracts.PathNetRevenue)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetDefault(t *testing.T) {
	doc := document(period("STANDALONE", map[string]any{"net_revenue": 5.0}, nil))

	assert.Equal(t, 5.0, Get(doc, 0, contracts.PathNetRevenue, -1))
	assert.Equal(t, -1.0, Get(doc, 0, contracts.PathDepreciation, -1))
	assert.Equal(t, 0.0, Get(nil, 0, contracts.PathNetRevenue, 0))
	assert.Equal(t, 0.0, Get(contracts.FinancialDocument{"financials": "oops"}, 0, contracts.PathNetRevenue, 0))
}

func TestLookupDoesNotMutate(t *testing.T) {
	doc := document(period("STANDALONE", scenarioAPnL(), scenarioAAssets()))
	before, err := json.Marshal(doc)
	assert.NoError(t, err)

	_, _ = Lookup(doc, 0, contracts.PathNetRevenue)
	_, _ = Lookup(doc, 5, contracts.PathNetRevenue)
	_ = ISCR(doc, 0)
	_ = TotalBorrowing(doc, 0)

	after, err := json.Marshal(doc)
	assert.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}
