package flags

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/observability/metrics"
	"github.com/wonny/probe/backend/pkg/logger"
)

func scenarioA() contracts.FinancialDocument {
	return contracts.FinancialDocument{"financials": []any{
		map[string]any{
			"nature": "STANDALONE",
			"pnl": map[string]any{"lineItems": map[string]any{
				"net_revenue":                    60000000.0,
				"profit_before_tax":              1000000.0,
				"depreciation":                   500000.0,
				"profit_before_interest_and_tax": 2000000.0,
			}},
			"bs": map[string]any{"assets": map[string]any{
				"long_term_loans_and_advances":  1000000.0,
				"short_term_loans_and_advances": 500000.0,
			}},
		},
	}}
}

func TestEvaluateScenarioA(t *testing.T) {
	result := Evaluate(scenarioA())

	assert.Equal(t, map[string]contracts.Flag{
		contracts.TotalRevenue5CrFlag:    contracts.FlagGreen,
		contracts.BorrowingToRevenueFlag: contracts.FlagGreen,
		contracts.ISCRFlag:               contracts.FlagGreen,
	}, result.Flags)
}

func TestEvaluateTypedGoInput(t *testing.T) {
	doc := contracts.FinancialDocument{"financials": []map[string]any{
		{
			"nature": "STANDALONE",
			"pnl": map[string]map[string]float64{"lineItems": {
				"net_revenue":                    60000000,
				"profit_before_tax":              1000000,
				"depreciation":                   500000,
				"profit_before_interest_and_tax": 2000000,
			}},
			"bs": map[string]map[string]int64{"assets": {
				"long_term_loans_and_advances":  1000000,
				"short_term_loans_and_advances": 500000,
			}},
		},
	}}

	assert.Equal(t, Evaluate(scenarioA()), Evaluate(doc))
}

func TestEvaluateNonFiniteDegradesToRed(t *testing.T) {
	doc := scenarioA()
	lineItems := doc.Periods()[0].(map[string]any)["pnl"].(map[string]any)["lineItems"].(map[string]any)

	for _, v := range []string{"Infinity", "NaN", "-inf"} {
		t.Run(v, func(t *testing.T) {
			lineItems["net_revenue"] = v

			result := Evaluate(doc)
			assert.Equal(t, contracts.FlagRed, result.Flags[contracts.TotalRevenue5CrFlag])
			assert.Equal(t, contracts.FlagRed, result.Flags[contracts.BorrowingToRevenueFlag])
		})
	}
}

func TestEvaluateScenarioB(t *testing.T) {
	docs := map[string]contracts.FinancialDocument{
		"empty financials":  {"financials": []any{}},
		"absent financials": {},
		"nil document":      nil,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			result := Evaluate(doc)
			assert.Len(t, result.Flags, 3)
			for _, key := range contracts.FlagNames {
				assert.Equal(t, contracts.FlagRed, result.Flags[key], key)
			}
		})
	}
}

func TestEvaluatePicksStandalonePeriod(t *testing.T) {
	doc := scenarioA()
	consolidated := map[string]any{
		"nature": "CONSOLIDATED",
		"pnl":    map[string]any{"lineItems": map[string]any{"net_revenue": 1.0}},
	}
	doc["financials"] = append([]any{consolidated}, doc["financials"].([]any)...)

	result := Evaluate(doc)
	assert.Equal(t, contracts.FlagGreen, result.Flags[contracts.TotalRevenue5CrFlag])
}

func TestEvaluateMixedFlags(t *testing.T) {
	doc := contracts.FinancialDocument{"financials": []any{
		map[string]any{
			"nature": "STANDALONE",
			"pnl": map[string]any{"lineItems": map[string]any{
				"net_revenue":                    2.0,
				"profit_before_tax":              0.0,
				"depreciation":                   0.0,
				"profit_before_interest_and_tax": 10.0,
			}},
			"bs": map[string]any{"assets": map[string]any{
				"long_term_loans_and_advances":  3.0,
				"short_term_loans_and_advances": 1.0,
			}},
		},
	}}

	// revenue 2 → RED; borrowing (4/2)/2 = 1 → AMBER; iscr 11/11 = 1 → RED
	result := Evaluate(doc)
	assert.Equal(t, contracts.FlagRed, result.Flags[contracts.TotalRevenue5CrFlag])
	assert.Equal(t, contracts.FlagAmber, result.Flags[contracts.BorrowingToRevenueFlag])
	assert.Equal(t, contracts.FlagRed, result.Flags[contracts.ISCRFlag])
}

func TestEvaluateIdempotent(t *testing.T) {
	doc := scenarioA()
	before, err := json.Marshal(doc)
	require.NoError(t, err)

	first := Evaluate(doc)
	second := Evaluate(doc)
	assert.Equal(t, first, second)

	after, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestEvaluateConcurrent(t *testing.T) {
	doc := scenarioA()
	want := Evaluate(doc)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Evaluate(doc))
		}()
	}
	wg.Wait()
}

func TestResultJSONEncodesIntegers(t *testing.T) {
	raw, err := json.Marshal(Evaluate(scenarioA()))
	require.NoError(t, err)

	assert.JSONEq(t, `{"flags": {"TOTAL_REVENUE_5CR_FLAG": 1, "BORROWING_TO_REVENUE_FLAG": 1, "ISCR_FLAG": 1}}`, string(raw))
}

func TestExplain(t *testing.T) {
	bd := Explain(scenarioA())

	assert.Equal(t, 0, bd.PeriodIndex)
	assert.Equal(t, "STANDALONE", bd.PeriodNature)
	assert.Equal(t, 60000000.0, bd.TotalRevenue)
	assert.InDelta(t, 0.025, bd.BorrowingRatio, 1e-12)
	assert.InDelta(t, 2500001.0/1000001.0, bd.ISCR, 1e-12)
	assert.Equal(t, Evaluate(scenarioA()), bd.Result)
}

func TestEngineEvaluate(t *testing.T) {
	m := metrics.New("probe-test")
	engine := NewEngine(logger.NewNop(), m)

	ctx := WithRequestID(context.Background(), "req-1")
	result, err := engine.Evaluate(ctx, "upload", scenarioA())
	require.NoError(t, err)
	assert.Equal(t, Evaluate(scenarioA()), *result)

	_, err = engine.Evaluate(ctx, "upload", contracts.FinancialDocument{})
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "probe_engine_evaluations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 3 GREEN flags from scenario A + 3 RED from the empty document
	flagSeries, err := testutil.GatherAndCount(m.Registry(), "probe_engine_flags_total")
	require.NoError(t, err)
	assert.Equal(t, 6, flagSeries)
}

func TestEngineRejectsNilDocument(t *testing.T) {
	engine := NewEngine(logger.NewNop(), nil)

	_, err := engine.Evaluate(context.Background(), "cli", nil)
	require.Error(t, err)
	assert.True(t, contracts.IsKind(err, contracts.ErrInvalidDocument))
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", RequestIDFromContext(WithRequestID(context.Background(), "abc")))
}
