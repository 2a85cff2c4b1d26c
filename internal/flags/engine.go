package flags

import (
	"context"
	"time"

	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/financials"
	"github.com/wonny/probe/backend/internal/observability/metrics"
	"github.com/wonny/probe/backend/pkg/logger"
)

// Evaluate runs the period selector once and the three classifiers on that period
// ⭐ SSOT: 플래그 집계는 여기서만
func Evaluate(doc contracts.FinancialDocument) contracts.FlagResult {
	idx := financials.SelectPeriod(doc)

	return contracts.NewFlagResult(
		TotalRevenue5CrFlag(doc, idx),
		BorrowingToRevenueFlag(doc, idx),
		ISCRFlag(doc, idx),
	)
}

// Explain evaluates doc and also returns the values behind each flag
func Explain(doc contracts.FinancialDocument) contracts.Breakdown {
	idx := financials.SelectPeriod(doc)
	revenue := financials.TotalRevenue(doc, idx)
	borrowing := financials.TotalBorrowing(doc, idx)
	iscr := financials.ISCR(doc, idx)

	return contracts.Breakdown{
		PeriodIndex:    idx,
		PeriodNature:   financials.PeriodNature(doc, idx),
		TotalRevenue:   revenue,
		BorrowingRatio: borrowing,
		ISCR:           iscr,
		Result: contracts.NewFlagResult(
			classifyRevenue(revenue),
			classifyBorrowing(borrowing, revenue),
			classifyISCR(iscr),
		),
	}
}

// Engine wraps Evaluate with logging and metrics.
// Safe for concurrent use.
type Engine struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewEngine creates a new Engine. m may be nil.
func NewEngine(log *logger.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		logger:  log,
		metrics: m,
	}
}

// Evaluate scores one document. source labels the caller in metrics ("upload", "cli", ...).
func (e *Engine) Evaluate(ctx context.Context, source string, doc contracts.FinancialDocument) (*contracts.FlagResult, error) {
	bd, err := e.Explain(ctx, source, doc)
	if err != nil {
		return nil, err
	}
	return &bd.Result, nil
}

// Explain is Evaluate returning the full breakdown
func (e *Engine) Explain(ctx context.Context, source string, doc contracts.FinancialDocument) (*contracts.Breakdown, error) {
	if doc == nil {
		return nil, contracts.WrapError(contracts.ErrInvalidDocument, "evaluate", errNilDocument)
	}

	start := time.Now()
	bd := Explain(doc)
	duration := time.Since(start)

	e.metrics.RecordEvaluation(source, bd.Result, duration)

	fields := map[string]interface{}{
		"source":          source,
		"period_index":    bd.PeriodIndex,
		"period_nature":   bd.PeriodNature,
		"periods":         len(doc.Periods()),
		"total_revenue":   bd.TotalRevenue,
		"borrowing_ratio": bd.BorrowingRatio,
		"iscr":            bd.ISCR,
		"duration":        duration,
	}
	for name, f := range bd.Result.Flags {
		fields[name] = f.String()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	e.logger.WithFields(fields).Debug("Flags evaluated")

	return &bd, nil
}
