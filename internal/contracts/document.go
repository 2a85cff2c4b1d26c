package contracts

import (
	"reflect"

	"github.com/spf13/cast"
)

// FinancialDocument is the decoded "data" object of an upload
// ⭐ SSOT: 엔진 입력 문서. 엔진은 절대 수정하지 않음
//
// The shape is semi-structured:
//
//	{"financials": [{"nature": "STANDALONE",
//	                 "pnl": {"lineItems": {"net_revenue": ...}},
//	                 "bs":  {"assets": {"long_term_loans_and_advances": ...}}}]}
type FinancialDocument map[string]any

// Envelope is the transport wrapper around a FinancialDocument
type Envelope struct {
	Data FinancialDocument `json:"data"`
}

const (
	// KeyFinancials holds the sequence of reporting periods
	KeyFinancials = "financials"
	// KeyNature holds the period's categorical tag
	KeyNature = "nature"

	// NatureStandalone marks a standalone (non-consolidated) period
	NatureStandalone = "STANDALONE"
)

// Line item paths, relative to a single period
const (
	PathNetRevenue          = "pnl.lineItems.net_revenue"
	PathProfitBeforeTax     = "pnl.lineItems.profit_before_tax"
	PathDepreciation        = "pnl.lineItems.depreciation"
	PathProfitBeforeIntTax  = "pnl.lineItems.profit_before_interest_and_tax"
	PathLongTermBorrowings  = "bs.assets.long_term_loans_and_advances"
	PathShortTermBorrowings = "bs.assets.short_term_loans_and_advances"
)

// Periods returns the financials sequence, or nil when it is absent or not a sequence
func (d FinancialDocument) Periods() []any {
	return asSequence(d[KeyFinancials])
}

// asSequence normalizes any slice or array into []any.
// Decoded JSON is already []any; typed Go slices ([]map[string]any, ...) are converted.
// Strings and byte slices are not sequences.
func asSequence(v any) []any {
	switch s := v.(type) {
	case nil, string, []byte:
		return nil
	case []any:
		return s
	case []map[string]any:
		seq, err := cast.ToSliceE(s)
		if err != nil {
			return nil
		}
		return seq
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}
	return seq
}
