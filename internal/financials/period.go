package financials

import "github.com/wonny/probe/backend/internal/contracts"

// SelectPeriod returns the index of the first STANDALONE period, or 0
//
// 0 is returned even when financials is absent or empty; accessors
// treat that index as missing data.
func SelectPeriod(doc contracts.FinancialDocument) int {
	for i, p := range doc.Periods() {
		if natureOf(p) == contracts.NatureStandalone {
			return i
		}
	}
	return 0
}

// PeriodNature returns the nature tag of financials[idx], or "" when unavailable
func PeriodNature(doc contracts.FinancialDocument, idx int) string {
	periods := doc.Periods()
	if idx < 0 || idx >= len(periods) {
		return ""
	}
	return natureOf(periods[idx])
}

// natureOf returns the string nature tag of a period, or "" for non-mappings
func natureOf(period any) string {
	v, ok := field(period, contracts.KeyNature)
	if !ok {
		return ""
	}
	nature, _ := v.(string)
	return nature
}
