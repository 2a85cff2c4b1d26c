package financials

import "github.com/wonny/probe/backend/internal/contracts"

// period builds one financials entry. nil maps are left out entirely.
func period(nature string, pnl, assets map[string]any) map[string]any {
	p := map[string]any{}
	if nature != "" {
		p["nature"] = nature
	}
	if pnl != nil {
		p["pnl"] = map[string]any{"lineItems": pnl}
	}
	if assets != nil {
		p["bs"] = map[string]any{"assets": assets}
	}
	return p
}

func document(periods ...any) contracts.FinancialDocument {
	return contracts.FinancialDocument{"financials": periods}
}

func scenarioAPnL() map[string]any {
	return map[string]any{
		"net_revenue":                    60000000.0,
		"profit_before_tax":              1000000.0,
		"depreciation":                   500000.0,
		"profit_before_interest_and_tax": 2000000.0,
	}
}

func scenarioAAssets() map[string]any {
	return map[string]any{
		"long_term_loans_and_advances":  1000000.0,
		"short_term_loans_and_advances": 500000.0,
	}
}
