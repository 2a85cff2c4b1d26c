package financials

import "github.com/wonny/probe/backend/internal/contracts"

// TotalRevenue returns net revenue for the period, or 0 when missing
func TotalRevenue(doc contracts.FinancialDocument, idx int) float64 {
	return Get(doc, idx, contracts.PathNetRevenue, 0)
}

// TotalBorrowing returns (long term + short term loans) / revenue
//
// Returns 0 when either loan item is missing or revenue is 0.
func TotalBorrowing(doc contracts.FinancialDocument, idx int) float64 {
	longTerm, ok := Lookup(doc, idx, contracts.PathLongTermBorrowings)
	if !ok {
		return 0
	}
	shortTerm, ok := Lookup(doc, idx, contracts.PathShortTermBorrowings)
	if !ok {
		return 0
	}

	revenue := TotalRevenue(doc, idx)
	if revenue == 0 {
		return 0
	}
	return (longTerm + shortTerm) / revenue
}

// ISCR returns the interest service coverage ratio
//
//	(pbit + depreciation + 1) / (pbit - pbt + 1)
//
// The +1 terms are part of the formula. Returns 0 when any item is
// missing or the denominator is exactly 0.
func ISCR(doc contracts.FinancialDocument, idx int) float64 {
	pbt, ok := Lookup(doc, idx, contracts.PathProfitBeforeTax)
	if !ok {
		return 0
	}
	depreciation, ok := Lookup(doc, idx, contracts.PathDepreciation)
	if !ok {
		return 0
	}
	pbit, ok := Lookup(doc, idx, contracts.PathProfitBeforeIntTax)
	if !ok {
		return 0
	}

	denominator := pbit - pbt + 1
	if denominator == 0 {
		return 0
	}
	return (pbit + depreciation + 1) / denominator
}
