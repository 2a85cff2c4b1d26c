package flags

import (
	"github.com/wonny/probe/backend/internal/contracts"
	"github.com/wonny/probe/backend/internal/financials"
)

// Decision thresholds. Fixed by credit policy.
const (
	ISCRGreenMin          = 2.0
	Revenue5CrGreenMin    = 50_000_000.0 // 5 crore
	BorrowingRatioMaxGood = 0.25
)

// ISCRFlag is GREEN when ISCR >= 2, otherwise RED
func ISCRFlag(doc contracts.FinancialDocument, idx int) contracts.Flag {
	return classifyISCR(financials.ISCR(doc, idx))
}

// TotalRevenue5CrFlag is GREEN when net revenue >= 50,000,000, otherwise RED
func TotalRevenue5CrFlag(doc contracts.FinancialDocument, idx int) contracts.Flag {
	return classifyRevenue(financials.TotalRevenue(doc, idx))
}

// BorrowingToRevenueFlag is RED on zero revenue, else GREEN when
// TotalBorrowing/revenue <= 0.25 and AMBER above that.
//
// TotalBorrowing is already divided by revenue, so the compared ratio is
// borrowings/revenue². Kept as observed in the reference model.
func BorrowingToRevenueFlag(doc contracts.FinancialDocument, idx int) contracts.Flag {
	return classifyBorrowing(financials.TotalBorrowing(doc, idx), financials.TotalRevenue(doc, idx))
}

func classifyISCR(iscr float64) contracts.Flag {
	if iscr >= ISCRGreenMin {
		return contracts.FlagGreen
	}
	return contracts.FlagRed
}

func classifyRevenue(revenue float64) contracts.Flag {
	if revenue >= Revenue5CrGreenMin {
		return contracts.FlagGreen
	}
	return contracts.FlagRed
}

func classifyBorrowing(borrowing, revenue float64) contracts.Flag {
	// 0으로 나누기 방지
	if revenue == 0 {
		return contracts.FlagRed
	}

	ratio := borrowing / revenue
	if ratio <= BorrowingRatioMaxGood {
		return contracts.FlagGreen
	}
	return contracts.FlagAmber
}
