package contracts

// Flag names emitted in a FlagResult
const (
	TotalRevenue5CrFlag    = "TOTAL_REVENUE_5CR_FLAG"
	BorrowingToRevenueFlag = "BORROWING_TO_REVENUE_FLAG"
	ISCRFlag               = "ISCR_FLAG"
)

// FlagNames lists the result keys in display order
var FlagNames = []string{
	TotalRevenue5CrFlag,
	BorrowingToRevenueFlag,
	ISCRFlag,
}

// FlagResult is the engine output
// ⭐ SSOT: 엔진 → 호출자 결과 전달. flags 키 3개만 포함
type FlagResult struct {
	Flags map[string]Flag `json:"flags" yaml:"flags"`
}

// NewFlagResult creates a result holding the three flags
func NewFlagResult(revenue, borrowing, iscr Flag) FlagResult {
	return FlagResult{
		Flags: map[string]Flag{
			TotalRevenue5CrFlag:    revenue,
			BorrowingToRevenueFlag: borrowing,
			ISCRFlag:               iscr,
		},
	}
}

// Breakdown exposes the intermediate values behind a FlagResult
type Breakdown struct {
	PeriodIndex    int     `json:"period_index" yaml:"period_index"`
	PeriodNature   string  `json:"period_nature" yaml:"period_nature"`
	TotalRevenue   float64 `json:"total_revenue" yaml:"total_revenue"`
	BorrowingRatio float64 `json:"borrowing_ratio" yaml:"borrowing_ratio"` // borrowings / revenue
	ISCR           float64 `json:"iscr" yaml:"iscr"`

	Result FlagResult `json:"result" yaml:"result"`
}

// CountByFlag counts how many result flags carry each value
func (r FlagResult) CountByFlag() map[Flag]int {
	counts := make(map[Flag]int, len(r.Flags))
	for _, f := range r.Flags {
		counts[f]++
	}
	return counts
}
