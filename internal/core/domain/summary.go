package domain

type DashboardSummary struct {
	ProductCount   int      `json:"productCount"`
	MonthlyRevenue float64  `json:"monthlyRevenue"`
	MonthlyProfit  float64  `json:"monthlyProfit"`
	AverageMargin  float64  `json:"averageMargin"`
	TopSeller      *Product `json:"topSeller,omitempty"`
}

// Summarize aggregates revenue and profit across products. AverageMargin is
// the mean of per-product margin percentages, skipping zero-priced items.
func Summarize(products []Product) DashboardSummary {
	s := DashboardSummary{ProductCount: len(products)}

	var marginSum float64
	var priced int
	for i := range products {
		p := products[i]
		s.MonthlyRevenue += p.MonthlyRevenue()
		s.MonthlyProfit += p.MonthlyProfit()

		if p.CurrentPrice != 0 {
			marginSum += (p.CurrentPrice - p.Cost) / p.CurrentPrice * 100
			priced++
		}

		if s.TopSeller == nil || p.MonthlyRevenue() > s.TopSeller.MonthlyRevenue() {
			top := p
			s.TopSeller = &top
		}
	}

	if priced > 0 {
		s.AverageMargin = marginSum / float64(priced)
	}

	return s
}
