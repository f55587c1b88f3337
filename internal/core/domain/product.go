package domain

// Product is a catalog item whose price can be simulated.
// Numeric fields are not range-checked.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Cost         float64 `json:"cost"`
	CurrentPrice float64 `json:"currentPrice"`
	MonthlySales int     `json:"monthlySales"`
	Description  string  `json:"description"`
}

// MonthlyRevenue is CurrentPrice times MonthlySales.
func (p Product) MonthlyRevenue() float64 {
	return p.CurrentPrice * float64(p.MonthlySales)
}

// MonthlyProfit is the unit margin times MonthlySales.
func (p Product) MonthlyProfit() float64 {
	return (p.CurrentPrice - p.Cost) * float64(p.MonthlySales)
}

type SimulationResult struct {
	Price           float64 `json:"price"`
	PredictedVolume float64 `json:"predictedVolume"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	ChangePercent   float64 `json:"changePercent"`
}

type DemandPrediction struct {
	Analysis    string             `json:"analysis"`
	Simulations []SimulationResult `json:"simulations"`
}
