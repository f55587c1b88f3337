package service

import (
	"fmt"
	"math"

	"github.com/rl1809/axion/internal/core/domain"
)

var defaultPriceSteps = []float64{0.8, 0.9, 1.0, 1.1, 1.2}

// Simulator projects demand at alternative prices with a constant-elasticity
// model: volume = sales * (price/current)^-elasticity.
type Simulator struct {
	elasticity float64
}

func NewSimulator(elasticity float64) *Simulator {
	return &Simulator{elasticity: elasticity}
}

// Predict simulates each price; with no prices it uses -20%..+20% of the
// current price in 10% steps.
func (s *Simulator) Predict(product domain.Product, prices []float64) domain.DemandPrediction {
	if len(prices) == 0 {
		prices = make([]float64, 0, len(defaultPriceSteps))
		for _, step := range defaultPriceSteps {
			prices = append(prices, math.Round(product.CurrentPrice*step*100)/100)
		}
	}

	results := make([]domain.SimulationResult, 0, len(prices))
	for _, price := range prices {
		results = append(results, s.simulate(product, price))
	}

	return domain.DemandPrediction{
		Analysis:    analyse(product, results),
		Simulations: results,
	}
}

func (s *Simulator) simulate(p domain.Product, price float64) domain.SimulationResult {
	r := domain.SimulationResult{Price: price}

	if p.CurrentPrice <= 0 || price <= 0 {
		return r
	}

	r.PredictedVolume = float64(p.MonthlySales) * math.Pow(price/p.CurrentPrice, -s.elasticity)
	r.Revenue = price * r.PredictedVolume
	r.Profit = (price - p.Cost) * r.PredictedVolume
	r.ChangePercent = (price - p.CurrentPrice) / p.CurrentPrice * 100

	return r
}

func analyse(p domain.Product, results []domain.SimulationResult) string {
	if len(results) == 0 {
		return "No price points to simulate."
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Profit > best.Profit {
			best = r
		}
	}

	return fmt.Sprintf(
		"%s: highest projected profit at %.2f (%+.1f%% vs current), %.0f units/month, profit %.2f against %.2f today.",
		p.Name, best.Price, best.ChangePercent, best.PredictedVolume, best.Profit, p.MonthlyProfit(),
	)
}
