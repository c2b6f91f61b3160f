// Package pricing computes fee-aware sell targets, net P&L and breakeven
// thresholds for a single round-trip trade.
package pricing

import (
	"math"

	"PEAScout/internal/model"
)

// ComputeTarget returns the sell price per share required to realize
// grossTargetPct on the invested amount after brokerage fees on both legs.
//
// Shares bought = (investment - buyFee) / entryPrice. When the share count
// degenerates to zero or negative (zero or negative entry price), the
// target falls back to entryPrice*(1+grossTargetPct) instead of dividing
// by zero. The result carries 4 decimals: share counts are fractional and
// sub-cent errors compound across shares.
func ComputeTarget(entryPrice, investment, grossTargetPct float64, fees model.FeeConfig) float64 {
	feeBuy := fees.BuyFee(investment)
	feeSell := fees.SellFee(investment, grossTargetPct)

	var qty float64
	if entryPrice > 0 {
		qty = (investment - feeBuy) / entryPrice
	}
	if qty <= 0 {
		return round(entryPrice*(1+grossTargetPct), 4)
	}

	totalOut := investment*(1+grossTargetPct) + feeSell
	return round(totalOut/qty, 4)
}

// ComputeNetGain returns the net P&L of a round trip after both fee legs,
// rounded to 2 decimals. In pct mode each leg is charged on its own
// notional (entry*qty on the way in, exit*qty on the way out).
func ComputeNetGain(entryPrice, exitPrice, qty float64, fees model.FeeConfig) float64 {
	gross := (exitPrice - entryPrice) * qty
	var totalFees float64
	if fees.Mode == model.FeePct {
		totalFees = entryPrice*qty*fees.PctFee + exitPrice*qty*fees.PctFee
	} else {
		totalFees = 2 * fees.FlatFee
	}
	return round(gross-totalFees, 2)
}

// ComputeBreakeven returns the minimum gross return, in percent, needed
// to cover the round-trip fees on the given investment.
func ComputeBreakeven(investment float64, fees model.FeeConfig) float64 {
	var totalFees float64
	if fees.Mode == model.FeePct {
		totalFees = investment * fees.PctFee * 2
	} else {
		totalFees = 2 * fees.FlatFee
	}
	return round(totalFees/investment*100, 2)
}

func round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
