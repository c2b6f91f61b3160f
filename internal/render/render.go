// Package render formats engine outputs for terminal display.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"PEAScout/internal/confidence"
	"PEAScout/internal/heat"
	"PEAScout/internal/model"
)

// Recommendations formats a ranked candidate list as a report.
func Recommendations(candidates []model.ScoredCandidate, skips []model.SkipReason) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recommandations PEA | %s\n\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "%-4s %-8s %-22s %8s %9s %9s %7s %6s\n",
		"#", "Ticker", "Nom", "Prix", "Cible", "Liquidité", "Score", "Conf.")

	for i, c := range candidates {
		fmt.Fprintf(&b, "%-4d %-8s %-22s %8.2f %9.4f %9s %7.1f %6.1f\n",
			i+1, c.Ticker, truncate(c.Name, 22), c.Price, c.TargetPrice,
			humanize.SIWithDigits(c.Liquidity, 1, "€"), c.Score, c.Confidence)
	}

	b.WriteString("\nDétail facteurs (rendement relatif / momentum 3m / stabilité / confiance):\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "  %-8s %+6.2f%% | %+6.2f%% | %.4f | %s\n",
			c.Ticker, c.RelativeReturn*100, c.Momentum3M*100, c.Stability4W,
			confidence.Label(c.Confidence))
	}

	if len(skips) > 0 {
		fmt.Fprintf(&b, "\nExclus (%d):\n", len(skips))
		for _, s := range skips {
			fmt.Fprintf(&b, "  %-8s %s\n", s.Ticker, s.Reason)
		}
	}
	return b.String()
}

// BacktestReport formats a simulation result: summary first, then the
// trade log.
func BacktestReport(result *model.BacktestResult) string {
	var b strings.Builder
	sum := result.Summary

	b.WriteString("Résumé backtest\n\n")
	fmt.Fprintf(&b, "  P&L total     : %+.2f €\n", sum.TotalPnL)
	fmt.Fprintf(&b, "  Transactions  : %d\n", sum.Trades)
	fmt.Fprintf(&b, "  Taux de gain  : %.1f%%\n", sum.WinRate)
	fmt.Fprintf(&b, "  Meilleur trade: %+.2f €\n", sum.BestTrade)
	fmt.Fprintf(&b, "  Pire trade    : %+.2f €\n", sum.WorstTrade)
	fmt.Fprintf(&b, "  P&L moyen     : %+.2f €\n\n", sum.AvgTrade)

	fmt.Fprintf(&b, "%-11s %-11s %-8s %9s %9s %9s %9s %s\n",
		"Achat", "Vente", "Ticker", "Px achat", "Px cible", "Px vente", "P&L net", "Résultat")
	for _, tr := range result.Trades {
		fmt.Fprintf(&b, "%-11s %-11s %-8s %9.2f %9.2f %9.2f %+9.2f %s\n",
			tr.BuyDate.Format("2006-01-02"), tr.SellDate.Format("2006-01-02"),
			tr.Ticker, tr.BuyPrice, tr.TargetPrice, tr.SellPrice, tr.NetPnL,
			outcomeLabel(tr.Outcome))
	}
	return b.String()
}

// HeatReport formats the market-heat reading and allocation advice.
func HeatReport(h heat.Heat, advice heat.Advice) string {
	var b strings.Builder
	b.WriteString("Indice de chaleur du marché\n\n")
	fmt.Fprintf(&b, "  RSI(14)        : %.1f\n", h.RSI)
	fmt.Fprintf(&b, "  Dist. plus haut: %.2f%%\n", h.DistFrom52wHigh)
	fmt.Fprintf(&b, "  Chaleur        : %.1f/100 (%s)\n\n", h.Score, h.Level)
	fmt.Fprintf(&b, "  %s\n", h.Advice)
	fmt.Fprintf(&b, "  Allocation: %d positions × %s = %s (%.1f%% du capital)\n",
		advice.PositionsCount,
		humanize.CommafWithDigits(advice.PerPosition, 2)+" €",
		humanize.CommafWithDigits(advice.TotalDeployed, 2)+" €",
		advice.PctDeployed)
	return b.String()
}

func outcomeLabel(o model.TradeOutcome) string {
	if o == model.OutcomeTargetHit {
		return "Objectif atteint"
	}
	return "Arrêté fin de cycle"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
