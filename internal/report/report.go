// Package report writes a screening cycle's result to disk as JSON and as a
// flattened CSV of the accepted option legs.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brquant/optscreener/internal/screener"
)

// WriteJSON writes the full cycle result as indented JSON.
func WriteJSON(res *screener.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "opportunities.json"), b, 0644)
}

// WriteCSV flattens the accepted option legs (both categories, both sides)
// into one row per leg.
func WriteCSV(res *screener.Result, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "opportunities.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"category", "underlying", "option", "type", "strike", "expiration", "business_days", "last_price", "theo_price", "delta", "prob_success", "edge_pct", "yield", "cost"}
	if err := w.Write(headers); err != nil {
		return err
	}

	write := func(opp screener.Opportunity) {
		for _, legs := range [][]screener.EnrichedOption{opp.Puts, opp.Calls} {
			for _, leg := range legs {
				row := []string{
					string(opp.Category),
					opp.Stock.Ticker,
					leg.Ticker,
					leg.Type.String(),
					fmt.Sprintf("%.2f", leg.Strike),
					leg.Expiration,
					fmt.Sprintf("%d", leg.BusinessDays),
					fmt.Sprintf("%.2f", leg.LastPrice),
					fmt.Sprintf("%.2f", leg.TheoPrice),
					leg.DeltaFormatted,
					leg.ProbFormatted,
					leg.EdgeFormatted,
					leg.YieldDisplay,
					leg.CostDisplay,
				}
				_ = w.Write(row)
			}
		}
	}
	for _, opp := range res.Cheap {
		write(opp)
	}
	for _, opp := range res.Expensive {
		write(opp)
	}
	return nil
}
