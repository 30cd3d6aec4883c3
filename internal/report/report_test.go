package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brquant/optscreener/internal/marketdata"
	"github.com/brquant/optscreener/internal/screener"
)

func sampleResult() *screener.Result {
	return &screener.Result{
		Cheap: []screener.Opportunity{{
			Stock:    screener.Stock{Ticker: "VALE3", Price: 60},
			Category: screener.CategoryCheap,
			Puts: []screener.EnrichedOption{{
				OptionRecord: marketdata.OptionRecord{
					Ticker: "VALEP620", Type: marketdata.OptionPut,
					Strike: 58, Expiration: "17/04/2026",
				},
				BusinessDays:   25,
				TheoPrice:      1.05,
				LastPrice:      1.10,
				DeltaFormatted: "-0.280",
				YieldDisplay:   "1.80%",
			}},
		}},
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSON(sampleResult(), dir))

	b, err := os.ReadFile(filepath.Join(dir, "opportunities.json"))
	require.NoError(t, err)

	var decoded screener.Result
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.Cheap, 1)
	require.Equal(t, "VALE3", decoded.Cheap[0].Stock.Ticker)
}

func TestWriteCSVFlattensLegs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteCSV(sampleResult(), dir))

	f, err := os.Open(filepath.Join(dir, "opportunities.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one leg
	require.Equal(t, "category", rows[0][0])
	require.Equal(t, "CHEAP", rows[1][0])
	require.Equal(t, "VALEP620", rows[1][2])
	require.Equal(t, "PUT", rows[1][3])
}
