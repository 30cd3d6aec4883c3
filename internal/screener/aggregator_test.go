package screener

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brquant/optscreener/internal/cache"
	"github.com/brquant/optscreener/internal/marketdata"
)

type downProvider struct{}

var errDown = errors.New("upstream down")

func (downProvider) Stocks() ([]marketdata.StockRecord, error)   { return nil, errDown }
func (downProvider) Options() ([]marketdata.OptionRecord, error) { return nil, errDown }
func (downProvider) RiskFreeRate() (string, error)               { return "", errDown }

func (downProvider) FixedIncome() ([]marketdata.FixedIncomeTitle, error) { return nil, errDown }
func (downProvider) GuaranteeETFs() ([]marketdata.ETFQuote, error)       { return nil, errDown }

func newTestEngine(prov marketdata.Provider) *Engine {
	e := NewEngine(prov, cache.New(nil), 5, 0.1075)
	e.SetClock(func() time.Time { return cycleDay })
	return e
}

func TestRunWithSyntheticUniverse(t *testing.T) {
	prov := marketdata.NewSyntheticProviderAt(cycleDay)
	res := newTestEngine(prov).Run()

	require.Len(t, res.Cheap, 1)
	require.Len(t, res.Expensive, 1)

	vale := res.Cheap[0]
	require.Equal(t, "VALE3", vale.Stock.Ticker)
	require.Len(t, vale.Puts, 1)
	require.Len(t, vale.Calls, 1)
	require.Equal(t, "VALEP620", vale.Puts[0].Ticker)
	require.Equal(t, "VALEC720", vale.Calls[0].Ticker)

	mglu := res.Expensive[0]
	require.Equal(t, "MGLU3", mglu.Stock.Ticker)
	// the near call sits below the high target; only the far put qualifies
	require.Empty(t, mglu.Calls)
	require.Len(t, mglu.Puts, 1)
	require.Equal(t, "MGLUP180", mglu.Puts[0].Ticker)

	// the dead-zone stock never appears
	for _, opp := range append(res.Cheap, res.Expensive...) {
		require.NotEqual(t, "CSNA3", opp.Stock.Ticker)
	}

	require.NotEmpty(t, res.FixedIncome)
	require.Len(t, res.Guarantee, 1)
	require.Equal(t, "LFTS11", res.Guarantee[0].Titulo)
}

func TestRunIsDeterministic(t *testing.T) {
	prov := marketdata.NewSyntheticProviderAt(cycleDay)
	e := newTestEngine(prov)
	first := e.Run()
	second := e.Run()
	require.Equal(t, first, second)
}

func TestRunSurvivesTotalUpstreamFailure(t *testing.T) {
	res := newTestEngine(downProvider{}).Run()
	require.NotNil(t, res)
	require.Empty(t, res.Cheap)
	require.Empty(t, res.Expensive)
	require.Empty(t, res.FixedIncome)
	require.Empty(t, res.Guarantee)
}

// partialProvider fails only the rate fetch; everything else serves fixtures.
type partialProvider struct {
	marketdata.Provider
}

func (partialProvider) RiskFreeRate() (string, error) { return "", errDown }

func TestRunFallsBackOnRateFailure(t *testing.T) {
	prov := partialProvider{Provider: marketdata.NewSyntheticProviderAt(cycleDay)}
	res := newTestEngine(prov).Run()
	// screening proceeds on the fallback rate
	require.Len(t, res.Cheap, 1)
	require.Len(t, res.Expensive, 1)
}

func TestRunUsesCacheForVolatileFields(t *testing.T) {
	vc := cache.New(nil)
	// seed the history a prior cycle would have written
	vc.GetOrUpdate("VALE3", "min_val", "58,00")

	e := NewEngine(stockOnlyProvider{}, vc, 5, 0.1075)
	e.SetClock(func() time.Time { return cycleDay })
	res := e.Run()

	require.Len(t, res.Cheap, 1)
	require.InDelta(t, 58.0, res.Cheap[0].Stock.MinVal, 1e-12)
}

// stockOnlyProvider serves one stock whose band cell arrives broken, plus a
// qualifying put so the stock surfaces in the result.
type stockOnlyProvider struct{}

func (stockOnlyProvider) Stocks() ([]marketdata.StockRecord, error) {
	return []marketdata.StockRecord{{
		Ticker:    "VALE3",
		PriceRaw:  "R$ 60,00",
		MinValRaw: "#N/A",
		MaxValRaw: "75,00",
		FaltaRaw:  "-0,08",
		VolAnoRaw: "32,5%",
	}}, nil
}

func (stockOnlyProvider) Options() ([]marketdata.OptionRecord, error) {
	return []marketdata.OptionRecord{{
		Underlying: "VALE3", Ticker: "VALEP600", Type: marketdata.OptionPut,
		Strike: 58.00, PriceVal: 1.10, PremiumVal: 0.018, Expiration: expiryIn(25),
	}}, nil
}

func (stockOnlyProvider) RiskFreeRate() (string, error) { return "10.75%", nil }

func (stockOnlyProvider) FixedIncome() ([]marketdata.FixedIncomeTitle, error) { return nil, nil }

func (stockOnlyProvider) GuaranteeETFs() ([]marketdata.ETFQuote, error) { return nil, nil }

func TestGroupByUnderlying(t *testing.T) {
	grouped := groupByUnderlying([]marketdata.OptionRecord{
		{Underlying: "vale3", Ticker: "A"},
		{Underlying: "VALE3", Ticker: "B"},
		{Underlying: "PETR4", Ticker: "C"},
		{Underlying: "", Ticker: "orphan"},
	})
	require.Len(t, grouped, 2)
	require.Len(t, grouped["VALE3"], 2)
	require.Equal(t, "A", grouped["VALE3"][0].Ticker)
	require.Len(t, grouped["PETR4"], 1)
}
