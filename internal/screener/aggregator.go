package screener

import (
	"strings"
	"sync"
	"time"

	"github.com/brquant/optscreener/internal/cache"
	"github.com/brquant/optscreener/internal/logger"
	"github.com/brquant/optscreener/internal/marketdata"
)

// Engine orchestrates one screening cycle: concurrent upstream fetches,
// classification, and reference picks. It holds no cross-cycle state of its
// own; the value cache is the only staleness carried between cycles.
type Engine struct {
	prov         marketdata.Provider
	cache        *cache.ValueCache
	workers      int
	fallbackRate float64

	// now supplies the cycle date; replaced in tests.
	now func() time.Time
}

// NewEngine builds the aggregator. workers bounds the fetch pool (values
// outside 1..16 fall back to 5); fallbackRate is the risk-free fraction used
// when the rate upstream is unavailable.
func NewEngine(prov marketdata.Provider, c *cache.ValueCache, workers int, fallbackRate float64) *Engine {
	if workers < 1 || workers > 16 {
		workers = 5
	}
	if fallbackRate <= 0 {
		fallbackRate = 0.1075
	}
	return &Engine{
		prov:         prov,
		cache:        c,
		workers:      workers,
		fallbackRate: fallbackRate,
		now:          time.Now,
	}
}

// SetClock pins the cycle date. Test hook.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Run executes one screening cycle and always returns a result: every
// upstream failure degrades to an empty dataset for that source, so total
// upstream failure manifests as empty output, never as an error.
func (e *Engine) Run() *Result {
	start := e.now()
	today := start

	var (
		stocks  []marketdata.StockRecord
		options []marketdata.OptionRecord
		rateStr string
		fixed   []marketdata.FixedIncomeTitle
		etfs    []marketdata.ETFQuote
	)

	// The five fetches are independent; each failure is logged and leaves
	// its dataset empty. Each task writes only its own variable, so the
	// pool join is the only synchronization needed.
	tasks := []func(){
		func() {
			var err error
			if stocks, err = e.prov.Stocks(); err != nil {
				logger.Errorf("event=fetch_failed source=stocks err=%v", err)
				stocks = nil
			}
		},
		func() {
			var err error
			if options, err = e.prov.Options(); err != nil {
				logger.Errorf("event=fetch_failed source=options err=%v", err)
				options = nil
			}
		},
		func() {
			var err error
			if rateStr, err = e.prov.RiskFreeRate(); err != nil {
				logger.Errorf("event=fetch_failed source=risk_free_rate err=%v", err)
				rateStr = ""
			}
		},
		func() {
			var err error
			if fixed, err = e.prov.FixedIncome(); err != nil {
				logger.Errorf("event=fetch_failed source=fixed_income err=%v", err)
				fixed = nil
			}
		},
		func() {
			var err error
			if etfs, err = e.prov.GuaranteeETFs(); err != nil {
				logger.Errorf("event=fetch_failed source=guarantee_etfs err=%v", err)
				etfs = nil
			}
		},
	}
	e.runPool(tasks)

	logger.Infof("event=fetch_done stocks=%d options=%d elapsed=%s",
		len(stocks), len(options), time.Since(start))

	riskFree, ok := marketdata.ParseRatePercent(rateStr)
	if !ok {
		riskFree = e.fallbackRate
		logger.Debugf("event=risk_free_fallback rate=%.4f", riskFree)
	}

	byTicker := groupByUnderlying(options)

	cl := NewClassifier(e.cache, today)
	res := &Result{}
	skipped := 0
	for _, rec := range stocks {
		stock := cl.ResolveStock(rec)
		opp, verdicts := cl.Classify(stock, byTicker[stock.Ticker], riskFree)
		if opp == nil {
			skipped++
			for _, v := range verdicts {
				logger.Tracef("event=stock_excluded ticker=%s reason=%s", stock.Ticker, v.Reason)
			}
			continue
		}
		switch opp.Category {
		case CategoryCheap:
			res.Cheap = append(res.Cheap, *opp)
		case CategoryExpensive:
			res.Expensive = append(res.Expensive, *opp)
		}
	}

	res.FixedIncome = PickFixedIncome(fixed)
	res.Guarantee = PickGuarantee(etfs)

	logger.Infof("event=cycle_done cheap=%d expensive=%d skipped=%d rate=%.4f elapsed=%s",
		len(res.Cheap), len(res.Expensive), skipped, riskFree, time.Since(start))
	return res
}

// runPool executes tasks on a bounded worker pool and joins before
// returning. The pool lives for one cycle only.
func (e *Engine) runPool(tasks []func()) {
	jobs := make(chan func())
	var wg sync.WaitGroup

	n := e.workers
	if n > len(tasks) {
		n = len(tasks)
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				task()
			}
		}()
	}

	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
}

// groupByUnderlying indexes the option chain by upper-cased underlying
// ticker, preserving upstream order within each group.
func groupByUnderlying(options []marketdata.OptionRecord) map[string][]marketdata.OptionRecord {
	out := make(map[string][]marketdata.OptionRecord)
	for _, opt := range options {
		key := strings.ToUpper(strings.TrimSpace(opt.Underlying))
		if key == "" {
			continue
		}
		out[key] = append(out[key], opt)
	}
	return out
}
