package screener

import (
	"fmt"
	"math"
	"time"

	"github.com/brquant/optscreener/internal/cache"
	"github.com/brquant/optscreener/internal/calendar"
	"github.com/brquant/optscreener/internal/logger"
	"github.com/brquant/optscreener/internal/marketdata"
	"github.com/brquant/optscreener/internal/pricing"
)

// Strategy filter constants. Sold legs want rich, short-dated premium close
// to the band; bought legs want cheap, long-dated convexity away from spot.
const (
	incomeMinYield       = 0.01 // sold legs: premium yield must exceed 1%
	directionalMaxCost   = 0.02 // bought legs: premium yield must not exceed 2%
	incomeMaxDays        = 40   // sold legs: at most 40 business days out
	directionalMinDays   = 60   // bought legs: more than 60 business days out
	putStrikeBandFactor  = 1.08 // cheap put: strike <= min_val * 1.08
	callStrikeSpotFactor = 1.10 // cheap call: strike > price * 1.10
	putStrikeSpotFactor  = 0.90 // expensive put: strike < price * 0.90
)

// Classifier evaluates one stock and its option chain against the valuation
// category rules. It is a pure decision tree evaluated once per cycle; the
// only shared state it touches is the value cache.
type Classifier struct {
	cache *cache.ValueCache
	today time.Time
}

// NewClassifier builds a classifier for one screening cycle. today is
// captured once so every business-day count in the cycle agrees. A nil
// cache disables staleness substitution (raw values are used as-is).
func NewClassifier(c *cache.ValueCache, today time.Time) *Classifier {
	return &Classifier{cache: c, today: today}
}

// ResolveStock turns a raw ingested record into a typed Stock, reading the
// volatile fields through the value cache before parsing.
func (cl *Classifier) ResolveStock(rec marketdata.StockRecord) Stock {
	read := func(field, raw string) string {
		if cl.cache == nil {
			return raw
		}
		return cl.cache.GetOrUpdate(rec.Ticker, field, raw)
	}

	minRaw := read("min_val", rec.MinValRaw)
	maxRaw := read("max_val", rec.MaxValRaw)
	faltaRaw := read("falta", rec.FaltaRaw)
	volRaw := read("vol_ano", rec.VolAnoRaw)
	changeDay := read(cache.VariationField, rec.ChangeDayRaw)

	return Stock{
		Ticker:      rec.Ticker,
		CompanyName: rec.CompanyName,
		Sector:      rec.Sector,
		Price:       marketdata.ParseLocaleFloat(rec.PriceRaw),
		MinVal:      marketdata.ParseLocaleFloat(minRaw),
		MaxVal:      marketdata.ParseLocaleFloat(maxRaw),
		// The sheet stores falta as a fraction (-0.09 = nine percent below).
		FaltaPct:  marketdata.ParseLocaleFloat(faltaRaw) * 100,
		Sigma:     marketdata.ParseSigma(volRaw),
		ChangeDay: changeDay,
	}
}

// Classify runs the decision tree for one stock. It returns the resulting
// opportunity — nil when the stock contributes nothing this cycle — and one
// verdict per evaluated item. Stock-level exclusions yield a single verdict
// carrying the stock's ticker. Classify never fails: every per-item problem
// becomes a skip verdict.
func (cl *Classifier) Classify(stock Stock, opts []marketdata.OptionRecord, riskFree float64) (*Opportunity, []Verdict) {
	category := CategoryFor(stock.FaltaPct)
	if category == CategoryNone {
		return nil, []Verdict{{Ticker: stock.Ticker, Reason: SkipDeadZone}}
	}
	// Both bounds absent means the target data never loaded; screening
	// against a missing band is meaningless.
	if stock.MinVal <= 0 && stock.MaxVal <= 0 {
		return nil, []Verdict{{Ticker: stock.Ticker, Reason: SkipNoTargets}}
	}
	if stock.Price <= 0 {
		return nil, []Verdict{{Ticker: stock.Ticker, Reason: SkipBadPrice}}
	}

	var (
		puts     []EnrichedOption
		calls    []EnrichedOption
		verdicts []Verdict
	)
	for _, opt := range opts {
		enriched, reason := cl.evaluate(category, stock, opt, riskFree)
		if reason != SkipNone {
			verdicts = append(verdicts, Verdict{Ticker: opt.Ticker, Reason: reason})
			logger.Tracef("event=option_skipped stock=%s option=%s reason=%s", stock.Ticker, opt.Ticker, reason)
			continue
		}
		verdicts = append(verdicts, Verdict{Ticker: opt.Ticker, Accepted: true})
		if opt.Type == marketdata.OptionPut {
			puts = append(puts, enriched)
		} else {
			calls = append(calls, enriched)
		}
	}

	if len(puts) == 0 && len(calls) == 0 {
		return nil, verdicts
	}

	return &Opportunity{
		Stock:        stock,
		Puts:         puts,
		Calls:        calls,
		Category:     category,
		DistanceCost: stock.FaltaPct / 100.0,
	}, verdicts
}

// evaluate prices one option and applies the eligibility rules for the
// stock's category. A SkipNone reason means the enriched option is valid.
func (cl *Classifier) evaluate(category Category, stock Stock, opt marketdata.OptionRecord, riskFree float64) (EnrichedOption, SkipReason) {
	if opt.Type == marketdata.OptionUnknown {
		return EnrichedOption{}, SkipUnknownType
	}
	if opt.Strike <= 0 {
		return EnrichedOption{}, SkipBadStrike
	}

	bdays := calendar.BusinessDaysFrom(opt.Expiration, cl.today)
	if bdays <= 0 {
		return EnrichedOption{}, SkipExpired
	}
	T := float64(bdays) / 252.0

	isCall := opt.Type == marketdata.OptionCall
	theo := pricing.BlackScholesPrice(isCall, stock.Price, opt.Strike, T, riskFree, stock.Sigma)
	delta := pricing.BlackScholesDelta(isCall, stock.Price, opt.Strike, T, riskFree, stock.Sigma)
	if math.IsNaN(theo) || math.IsInf(theo, 0) || math.IsNaN(delta) {
		return EnrichedOption{}, SkipPricingDegenerate
	}

	var probSuccess float64
	var sold bool

	switch {
	case category == CategoryCheap && !isCall:
		// Short put income: rich premium, short tenor, strike near or
		// below the cheap band.
		if opt.PremiumVal <= incomeMinYield {
			return EnrichedOption{}, SkipPremiumTooLow
		}
		if bdays > incomeMaxDays {
			return EnrichedOption{}, SkipTenorTooLong
		}
		if opt.Strike > stock.MinVal*putStrikeBandFactor {
			return EnrichedOption{}, SkipStrikeAboveBand
		}
		probSuccess = 1 - math.Abs(delta)
		sold = true

	case category == CategoryCheap && isCall:
		// Long call upside: cheap premium, long tenor, strike well above
		// spot.
		if opt.PremiumVal > directionalMaxCost {
			return EnrichedOption{}, SkipPremiumTooHigh
		}
		if bdays <= directionalMinDays {
			return EnrichedOption{}, SkipTenorTooShort
		}
		if opt.Strike <= stock.Price*callStrikeSpotFactor {
			return EnrichedOption{}, SkipStrikeNotAboveSpot
		}
		probSuccess = math.Abs(delta)

	case category == CategoryExpensive && isCall:
		// Covered-call income: strike must clear both the high target and
		// the current price.
		if opt.PremiumVal <= incomeMinYield {
			return EnrichedOption{}, SkipPremiumTooLow
		}
		if bdays > incomeMaxDays {
			return EnrichedOption{}, SkipTenorTooLong
		}
		if opt.Strike <= stock.MaxVal || opt.Strike <= stock.Price {
			return EnrichedOption{}, SkipStrikeNotAboveTargets
		}
		probSuccess = 1 - math.Abs(delta)
		sold = true

	default: // CategoryExpensive && put
		// Outright short bet: cheap premium, long tenor, strike well below
		// spot.
		if opt.PremiumVal > directionalMaxCost {
			return EnrichedOption{}, SkipPremiumTooHigh
		}
		if bdays <= directionalMinDays {
			return EnrichedOption{}, SkipTenorTooShort
		}
		if opt.Strike >= stock.Price*putStrikeSpotFactor {
			return EnrichedOption{}, SkipStrikeNotBelowSpot
		}
		probSuccess = math.Abs(delta)
	}

	edgePct := 0.0
	if theo > 0 {
		edgePct = (opt.PriceVal - theo) / theo * 100
	}

	enriched := EnrichedOption{
		OptionRecord: opt,
		BusinessDays: bdays,
		Delta:        delta,
		TheoPrice:    theo,
		ProbSuccess:  probSuccess,
		EdgePct:      edgePct,

		DeltaFormatted: fmt.Sprintf("%.3f", delta),
		TheoFormatted:  fmt.Sprintf("R$ %.2f", theo),
		ProbFormatted:  fmt.Sprintf("%.1f%%", probSuccess*100),
		EdgeFormatted:  fmt.Sprintf("%.1f%%", edgePct),
		SigmaFormatted: fmt.Sprintf("%.1f%%", stock.Sigma*100),
		LastPrice:      opt.PriceVal,
	}
	if sold {
		enriched.YieldDisplay = fmt.Sprintf("%.2f%%", opt.PremiumVal*100)
	} else {
		enriched.CostDisplay = fmt.Sprintf("%.2f%%", opt.PremiumVal*100)
	}
	return enriched, SkipNone
}
