// Package screener contains the opportunity screening engine: the valuation
// category rules, the per-option strategy filters, and the aggregator that
// assembles one screening cycle from the five upstream datasets.
package screener

import (
	"github.com/brquant/optscreener/internal/marketdata"
)

// Category is the valuation bucket a stock falls into. The buckets are
// strictly disjoint, with a dead zone between them that yields no category
// at all — a deliberate business rule, not a gap.
type Category string

const (
	CategoryCheap     Category = "CHEAP"
	CategoryExpensive Category = "EXPENSIVE"
	CategoryNone      Category = ""
)

// cheap / expensive thresholds on the falta percentage.
const (
	cheapFloor       = -15.0
	expensiveCeiling = -50.0
)

// CategoryFor maps the falta percentage (signed distance of price from the
// target band) onto a category. Values in (-50, -15) fall in the dead zone
// and return CategoryNone.
func CategoryFor(faltaPct float64) Category {
	switch {
	case faltaPct >= cheapFloor:
		return CategoryCheap
	case faltaPct <= expensiveCeiling:
		return CategoryExpensive
	default:
		return CategoryNone
	}
}

// Stock is a fully resolved stock for one screening cycle: volatile fields
// have been read through the value cache and every numeric field is parsed.
// Immutable once built.
type Stock struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`

	Price    float64 `json:"price"`
	MinVal   float64 `json:"min_val"`
	MaxVal   float64 `json:"max_val"`
	FaltaPct float64 `json:"falta_val"` // percentage, e.g. -9.0
	Sigma    float64 `json:"sigma"`     // annualized volatility fraction

	ChangeDay string `json:"change_day"` // display only
}

// EnrichedOption is an option that passed its strategy filter, annotated
// with the pricing results that justified it.
type EnrichedOption struct {
	marketdata.OptionRecord

	BusinessDays int     `json:"business_days"`
	Delta        float64 `json:"delta"`
	TheoPrice    float64 `json:"bs_price"`
	// ProbSuccess is the delta heuristic — |delta| for bought legs,
	// 1-|delta| for sold legs. It is not a rigorous expiring-ITM
	// probability and is named accordingly.
	ProbSuccess float64 `json:"prob_success_val"`
	EdgePct     float64 `json:"edge_val"` // percentage, (market-theo)/theo*100

	DeltaFormatted string `json:"delta_val"`
	TheoFormatted  string `json:"bs_price_val"`
	ProbFormatted  string `json:"prob_success"`
	EdgeFormatted  string `json:"edge_formatted"`
	SigmaFormatted string `json:"sigma"`

	// YieldDisplay is set on sold legs, CostDisplay on bought legs.
	YieldDisplay string  `json:"yield_display,omitempty"`
	CostDisplay  string  `json:"cost_display,omitempty"`
	LastPrice    float64 `json:"last_price"`
}

// SkipReason says why an item was excluded from a cycle. Reasons exist so
// tests (and operators) can assert on the why, not just the absence.
type SkipReason string

const (
	SkipNone                  SkipReason = ""
	SkipUnknownType           SkipReason = "unknown_type"
	SkipBadStrike             SkipReason = "bad_strike"
	SkipExpired               SkipReason = "expired"
	SkipPremiumTooLow         SkipReason = "premium_too_low"
	SkipPremiumTooHigh        SkipReason = "premium_too_high"
	SkipTenorTooLong          SkipReason = "tenor_too_long"
	SkipTenorTooShort         SkipReason = "tenor_too_short"
	SkipStrikeAboveBand       SkipReason = "strike_above_band"        // cheap put: strike > min_val*1.08
	SkipStrikeNotAboveSpot    SkipReason = "strike_not_above_spot"    // cheap call: strike <= price*1.10
	SkipStrikeNotAboveTargets SkipReason = "strike_not_above_targets" // expensive call
	SkipStrikeNotBelowSpot    SkipReason = "strike_not_below_spot"    // expensive put: strike >= price*0.90
	SkipPricingDegenerate     SkipReason = "pricing_degenerate"

	// Stock-level reasons.
	SkipDeadZone  SkipReason = "dead_zone"
	SkipNoTargets SkipReason = "no_targets"
	SkipBadPrice  SkipReason = "bad_price"
)

// Verdict is the per-item decision record for one evaluation.
type Verdict struct {
	Ticker   string     `json:"ticker"`
	Accepted bool       `json:"accepted"`
	Reason   SkipReason `json:"reason,omitempty"`
}

// Opportunity pairs a categorized stock with its qualifying option legs.
type Opportunity struct {
	Stock        Stock            `json:"stock"`
	Puts         []EnrichedOption `json:"puts"`
	Calls        []EnrichedOption `json:"calls"`
	Category     Category         `json:"category"`
	DistanceCost float64          `json:"distance_cost"`
}

// Result is the output of one screening cycle.
type Result struct {
	Cheap       []Opportunity                 `json:"cheap"`
	Expensive   []Opportunity                 `json:"expensive"`
	FixedIncome []marketdata.FixedIncomeTitle `json:"fixed_income"`
	Guarantee   []marketdata.ETFQuote         `json:"guarantee"`
}
