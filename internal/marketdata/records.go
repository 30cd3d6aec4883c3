// Package marketdata defines the typed records the screening engine consumes
// and the Provider interface that supplies them.
//
// Upstream sources are spreadsheet-shaped: loosely typed rows with
// locale-formatted numbers (comma decimal separator, thousands dot, "R$"
// prefixes). All normalization happens here, at the ingestion boundary; no
// business logic downstream ever touches raw cell text except the volatile
// stock fields, which stay raw so the value cache can gate them.
package marketdata

// OptionType is the closed two-valued contract type. The upstream "type"
// column is free text in a mixed PT/EN vocabulary; it is normalized exactly
// once, at ingestion, and nothing downstream branches on the raw label.
type OptionType int

const (
	OptionUnknown OptionType = iota
	OptionCall
	OptionPut
)

func (t OptionType) String() string {
	switch t {
	case OptionCall:
		return "CALL"
	case OptionPut:
		return "PUT"
	default:
		return "UNKNOWN"
	}
}

// StockRecord is one row of the stock universe as ingested. Price and the
// display fields are stable; the valuation band, falta and volatility cells
// are formula-driven and intermittently arrive invalid, so they are kept raw
// for the value cache to resolve.
type StockRecord struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`

	PriceRaw     string `json:"price"`
	MinValRaw    string `json:"min_val"`
	MaxValRaw    string `json:"max_val"`
	FaltaRaw     string `json:"falta"`
	VolAnoRaw    string `json:"vol_ano"`
	ChangeDayRaw string `json:"change_day"`
}

// OptionRecord is one listed option contract as ingested, numeric fields
// already normalized.
type OptionRecord struct {
	Underlying string     `json:"underlying"`
	Ticker     string     `json:"ticker"`
	TypeLabel  string     `json:"type"`
	Type       OptionType `json:"-"`

	Strike     float64 `json:"strike"`
	PriceVal   float64 `json:"price_val"`   // last traded price
	PremiumVal float64 `json:"premium_val"` // premium / underlying price, as a fraction
	Expiration string  `json:"expiration"`  // DD/MM/YYYY or YYYY-MM-DD

	Trades string `json:"trades"`
	Volume string `json:"volume"`
}

// FixedIncomeTitle is one government bond row from the fixed income tab.
type FixedIncomeTitle struct {
	Titulo          string `json:"titulo"`
	TaxaCompra      string `json:"taxa_compra"`
	MinInvestimento string `json:"min_investimento"`
	Vencimento      string `json:"vencimento"`
	Category        string `json:"category"`
	TypeDisplay     string `json:"type_display,omitempty"`
}

// ETFQuote is one guarantee-fund ETF reference quote.
type ETFQuote struct {
	Titulo     string  `json:"titulo"`
	Price      float64 `json:"price"`
	YieldPct   float64 `json:"yield_pct"`
	YieldLabel string  `json:"yield_label"`
	Maturity   string  `json:"maturity"`
}

// Provider supplies the five independent upstream datasets for one screening
// cycle. Implementations do blocking I/O; timeouts are the transport's
// concern.
type Provider interface {
	// Stocks returns the stock universe.
	Stocks() ([]StockRecord, error)
	// Options returns the full option chain.
	Options() ([]OptionRecord, error)
	// RiskFreeRate returns the headline policy rate as a percentage string
	// (e.g. "10.75%").
	RiskFreeRate() (string, error)
	// FixedIncome returns the fixed income reference instruments.
	FixedIncome() ([]FixedIncomeTitle, error)
	// GuaranteeETFs returns the guarantee-fund ETF reference quotes.
	GuaranteeETFs() ([]ETFQuote, error)
}
