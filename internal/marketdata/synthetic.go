package marketdata

import (
	"fmt"
	"time"
)

// synthProvider implements Provider with deterministic in-memory fixtures.
// It serves local runs without upstream credentials and gives tests a
// provider whose output never changes between calls.
type synthProvider struct {
	today time.Time
}

// NewSyntheticProvider returns a fixture-backed provider. Expiry dates are
// generated relative to today so the tenor rules see realistic horizons.
func NewSyntheticProvider() Provider {
	return &synthProvider{today: time.Now()}
}

// NewSyntheticProviderAt pins the fixture dates to a fixed day, for tests.
func NewSyntheticProviderAt(today time.Time) Provider {
	return &synthProvider{today: today}
}

func (p *synthProvider) Stocks() ([]StockRecord, error) {
	return []StockRecord{
		{
			Ticker:      "VALE3",
			CompanyName: "Vale",
			Sector:      "Mineração",
			PriceRaw:    "R$ 60,00",
			MinValRaw:   "58,00",
			MaxValRaw:   "75,00",
			FaltaRaw:    "-0,08",
			VolAnoRaw:   "32,5%",
		},
		{
			Ticker:      "MGLU3",
			CompanyName: "Magazine Luiza",
			Sector:      "Varejo",
			PriceRaw:    "R$ 2,10",
			MinValRaw:   "5,00",
			MaxValRaw:   "7,50",
			FaltaRaw:    "-0,58",
			VolAnoRaw:   "68,0%",
		},
		{
			// Dead zone: excluded from output.
			Ticker:      "CSNA3",
			CompanyName: "CSN",
			Sector:      "Siderurgia",
			PriceRaw:    "R$ 12,00",
			MinValRaw:   "16,00",
			MaxValRaw:   "21,00",
			FaltaRaw:    "-0,30",
			VolAnoRaw:   "41,0%",
		},
	}, nil
}

func (p *synthProvider) Options() ([]OptionRecord, error) {
	near := p.expiryIn(25)  // inside the <= 40 business day income window
	far := p.expiryIn(75)   // beyond the > 60 business day directional window
	opts := []OptionRecord{
		{Underlying: "VALE3", Ticker: "VALEP620", TypeLabel: "PUT", Strike: 58.00, PriceVal: 1.10, PremiumVal: 0.018, Expiration: near},
		{Underlying: "VALE3", Ticker: "VALEC720", TypeLabel: "CALL", Strike: 68.00, PriceVal: 0.55, PremiumVal: 0.009, Expiration: far},
		{Underlying: "MGLU3", Ticker: "MGLUC260", TypeLabel: "CALL", Strike: 2.60, PriceVal: 0.05, PremiumVal: 0.024, Expiration: near},
		{Underlying: "MGLU3", Ticker: "MGLUP180", TypeLabel: "PUT", Strike: 1.80, PriceVal: 0.04, PremiumVal: 0.019, Expiration: far},
	}
	for i := range opts {
		opts[i].Type = ParseOptionType(opts[i].TypeLabel)
	}
	return opts, nil
}

func (p *synthProvider) RiskFreeRate() (string, error) {
	return "10.75%", nil
}

func (p *synthProvider) FixedIncome() ([]FixedIncomeTitle, error) {
	return []FixedIncomeTitle{
		{Titulo: "Tesouro Selic 2029", TaxaCompra: "SELIC + 0,05%", Category: "Reserva de Emergência"},
		{Titulo: "Tesouro IPCA+ 2035", TaxaCompra: "IPCA + 6,10%", Category: "Proteção contra Inflação"},
		{Titulo: "Tesouro IPCA+ 2045", TaxaCompra: "IPCA + 6,30%", Category: "Proteção contra Inflação"},
		{Titulo: "Tesouro Prefixado 2031", TaxaCompra: "12,50%", Category: "Pré-fixados"},
		{Titulo: "Tesouro Renda+ 2055", TaxaCompra: "IPCA + 6,20%", Category: "Longo Prazo / Aposentadoria"},
	}, nil
}

func (p *synthProvider) GuaranteeETFs() ([]ETFQuote, error) {
	return []ETFQuote{
		{Titulo: "LFTS11", Price: 112.30, YieldPct: 10.9, YieldLabel: "12 Meses", Maturity: "Indeterminado"},
	}, nil
}

// expiryIn returns the DD/MM/YYYY date n business days after the fixture day.
func (p *synthProvider) expiryIn(n int) string {
	d := p.today
	for added := 0; added < n; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day(), int(d.Month()), d.Year())
}
