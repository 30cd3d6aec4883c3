// Package marketdata: HTTP-backed Provider implementation.
//
// This file contains the spreadsheet/BCB-backed Provider that retrieves the
// stock universe, option chain and fixed income tabs as published CSV
// exports, and the headline policy rate from the central bank's open data
// API.
//
// Design notes:
//   - Uses a tuned net/http client rather than an SDK
//   - Each dataset is one GET; retries and auth are the publisher's concern
//   - Expects canonical headers on each tab (column discovery is out of
//     scope); header lookup is case-insensitive exact match
package marketdata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brquant/optscreener/internal/logger"
)

// sheetProvider implements Provider over published CSV tabs plus the BCB
// rate API.
type sheetProvider struct {
	// Client is the HTTP client used for all requests.
	Client *http.Client

	// One URL per dataset. An empty URL yields an empty dataset rather than
	// an error; the aggregator treats the two the same way.
	StocksURL      string
	OptionsURL     string
	FixedIncomeURL string
	ETFURL         string

	// BCBBaseURL is the root of the central bank open data API
	// (https://api.bcb.gov.br).
	BCBBaseURL string
}

// selicSeriesPath is SGS series 432, the Selic target rate.
const selicSeriesPath = "/dados/serie/bcdata.sgs.432/dados/ultimos/1?formato=json"

// NewSheetProvider constructs the HTTP-backed provider.
func NewSheetProvider(stocksURL, optionsURL, fixedIncomeURL, etfURL, bcbBaseURL string, timeout time.Duration) Provider {
	return &sheetProvider{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				ForceAttemptHTTP2:   true,
				DisableCompression:  false,
				MaxIdleConnsPerHost: 5,
			},
		},
		StocksURL:      stocksURL,
		OptionsURL:     optionsURL,
		FixedIncomeURL: fixedIncomeURL,
		ETFURL:         etfURL,
		BCBBaseURL:     strings.TrimRight(bcbBaseURL, "/"),
	}
}

// Stocks fetches and parses the stock universe tab.
func (p *sheetProvider) Stocks() ([]StockRecord, error) {
	rows, err := p.fetchCSV(p.StocksURL)
	if err != nil {
		return nil, fmt.Errorf("fetching stocks tab: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	h := newHeader(rows[0])
	var stocks []StockRecord
	for _, row := range rows[1:] {
		ticker := strings.TrimSpace(h.get(row, "TICKER"))
		if ticker == "" {
			continue
		}
		stocks = append(stocks, StockRecord{
			Ticker:       strings.ToUpper(ticker),
			CompanyName:  h.get(row, "EMPRESA"),
			Sector:       h.get(row, "SETOR"),
			PriceRaw:     h.get(row, "PRECO"),
			MinValRaw:    h.get(row, "MENOR VALOR"),
			MaxValRaw:    h.get(row, "MAIOR VALOR"),
			FaltaRaw:     h.get(row, "FALTA"),
			VolAnoRaw:    h.get(row, "VOLATILIDADE"),
			ChangeDayRaw: h.get(row, "VARIACAO DIA"),
		})
	}
	logger.Debugf("event=stocks_fetched count=%d", len(stocks))
	return stocks, nil
}

// Options fetches and parses the option chain tab.
func (p *sheetProvider) Options() ([]OptionRecord, error) {
	rows, err := p.fetchCSV(p.OptionsURL)
	if err != nil {
		return nil, fmt.Errorf("fetching options tab: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	h := newHeader(rows[0])
	var options []OptionRecord
	for _, row := range rows[1:] {
		ticker := strings.TrimSpace(h.get(row, "ATIVO"))
		underlying := strings.TrimSpace(h.get(row, "SUBJACENTE"))
		if ticker == "" && underlying == "" {
			continue
		}
		label := h.get(row, "TIPO")
		options = append(options, OptionRecord{
			Underlying: strings.ToUpper(underlying),
			Ticker:     strings.ToUpper(ticker),
			TypeLabel:  label,
			Type:       ParseOptionType(label),
			Strike:     ParseLocaleFloat(h.get(row, "STRIKE")),
			PriceVal:   ParseLocaleFloat(h.get(row, "PRECO")),
			PremiumVal: ParseLocaleFloat(h.get(row, "PREMIO")),
			Expiration: strings.TrimSpace(h.get(row, "VENCIMENTO")),
			Trades:     h.get(row, "NEGOCIOS"),
			Volume:     h.get(row, "VOLUME"),
		})
	}
	logger.Debugf("event=options_fetched count=%d", len(options))
	return options, nil
}

// RiskFreeRate fetches the Selic target from the BCB SGS API and returns it
// as a percentage string, e.g. "10.75%".
func (p *sheetProvider) RiskFreeRate() (string, error) {
	resp, err := p.Client.Get(p.BCBBaseURL + selicSeriesPath)
	if err != nil {
		return "", fmt.Errorf("fetching selic rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("selic rate endpoint returned %s", resp.Status)
	}

	// [{"data":"01/02/2026","valor":"10.75"}]
	var series []struct {
		Data  string `json:"data"`
		Valor string `json:"valor"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return "", fmt.Errorf("decoding selic response: %w", err)
	}
	if len(series) == 0 {
		return "", fmt.Errorf("selic response was empty")
	}
	return series[0].Valor + "%", nil
}

// FixedIncome fetches and parses the government bond tab, categorizing each
// title by its name.
func (p *sheetProvider) FixedIncome() ([]FixedIncomeTitle, error) {
	rows, err := p.fetchCSV(p.FixedIncomeURL)
	if err != nil {
		return nil, fmt.Errorf("fetching fixed income tab: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	h := newHeader(rows[0])
	var titles []FixedIncomeTitle
	for _, row := range rows[1:] {
		titulo := strings.TrimSpace(h.get(row, "TITULO"))
		if titulo == "" {
			continue
		}
		titles = append(titles, FixedIncomeTitle{
			Titulo:          titulo,
			TaxaCompra:      h.get(row, "TAXA_COMPRA"),
			MinInvestimento: h.get(row, "MIN_INVESTIMENTO"),
			Vencimento:      h.get(row, "VENCIMENTO"),
			Category:        categorizeTitle(titulo),
		})
	}
	return titles, nil
}

// GuaranteeETFs fetches and parses the guarantee-fund ETF tab.
func (p *sheetProvider) GuaranteeETFs() ([]ETFQuote, error) {
	rows, err := p.fetchCSV(p.ETFURL)
	if err != nil {
		return nil, fmt.Errorf("fetching etf tab: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	h := newHeader(rows[0])
	var quotes []ETFQuote
	for _, row := range rows[1:] {
		titulo := strings.TrimSpace(h.get(row, "TITULO"))
		if titulo == "" {
			continue
		}
		quotes = append(quotes, ETFQuote{
			Titulo:     strings.ToUpper(titulo),
			Price:      ParseLocaleFloat(h.get(row, "PRECO")),
			YieldPct:   ParseLocaleFloat(h.get(row, "RENDIMENTO")),
			YieldLabel: h.get(row, "RENDIMENTO_LABEL"),
			Maturity:   h.get(row, "VENCIMENTO"),
		})
	}
	return quotes, nil
}

// categorizeTitle maps a bond name onto its product category.
func categorizeTitle(titulo string) string {
	up := strings.ToUpper(titulo)
	switch {
	case strings.Contains(up, "SELIC"):
		return "Reserva de Emergência"
	case strings.Contains(up, "IPCA"):
		return "Proteção contra Inflação"
	case strings.Contains(up, "PREFIXADO"):
		return "Pré-fixados"
	case strings.Contains(up, "RENDA+"), strings.Contains(up, "EDUCA+"):
		return "Longo Prazo / Aposentadoria"
	default:
		return "Outros"
	}
}

// fetchCSV downloads one tab and parses it into rows. An empty URL returns
// no rows; the caller's dataset is simply empty.
func (p *sheetProvider) fetchCSV(url string) ([][]string, error) {
	if url == "" {
		return nil, nil
	}

	resp, err := p.Client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1 // ragged rows are normal in sheet exports
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rows, nil
}

// header resolves canonical column names to indices, case-insensitively.
type header struct {
	index map[string]int
}

func newHeader(row []string) header {
	idx := make(map[string]int, len(row))
	for i, name := range row {
		idx[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return header{index: idx}
}

// get returns the cell under the named column, or "" when the column is
// missing or the row is short.
func (h header) get(row []string, name string) string {
	i, ok := h.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
