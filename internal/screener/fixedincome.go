package screener

import (
	"strings"

	"github.com/brquant/optscreener/internal/marketdata"
)

// Reference-pick display labels. These are user-facing product names, kept
// in Portuguese to match the upstream sheets.
const (
	labelEmergency = "Reserva de Emergência"
	labelInflation = "Proteção (Inflação)"
	labelLongTerm  = "Longo Prazo"
	labelBestFixed = "Melhor Pré-Fixado"
)

// PickFixedIncome selects one reference title per bucket from the bond
// universe: the first Selic title as the emergency reserve, the first plain
// IPCA+ title as inflation protection, a Renda+ title (falling back to the
// last remaining IPCA+ title) for the long-term bucket, and the
// highest-rate plain prefixado. Titles paying semiannual coupons ("juros")
// are skipped for the inflation and prefixado picks: the reference picks
// are accumulation products. Missing buckets are simply absent.
func PickFixedIncome(titles []marketdata.FixedIncomeTitle) []marketdata.FixedIncomeTitle {
	var picks []marketdata.FixedIncomeTitle

	if t, ok := firstMatch(titles, func(up string) bool {
		return strings.Contains(up, "SELIC")
	}); ok {
		t.TypeDisplay = labelEmergency
		picks = append(picks, t)
	}

	if t, ok := firstMatch(titles, func(up string) bool {
		return strings.Contains(up, "IPCA") && !strings.Contains(up, "JUROS")
	}); ok {
		t.TypeDisplay = labelInflation
		picks = append(picks, t)
	}

	if t, ok := pickLongTerm(titles, picks); ok {
		t.TypeDisplay = labelLongTerm
		picks = append(picks, t)
	}

	if t, ok := pickBestPrefixado(titles); ok {
		t.TypeDisplay = labelBestFixed
		picks = append(picks, t)
	}

	return picks
}

// PickGuarantee returns the first LFTS11 quote, the ETF used as margin
// guarantee for the sold legs.
func PickGuarantee(quotes []marketdata.ETFQuote) []marketdata.ETFQuote {
	for _, q := range quotes {
		if strings.Contains(strings.ToUpper(q.Titulo), "LFTS11") {
			return []marketdata.ETFQuote{q}
		}
	}
	return nil
}

func firstMatch(titles []marketdata.FixedIncomeTitle, pred func(up string) bool) (marketdata.FixedIncomeTitle, bool) {
	for _, t := range titles {
		if pred(strings.ToUpper(t.Titulo)) {
			return t, true
		}
	}
	return marketdata.FixedIncomeTitle{}, false
}

// pickLongTerm prefers a Renda+ title; otherwise it takes the last IPCA+
// title not already picked, so the long-term slot gets the longest-dated
// inflation bond (the sheets list them in maturity order).
func pickLongTerm(titles, taken []marketdata.FixedIncomeTitle) (marketdata.FixedIncomeTitle, bool) {
	if t, ok := firstMatch(titles, func(up string) bool {
		return strings.Contains(up, "RENDA+")
	}); ok {
		return t, true
	}

	isTaken := func(name string) bool {
		for _, p := range taken {
			if p.Titulo == name {
				return true
			}
		}
		return false
	}
	for i := len(titles) - 1; i >= 0; i-- {
		up := strings.ToUpper(titles[i].Titulo)
		if strings.Contains(up, "IPCA") && !strings.Contains(up, "JUROS") && !isTaken(titles[i].Titulo) {
			return titles[i], true
		}
	}
	return marketdata.FixedIncomeTitle{}, false
}

// pickBestPrefixado returns the plain prefixado with the highest purchase
// rate, ranking by the locale-parsed rate string.
func pickBestPrefixado(titles []marketdata.FixedIncomeTitle) (marketdata.FixedIncomeTitle, bool) {
	var best marketdata.FixedIncomeTitle
	bestRate := -1.0
	for _, t := range titles {
		up := strings.ToUpper(t.Titulo)
		if !strings.Contains(up, "PREFIXADO") || strings.Contains(up, "JUROS") {
			continue
		}
		if rate := marketdata.ParseLocaleFloat(t.TaxaCompra); rate > bestRate {
			bestRate = rate
			best = t
		}
	}
	return best, bestRate >= 0
}
