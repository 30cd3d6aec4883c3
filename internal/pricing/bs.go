package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// BlackScholesPrice calculates the price of a European option using the
// Black-Scholes model, with no dividend yield term.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years (business days / 252)
//   - r: risk-free interest rate (annual, as a decimal)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// Returns:
//
//	The theoretical price of the option. If time to expiry or volatility is
//	zero or negative, or the spot/strike is non-positive, the option is
//	degenerate and the intrinsic value is returned instead: max(0, S-K) for
//	calls and max(0, K-S) for puts.
func BlackScholesPrice(
	isCall bool,
	S float64, // spot
	K float64, // strike
	T float64, // time to expiry in years
	r float64, // risk-free rate
	sigma float64, // volatility
) float64 {

	if T <= 0 || sigma <= 0 || S <= 0 || K <= 0 {
		return intrinsic(isCall, S, K)
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	if isCall {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// BlackScholesDelta calculates the delta of a European option.
//
// Delta is the sensitivity of the option price to a unit move in the
// underlying: Φ(d1) for calls (bounded in [0, 1]) and Φ(d1)-1 for puts
// (bounded in [-1, 0]).
//
// Returns 0 whenever the option is degenerate (T <= 0, sigma <= 0, or a
// non-positive spot or strike).
func BlackScholesDelta(
	isCall bool,
	S float64,
	K float64,
	T float64,
	r float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 || S <= 0 || K <= 0 {
		return 0
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	if isCall {
		return normCDF(d1)
	}
	return normCDF(d1) - 1.0
}

// BlackScholesVega calculates the vega of a European option.
// Vega measures the sensitivity of the option price to changes in the
// underlying asset's volatility.
//
// Returns 0 if the option is degenerate.
func BlackScholesVega(
	S float64,
	K float64,
	T float64,
	r float64,
	sigma float64,
) float64 {

	if T <= 0 || sigma <= 0 || S <= 0 || K <= 0 {
		return 0
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return S * normPDF(d1) * math.Sqrt(T)
}

// intrinsic returns the exercise value of an option at expiry.
func intrinsic(isCall bool, S, K float64) float64 {
	if isCall {
		return math.Max(0, S-K)
	}
	return math.Max(0, K-S)
}

// normPDF calculates the probability density function of the standard normal
// distribution at x: exp(-0.5 * x^2) / sqrt(2π).
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF computes the cumulative distribution function of the standard
// normal distribution for a given value x using the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
