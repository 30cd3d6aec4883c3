package pricing

import (
	"math"
	"testing"
)

// Simple sanity check: ATM call should have non-zero value
func TestBlackScholesCallBasic(t *testing.T) {
	call := BlackScholesPrice(true, 100.0, 100.0, 30.0/252.0, 0.10, 0.30)
	if call <= 0 {
		t.Fatalf("expected call price > 0, got %f", call)
	}
}

// Put-call parity check
func TestBlackScholesPutCallParity(t *testing.T) {
	S, K, T, r, sigma := 100.0, 100.0, 45.0/252.0, 0.1075, 0.25

	call := BlackScholesPrice(true, S, K, T, r, sigma)
	put := BlackScholesPrice(false, S, K, T, r, sigma)

	lhs := call - put
	rhs := S - K*math.Exp(-r*T)

	if math.Abs(lhs-rhs) > 1e-9 {
		t.Fatalf("put-call parity violated: LHS=%f RHS=%f", lhs, rhs)
	}
}

func TestBlackScholesDegenerateFallsBackToIntrinsic(t *testing.T) {
	if got := BlackScholesPrice(true, 100, 90, 0, 0.10, 0.30); got != 10 {
		t.Fatalf("expired ITM call: expected intrinsic 10, got %f", got)
	}
	if got := BlackScholesPrice(false, 100, 110, 0, 0.10, 0.30); got != 10 {
		t.Fatalf("expired ITM put: expected intrinsic 10, got %f", got)
	}
	if got := BlackScholesPrice(true, 100, 110, 0, 0.10, 0.30); got != 0 {
		t.Fatalf("expired OTM call: expected 0, got %f", got)
	}
	// zero sigma degenerates the same way
	if got := BlackScholesPrice(false, 80, 100, 0.25, 0.10, 0); got != 20 {
		t.Fatalf("zero-sigma put: expected intrinsic 20, got %f", got)
	}
}

func TestBlackScholesDeltaBounds(t *testing.T) {
	for _, K := range []float64{50, 90, 100, 110, 200} {
		cd := BlackScholesDelta(true, 100, K, 0.25, 0.10, 0.40)
		if cd < 0 || cd > 1 {
			t.Fatalf("call delta out of [0,1] for K=%f: %f", K, cd)
		}
		pd := BlackScholesDelta(false, 100, K, 0.25, 0.10, 0.40)
		if pd < -1 || pd > 0 {
			t.Fatalf("put delta out of [-1,0] for K=%f: %f", K, pd)
		}
		if math.Abs((cd-pd)-1) > 1e-12 {
			t.Fatalf("call-put delta identity violated for K=%f: %f vs %f", K, cd, pd)
		}
	}
}

func TestBlackScholesDeltaDegenerate(t *testing.T) {
	if got := BlackScholesDelta(true, 100, 90, 0, 0.10, 0.30); got != 0 {
		t.Fatalf("expected delta 0 for expired option, got %f", got)
	}
	if got := BlackScholesDelta(false, 100, 90, 0.25, 0.10, -1); got != 0 {
		t.Fatalf("expected delta 0 for negative sigma, got %f", got)
	}
}

func TestBlackScholesVegaPositive(t *testing.T) {
	if v := BlackScholesVega(100, 100, 0.25, 0.10, 0.40); v <= 0 {
		t.Fatalf("expected positive vega, got %f", v)
	}
	if v := BlackScholesVega(100, 100, 0, 0.10, 0.40); v != 0 {
		t.Fatalf("expected zero vega for expired option, got %f", v)
	}
}

// Deep ITM call should trade close to forward intrinsic; deep OTM close to zero.
func TestBlackScholesMoneynessExtremes(t *testing.T) {
	T, r, sigma := 0.1, 0.10, 0.30
	deepITM := BlackScholesPrice(true, 100, 10, T, r, sigma)
	want := 100 - 10*math.Exp(-r*T)
	if math.Abs(deepITM-want) > 1e-3 {
		t.Fatalf("deep ITM call: expected ~%f, got %f", want, deepITM)
	}
	deepOTM := BlackScholesPrice(true, 100, 1000, T, r, sigma)
	if deepOTM > 1e-6 {
		t.Fatalf("deep OTM call: expected ~0, got %f", deepOTM)
	}
}
