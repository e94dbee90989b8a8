package greeks

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestD1D2KnownValues(t *testing.T) {
	// S=100, K=100, r=5%, sigma=20%, T=1y is the standard textbook case.
	d1, d2, err := D1D2(100, 100, 0.05, 0.20, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(d1, 0.35, 1e-12) {
		t.Errorf("expected d1=0.35, got %v", d1)
	}
	if !almostEqual(d2, 0.15, 1e-12) {
		t.Errorf("expected d2=0.15, got %v", d2)
	}
}

func TestPriceKnownValue(t *testing.T) {
	price, err := Price(100, 100, 0.05, 0.20, 1.0, Call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(price, 10.4506, 1e-4) {
		t.Errorf("expected call price ~10.4506, got %v", price)
	}
}

func TestDeltaPutCallParity(t *testing.T) {
	cases := []struct {
		s, k, r, sigma, tte float64
	}{
		{100, 100, 0.05, 0.20, 1.0},
		{4500, 4600, 0.0, 0.15, 10.0 / 365},
		{50, 80, 0.03, 0.60, 0.25},
		{312.5, 300, 0.045, 0.35, 2.0 / 365},
	}
	for _, c := range cases {
		callDelta, err := Delta(c.s, c.k, c.r, c.sigma, c.tte, Call)
		if err != nil {
			t.Fatalf("call delta: %v", err)
		}
		putDelta, err := Delta(c.s, c.k, c.r, c.sigma, c.tte, Put)
		if err != nil {
			t.Fatalf("put delta: %v", err)
		}
		if !almostEqual(callDelta-putDelta, 1.0, 1e-12) {
			t.Errorf("S=%v K=%v: expected delta parity 1, got %v", c.s, c.k, callDelta-putDelta)
		}
	}
}

func TestGammaNonNegative(t *testing.T) {
	cases := []struct {
		s, k, r, sigma, tte float64
	}{
		{100, 100, 0.05, 0.20, 1.0},
		{100, 250, 0.0, 0.10, 1.0 / 365},
		{6000, 4000, 0.05, 2.5, 0.5},
		{1, 1000, -0.01, 0.05, 5.0},
	}
	for _, c := range cases {
		g, err := Gamma(c.s, c.k, c.r, c.sigma, c.tte)
		if err != nil {
			t.Fatalf("S=%v K=%v: %v", c.s, c.k, err)
		}
		if g < 0 || math.IsNaN(g) {
			t.Errorf("S=%v K=%v: expected non-negative gamma, got %v", c.s, c.k, g)
		}
	}
}

func TestGammaKnownValue(t *testing.T) {
	g, err := Gamma(100, 100, 0.05, 0.20, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(g, 0.018762, 1e-5) {
		t.Errorf("expected gamma ~0.018762, got %v", g)
	}
}

func TestDegenerateInputs(t *testing.T) {
	if _, _, err := D1D2(100, 100, 0.05, 0.20, 0); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("T=0: expected ErrDegenerateInput, got %v", err)
	}
	if _, _, err := D1D2(100, 100, 0.05, 0, 1.0); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("sigma=0: expected ErrDegenerateInput, got %v", err)
	}
	if _, err := Gamma(0, 100, 0.05, 0.20, 1.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("S=0: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Price(100, -5, 0.05, 0.20, 1.0, Call); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("K<0: expected ErrInvalidInput, got %v", err)
	}
}

func TestParseOptionType(t *testing.T) {
	if typ, err := ParseOptionType("CALL"); err != nil || typ != Call {
		t.Errorf("expected Call, got %v (%v)", typ, err)
	}
	if typ, err := ParseOptionType("put"); err != nil || typ != Put {
		t.Errorf("expected Put, got %v (%v)", typ, err)
	}
	if _, err := ParseOptionType("STRADDLE"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}
