package gex

import (
	"testing"
	"time"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

func profileChain(asOf time.Time) []OptionQuote {
	expiry := asOf.Add(10 * 24 * time.Hour)
	var quotes []OptionQuote
	for strike := 90.0; strike <= 110; strike += 5 {
		quotes = append(quotes,
			OptionQuote{Strike: strike, Type: greeks.Call, OpenInterest: 100, IV: fptr(0.25), Expiry: expiry},
			OptionQuote{Strike: strike, Type: greeks.Put, OpenInterest: 100, IV: fptr(0.25), Expiry: expiry},
		)
	}
	return quotes
}

func TestGreekProfileGamma(t *testing.T) {
	asOf := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	mkt := MarketContext{Spot: 100, AsOf: asOf}

	levels, skipped, err := GreekProfile(profileChain(asOf), mkt, testWindow(), GammaKind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skips, got %d", skipped)
	}
	if len(levels) != 5 {
		t.Fatalf("expected 5 strike buckets, got %d", len(levels))
	}
	// Call and put at the same strike with identical IV and OI cancel.
	for _, l := range levels {
		if l.Net != 0 {
			t.Errorf("strike %v: expected balanced net 0, got %v", l.Strike, l.Net)
		}
	}
}

func TestGreekProfileVanna(t *testing.T) {
	asOf := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	mkt := MarketContext{Spot: 100, AsOf: asOf}

	levels, _, err := GreekProfile(profileChain(asOf), mkt, testWindow(), VannaKind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 5 {
		t.Fatalf("expected 5 strike buckets, got %d", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Strike <= levels[i-1].Strike {
			t.Fatal("levels must be ordered by strike")
		}
	}
	// Vega peaks at the money, so its strike-gradient flips sign around
	// spot: positive below, negative above, for both legs. With the
	// put legs signed negative the buckets cannot all be zero.
	var nonZero bool
	for _, l := range levels {
		if l.Net != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("expected non-trivial vanna profile")
	}
}

func TestGreekProfileCharmSkipsUnpricableRows(t *testing.T) {
	asOf := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	quotes := profileChain(asOf)
	quotes = append(quotes, OptionQuote{
		// Gamma-only row: no IV to derive theta from.
		Strike: 100, Type: greeks.Call, OpenInterest: 50,
		Gamma: fptr(0.01), Expiry: asOf.Add(24 * time.Hour),
	})
	mkt := MarketContext{Spot: 100, AsOf: asOf}

	_, skipped, err := GreekProfile(quotes, mkt, testWindow(), CharmKind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", skipped)
	}
}

func TestGreekProfileUnknownKind(t *testing.T) {
	mkt := MarketContext{Spot: 100, AsOf: time.Now()}
	if _, _, err := GreekProfile(nil, mkt, testWindow(), GreekKind("vomma")); err == nil {
		t.Error("expected error for unknown greek kind")
	}
}
