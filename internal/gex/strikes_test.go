package gex

import (
	"testing"

	"github.com/dgnsrekt/gexlab/internal/greeks"
)

func TestNetByStrikeBucketsAndOrders(t *testing.T) {
	rows := []ExposureRow{
		{Strike: 105, Type: greeks.Call, Gross: 30, Signed: 30},
		{Strike: 95, Type: greeks.Put, Gross: 20, Signed: -20},
		{Strike: 105, Type: greeks.Put, Gross: 10, Signed: -10},
		{Strike: 500, Type: greeks.Call, Gross: 99, Signed: 99}, // outside window
	}

	levels := NetByStrike(rows, 100, 50)
	if len(levels) != 2 {
		t.Fatalf("expected 2 strike buckets, got %d", len(levels))
	}
	if levels[0].Strike != 95 || levels[0].Net != -20 {
		t.Errorf("expected {95, -20}, got %+v", levels[0])
	}
	if levels[1].Strike != 105 || levels[1].Net != 20 {
		t.Errorf("expected {105, 20}, got %+v", levels[1])
	}
}

func TestZeroFill(t *testing.T) {
	levels := []StrikeExposure{
		{Strike: 95, Net: -20},
		{Strike: 110, Net: 35},
	}
	filled := ZeroFill(levels, 5)
	if len(filled) != 4 {
		t.Fatalf("expected 4 levels after fill, got %d: %+v", len(filled), filled)
	}
	want := []StrikeExposure{{95, -20}, {100, 0}, {105, 0}, {110, 35}}
	for i, w := range want {
		if filled[i] != w {
			t.Errorf("level %d: expected %+v, got %+v", i, w, filled[i])
		}
	}
}

func TestZeroFillFractionalStep(t *testing.T) {
	// Accumulating 0.1 drifts off the binary lattice (100.1 + 0.1 !=
	// 100.2); present strikes must still land in their own buckets.
	levels := []StrikeExposure{
		{Strike: 100.0, Net: -5},
		{Strike: 100.1, Net: 2},
		{Strike: 100.3, Net: 7},
	}
	filled := ZeroFill(levels, 0.1)
	if len(filled) != 4 {
		t.Fatalf("expected 4 levels, got %d: %+v", len(filled), filled)
	}
	wantNets := []float64{-5, 2, 0, 7}
	for i, want := range wantNets {
		if filled[i].Net != want {
			t.Errorf("level %d: expected net %v, got %+v", i, want, filled[i])
		}
	}
	for i := 1; i < len(filled); i++ {
		if filled[i].Strike <= filled[i-1].Strike {
			t.Fatalf("strikes must stay strictly increasing: %+v", filled)
		}
	}
}

func TestZeroFillKeepsOffLatticeStrikes(t *testing.T) {
	levels := []StrikeExposure{
		{Strike: 95, Net: 1},
		{Strike: 97.5, Net: 3},
		{Strike: 105, Net: 2},
	}
	filled := ZeroFill(levels, 5)
	// Lattice 95/100/105 plus the preserved 97.5 bucket.
	if len(filled) != 4 {
		t.Fatalf("expected 4 levels, got %d: %+v", len(filled), filled)
	}
	if filled[1].Strike != 97.5 || filled[1].Net != 3 {
		t.Errorf("expected off-lattice bucket {97.5, 3}, got %+v", filled[1])
	}
	if filled[2].Strike != 100 || filled[2].Net != 0 {
		t.Errorf("expected zero bucket {100, 0}, got %+v", filled[2])
	}
}

func TestZeroFillNoStep(t *testing.T) {
	levels := []StrikeExposure{{Strike: 95, Net: 1}}
	if got := ZeroFill(levels, 5); len(got) != 1 {
		t.Errorf("single level stays untouched, got %+v", got)
	}
}

func TestTopStrikesByOI(t *testing.T) {
	quotes := []OptionQuote{
		{Strike: 95, Type: greeks.Put, OpenInterest: 500},
		{Strike: 95, Type: greeks.Call, OpenInterest: 600}, // 1100 combined
		{Strike: 100, Type: greeks.Call, OpenInterest: 900},
		{Strike: 105, Type: greeks.Call, OpenInterest: 100},
		{Strike: 400, Type: greeks.Call, OpenInterest: 9999}, // outside window
	}

	top := TopStrikesByOI(quotes, 2, 100, 50)
	if len(top) != 2 {
		t.Fatalf("expected 2 strikes, got %v", top)
	}
	if top[0] != 95 || top[1] != 100 {
		t.Errorf("expected [95 100], got %v", top)
	}
}

func TestFilterStrikes(t *testing.T) {
	rows := []ExposureRow{
		{Strike: 95, Gross: 1},
		{Strike: 100, Gross: 2},
		{Strike: 105, Gross: 3},
	}
	filtered := FilterStrikes(rows, []float64{95, 105})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(filtered))
	}
	if filtered[0].Strike != 95 || filtered[1].Strike != 105 {
		t.Errorf("unexpected rows: %+v", filtered)
	}
}
