// Package chain loads options-chain CSV snapshots into the analytics
// types. Snapshot files follow the fetcher's naming scheme
// {symbol}_exp{expiration}_{fetch-date}_{fetch-time}.csv and may be
// gzip-compressed.
package chain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/gzip"
	"github.com/scmhub/calendar"
	"go.uber.org/zap"

	"github.com/dgnsrekt/gexlab/internal/gex"
	"github.com/dgnsrekt/gexlab/internal/greeks"
)

// Row is one CSV record of a chain snapshot. Columns beyond these are
// ignored; optional columns unmarshal to zero when absent.
type Row struct {
	Strike         float64 `csv:"strike"`
	ContractType   string  `csv:"contract_type"`
	ExpirationDate string  `csv:"expiration_date"`
	OpenInterest   int64   `csv:"open_interest"`
	// TheoreticalVolatility is quoted in percent (18.5 = 18.5%).
	TheoreticalVolatility float64 `csv:"theoretical_volatility"`
	Gamma                 float64 `csv:"gamma"`
	Last                  float64 `csv:"last"`
	UnderlyingPrice       float64 `csv:"underlying_price"`
}

// Snapshot is a parsed chain file plus the market context it implies.
type Snapshot struct {
	Symbol      string
	AsOf        time.Time
	Market      gex.MarketContext
	Quotes      []gex.OptionQuote
	SkippedRows int
}

// Contracts stop trading at the 15:15 Central cash close.
const expiryCutoff = 15*time.Hour + 15*time.Minute

const stemLayout = "2006-01-02_15-04-05"

// LoadSnapshot reads a chain CSV (or .csv.gz) file, validates its rows and
// returns the snapshot. Rows that violate the ingestion invariants are
// skipped and counted, never fatal; a snapshot without a usable underlying
// price is.
func LoadSnapshot(path string, riskFreeRate float64, logger *zap.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip snapshot: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	symbol, asOf, err := parseStem(snapshotName(path))
	if err != nil {
		return nil, err
	}

	var rows []*Row
	if err := gocsv.Unmarshal(reader, &rows); err != nil {
		return nil, fmt.Errorf("parsing snapshot csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("snapshot %s holds no rows", path)
	}

	warnNonTradingDay(asOf, logger)

	snap := &Snapshot{Symbol: symbol, AsOf: asOf}
	for i, row := range rows {
		quote, err := toQuote(row)
		if err != nil {
			logger.Debug("skipping snapshot row",
				zap.String("snapshot", snapshotName(path)),
				zap.Int("row", i),
				zap.Error(err),
			)
			snap.SkippedRows++
			continue
		}
		snap.Quotes = append(snap.Quotes, quote)
		if snap.Market.Spot == 0 && row.UnderlyingPrice > 0 {
			snap.Market.Spot = row.UnderlyingPrice
		}
	}

	snap.Market.RiskFreeRate = riskFreeRate
	snap.Market.AsOf = asOf
	if err := snap.Market.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	logger.Info("snapshot loaded",
		zap.String("symbol", symbol),
		zap.Time("asOf", asOf),
		zap.Float64("spot", snap.Market.Spot),
		zap.Int("quotes", len(snap.Quotes)),
		zap.Int("skipped", snap.SkippedRows),
	)
	return snap, nil
}

func toQuote(row *Row) (gex.OptionQuote, error) {
	typ, err := greeks.ParseOptionType(row.ContractType)
	if err != nil {
		return gex.OptionQuote{}, err
	}

	expiry, err := parseExpiry(row.ExpirationDate)
	if err != nil {
		return gex.OptionQuote{}, err
	}

	quote := gex.OptionQuote{
		Strike:       row.Strike,
		Type:         typ,
		OpenInterest: row.OpenInterest,
		Expiry:       expiry,
	}
	if row.TheoreticalVolatility > 0 {
		iv := row.TheoreticalVolatility / 100.0
		quote.IV = &iv
	}
	if row.Gamma > 0 {
		gamma := row.Gamma
		quote.Gamma = &gamma
	}
	if row.Last > 0 {
		last := row.Last
		quote.LastPrice = &last
	}

	if err := quote.Validate(); err != nil {
		return gex.OptionQuote{}, err
	}
	return quote, nil
}

func parseExpiry(date string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, centralTime())
	if err != nil {
		return time.Time{}, fmt.Errorf("expiration date %q: %w", date, err)
	}
	return day.Add(expiryCutoff), nil
}

// parseStem extracts the symbol and fetch timestamp from a snapshot file
// name like SPXW_exp2026-01-16_2026-01-02_14-30-00.
func parseStem(stem string) (string, time.Time, error) {
	parts := strings.Split(stem, "_")
	if len(parts) < 4 || !strings.HasPrefix(parts[1], "exp") {
		return "", time.Time{}, fmt.Errorf("snapshot name %q does not match {symbol}_exp{date}_{date}_{time}", stem)
	}
	asOf, err := time.ParseInLocation(stemLayout, parts[2]+"_"+parts[3], centralTime())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("snapshot name %q: %w", stem, err)
	}
	return parts[0], asOf, nil
}

func snapshotName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, ".csv")
}

func centralTime() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		return time.UTC
	}
	return loc
}

// warnNonTradingDay flags snapshots fetched outside NYSE business days;
// those usually mean a stale or misnamed file.
func warnNonTradingDay(asOf time.Time, logger *zap.Logger) {
	nyse := calendar.XNYS()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	if !nyse.IsBusinessDay(asOf.In(loc)) {
		logger.Warn("snapshot fetched on a non-trading day", zap.Time("asOf", asOf))
	}
}

// ListSnapshots returns the snapshot file names (without directory) in dir,
// sorted ascending so the fetch timestamp ordering holds.
func ListSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
