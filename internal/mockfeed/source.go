package mockfeed

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/parquet-go/parquet-go"
)

// Source serves daily candles for a ticker within [from, to], both inclusive.
type Source interface {
	Candles(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error)
}

// GeneratorSource makes up candles. A given ticker, seed and date always
// produce the same candle, whatever window it is asked for in.
type GeneratorSource struct {
	seed uint64
}

func NewGeneratorSource(seed int64) *GeneratorSource {
	return &GeneratorSource{seed: uint64(seed)}
}

func (g *GeneratorSource) Candles(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(ticker)))
	tickerHash := h.Sum64() ^ g.seed
	base := 100 + float64(tickerHash%10000)/100

	var candles []model.Candle
	for day := truncateDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		candles = append(candles, g.candle(tickerHash, base, day))
	}

	return candles, nil
}

func (g *GeneratorSource) candle(tickerHash uint64, base float64, day time.Time) model.Candle {
	days := day.Unix() / 86400
	r := rand.New(rand.NewPCG(tickerHash, uint64(days)))

	trend := 10 * math.Sin(float64(days)/20)
	closePrice := base + trend + (r.Float64()*20 - 10)
	openPrice := closePrice + (r.Float64()*5 - 2.5)
	high := math.Max(openPrice, closePrice) + r.Float64()*3
	low := math.Min(openPrice, closePrice) - r.Float64()*3

	return model.Candle{
		Ts:     day,
		Open:   round2(openPrice),
		High:   round2(high),
		Low:    round2(low),
		Close:  round2(closePrice),
		Volume: r.Int64N(10_000_000),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CandleRecord is the on-disk parquet schema, one file per ticker.
type CandleRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    int64   `parquet:"volume"`
}

// ParquetSource reads <dir>/<TICKER>.parquet.
type ParquetSource struct {
	dir string
}

func NewParquetSource(dir string) *ParquetSource {
	return &ParquetSource{dir: dir}
}

func (p *ParquetSource) path(ticker string) string {
	return filepath.Join(p.dir, strings.ToUpper(ticker)+".parquet")
}

func (p *ParquetSource) Candles(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.path(ticker)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	rows, err := parquet.ReadFile[CandleRecord](path)
	if err != nil {
		return nil, fmt.Errorf("%w: can't read candles of %s", err, ticker)
	}

	candles := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		ts := time.UnixMilli(row.Timestamp).UTC()
		if ts.Before(from) || ts.After(to) {
			continue
		}
		candles = append(candles, model.Candle{
			Ts:     ts,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Ts.Before(candles[j].Ts) })

	return candles, nil
}

// Write stores candles as the ticker's file, replacing what was there.
func (p *ParquetSource) Write(ticker string, candles []model.Candle) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("%w: can't create parquet dir", err)
	}

	records := make([]CandleRecord, len(candles))
	for i, c := range candles {
		records[i] = CandleRecord{
			Timestamp: c.Ts.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}

	if err := parquet.WriteFile(p.path(ticker), records); err != nil {
		return fmt.Errorf("%w: can't write candles of %s", err, ticker)
	}
	return nil
}

const (
	_queryCandles = "SELECT ts, open_price, high_price, low_price, close_price, volume FROM candles WHERE ticker = $1 AND ts BETWEEN $2::timestamp AND $3::timestamp ORDER BY ts"
)

// PostgresSource reads the candles table.
type PostgresSource struct {
	db *sqlx.DB
}

func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (p *PostgresSource) Candles(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error) {
	var candles []model.Candle
	if err := p.db.SelectContext(ctx, &candles, _queryCandles, strings.ToUpper(ticker), from, to); err != nil {
		return nil, fmt.Errorf("%w: can't query candles", err)
	}
	return candles, nil
}
