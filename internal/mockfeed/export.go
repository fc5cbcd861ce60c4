package mockfeed

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Export copies every ticker's candles within [from, to] from src into dst
// and returns how many candles were written.
func Export(ctx context.Context, src Source, dst *ParquetSource, tickers []string, from, to time.Time) (int, error) {
	total := 0
	for _, ticker := range tickers {
		candles, err := src.Candles(ctx, ticker, from, to)
		if err != nil {
			return total, fmt.Errorf("%w: can't load %s", err, ticker)
		}
		if err := dst.Write(ticker, candles); err != nil {
			return total, err
		}
		total += len(candles)
	}
	return total, nil
}

func SplitTickers(s string) []string {
	var tickers []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
