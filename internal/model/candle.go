package model

import "time"

// Candle is one daily OHLCV bar as stored by the mock feed sources.
type Candle struct {
	Ts     time.Time `db:"ts"`
	Open   float64   `db:"open_price"`
	High   float64   `db:"high_price"`
	Low    float64   `db:"low_price"`
	Close  float64   `db:"close_price"`
	Volume int64     `db:"volume"`
}
