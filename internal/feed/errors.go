package feed

import (
	"fmt"

	"github.com/STTM-NSU/chart-terminal/internal/model"
)

// DataFetchError is a recoverable refresh failure. Reason is short enough
// to put in front of a user.
type DataFetchError struct {
	Ticker     string
	Range      model.Range
	StatusCode int
	Reason     string
	Err        error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("can't fetch %s %s: %s", e.Ticker, e.Range, e.Reason)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}
