package series

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/newthinker/crossover/internal/core"
	"github.com/newthinker/crossover/internal/storage/archive"
)

// record is one CSV row
type record struct {
	Date  string `csv:"date"`
	Close string `csv:"close"`
}

// Decode parses a "date,close" CSV with YYYY-MM-DD dates. The rows must be in
// ascending date order with positive closes.
func Decode(data []byte) (core.PriceSeries, error) {
	var rows []*record
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, core.InvalidArgument("parsing csv: %v", err)
	}
	if len(rows) == 0 {
		return nil, core.WrapError(core.ErrInvalidArgument, core.ErrNoData)
	}

	series := make(core.PriceSeries, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return nil, core.InvalidArgument("row %d: invalid date %q", i+1, row.Date)
		}
		closePrice, err := strconv.ParseFloat(row.Close, 64)
		if err != nil {
			return nil, core.InvalidArgument("row %d: invalid close %q", i+1, row.Close)
		}
		series[i] = core.PricePoint{Time: ts, Close: closePrice}
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// Encode renders a series as "date,close" CSV
func Encode(series core.PriceSeries) ([]byte, error) {
	rows := make([]*record, len(series))
	for i, p := range series {
		rows[i] = &record{
			Date:  p.Time.Format(time.DateOnly),
			Close: strconv.FormatFloat(p.Close, 'f', -1, 64),
		}
	}
	return gocsv.MarshalBytes(&rows)
}

// Load reads and decodes a CSV series from storage
func Load(ctx context.Context, store archive.Storage, path string) (core.PriceSeries, error) {
	data, err := store.Read(ctx, path)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, fmt.Errorf("reading %s: %w", path, err))
	}
	series, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return series, nil
}

// Save encodes a series and writes it to storage
func Save(ctx context.Context, store archive.Storage, path string, series core.PriceSeries) error {
	data, err := Encode(series)
	if err != nil {
		return fmt.Errorf("encoding series: %w", err)
	}
	if err := store.Write(ctx, path, data); err != nil {
		return core.WrapError(core.ErrStorageFailed, fmt.Errorf("writing %s: %w", path, err))
	}
	return nil
}
