package marketdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/model"
)

// CSVSource serves daily prices from a downloaded history file. The price
// column is "Adj Close", or "<symbol>/Adj Close" for multi-ticker exports.
type CSVSource struct {
	open func() (io.ReadCloser, error)
	name string
}

func NewCSVFileSource(path string) *CSVSource {
	return &CSVSource{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewCSVBytesSource serves an in-memory upload.
func NewCSVBytesSource(raw []byte) *CSVSource {
	return &CSVSource{
		name: "upload",
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(raw)), nil },
	}
}

func (s *CSVSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	if err := validateRange(symbol, start, end); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", model.ErrDataSourceUnavailable, s.name, err)
	}
	defer rc.Close()

	points, err := ReadPriceCSV(rc, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDataSourceUnavailable, s.name, err)
	}
	return within(points, start, end), nil
}

// ReadPriceCSV parses a daily history table. Empty and "null" prices are
// dropped; anything else unparseable is an error.
func ReadPriceCSV(r io.Reader, symbol string) ([]model.PricePoint, error) {
	t, err := ingest.ReadTable(ingest.TablePrices, r)
	if err != nil {
		return nil, err
	}
	dateIdx, err := t.Header.Require(t.Name, ingest.DateColumn...)
	if err != nil {
		return nil, err
	}
	priceIdx, err := t.Header.Require(t.Name, "Adj Close", symbol+"/Adj Close")
	if err != nil {
		return nil, err
	}

	out := make([]model.PricePoint, 0, len(t.Records))
	for n := range t.Records {
		raw := t.Cell(n, priceIdx)
		if raw == "" || strings.EqualFold(raw, "null") || strings.EqualFold(raw, "nan") {
			continue
		}
		date, err := ingest.ParseDate(t.Cell(n, dateIdx))
		if err != nil {
			return nil, &model.RowError{Table: t.Name, Line: t.Line(n), Column: "date", Err: err}
		}
		price, err := ingest.ParseFloat(raw)
		if err != nil {
			return nil, &model.RowError{Table: t.Name, Line: t.Line(n), Column: "Adj Close", Err: err}
		}
		out = append(out, model.PricePoint{Date: date, Price: price})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// WritePriceCSV saves points in the single-ticker layout ReadPriceCSV accepts.
func WritePriceCSV(path string, points []model.PricePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodePriceCSV(f, points)
}

func EncodePriceCSV(out io.Writer, points []model.PricePoint) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"Date", "Adj Close"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := w.Write([]string{
			p.Date.Format(model.DateLayout),
			strconv.FormatFloat(p.Price, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
