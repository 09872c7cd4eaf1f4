package ingest

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"tga-liquidity/internal/model"

	"github.com/shopspring/decimal"
)

// Column aliases. The first entry is the canonical name reported when missing;
// the rest cover the headers used by the bundled sample files.
var (
	DateColumn            = []string{"date"}
	BalanceColumn         = []string{"tga_balance", "balance"}
	ScoreColumn           = []string{"score", "sentiment_score", "情绪评分"}
	FlagColumn            = []string{"flag", "pivot_resonance", "枢轴点共振"}
	MarketReturnPctColumn = []string{"market_return_pct", "spx_return_pct", "S&P500收益率(%)"}
)

// ReadBalances parses a TGA upload: a date column and a numeric balance column.
// Rows are returned in file order; the alignment engine sorts them.
func ReadBalances(r io.Reader) ([]model.DailyBalance, error) {
	t, err := ReadTable(TableTGA, r)
	if err != nil {
		return nil, err
	}
	dateIdx, err := t.Header.Require(t.Name, DateColumn...)
	if err != nil {
		return nil, err
	}
	balIdx, err := t.Header.Require(t.Name, BalanceColumn...)
	if err != nil {
		return nil, err
	}

	out := make([]model.DailyBalance, 0, len(t.Records))
	for n := range t.Records {
		date, err := ParseDate(t.Cell(n, dateIdx))
		if err != nil {
			return nil, t.rowErr(n, DateColumn[0], err)
		}
		bal, err := decimal.NewFromString(stripThousands(t.Cell(n, balIdx)))
		if err != nil {
			return nil, t.rowErr(n, BalanceColumn[0], err)
		}
		out = append(out, model.DailyBalance{Date: date, Balance: bal})
	}
	return out, nil
}

// ReadSignals parses a signal upload. Order is preserved exactly; the backtester
// never re-sorts.
func ReadSignals(r io.Reader) ([]model.SignalRow, error) {
	t, err := ReadTable(TableSignals, r)
	if err != nil {
		return nil, err
	}
	dateIdx, err := t.Header.Require(t.Name, DateColumn...)
	if err != nil {
		return nil, err
	}
	scoreIdx, err := t.Header.Require(t.Name, ScoreColumn...)
	if err != nil {
		return nil, err
	}
	flagIdx, err := t.Header.Require(t.Name, FlagColumn...)
	if err != nil {
		return nil, err
	}
	retIdx, err := t.Header.Require(t.Name, MarketReturnPctColumn...)
	if err != nil {
		return nil, err
	}

	out := make([]model.SignalRow, 0, len(t.Records))
	for n := range t.Records {
		date, err := ParseDate(t.Cell(n, dateIdx))
		if err != nil {
			return nil, t.rowErr(n, DateColumn[0], err)
		}
		score, err := ParseFloat(t.Cell(n, scoreIdx))
		if err != nil {
			return nil, t.rowErr(n, ScoreColumn[0], err)
		}
		ret, err := ParseFloat(strings.TrimSuffix(t.Cell(n, retIdx), "%"))
		if err != nil {
			return nil, t.rowErr(n, MarketReturnPctColumn[0], err)
		}
		out = append(out, model.SignalRow{
			Date:            date,
			Score:           score,
			Flag:            model.ParseFlag(t.Cell(n, flagIdx)),
			MarketReturnPct: ret,
		})
	}
	return out, nil
}

// ParseFloat parses a finite number, tolerating thousands separators.
func ParseFloat(raw string) (float64, error) {
	s := stripThousands(raw)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	return v, nil
}

func stripThousands(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
