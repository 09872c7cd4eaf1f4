package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"tga-liquidity/internal/model"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger)
}

func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"date",
		"score",
		"flag",
		"market_return_pct",
		"signal",
		"strategy_return_pct",
		"strategy_cum_return",
		"market_cum_return",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtDate(r.Date),
			fmtFloat(r.Score),
			r.Flag.String(),
			fmtFloat(r.MarketReturnPct),
			strconv.Itoa(int(r.Signal)),
			fmtFloat(r.StrategyReturnPct),
			fmtFloat(r.StrategyCumReturn),
			fmtFloat(r.MarketCumReturn),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
