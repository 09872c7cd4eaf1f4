package align

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"tga-liquidity/internal/model"
)

func WriteJointCSV(path string, rows []model.WeeklyRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeJointCSV(f, rows)
}

// EncodeJointCSV writes the joint table with a header row. An empty table still
// gets its header.
func EncodeJointCSV(out io.Writer, rows []model.WeeklyRow) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"date", "delta_balance", "period_return"}); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			r.Date.Format(model.DateLayout),
			r.DeltaBalance.String(),
			strconv.FormatFloat(r.PeriodReturn, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
