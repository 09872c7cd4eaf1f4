package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tga-liquidity/internal/ingest/samples"
	"tga-liquidity/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-01-04", "2024/01/04", "01/04/2024", "2024-01-04T15:30:00-05:00", " 2024-01-04 "} {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseDate(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseDate("last thursday")
	assert.Error(t, err)
}

func TestReadBalances(t *testing.T) {
	in := "\ufeffDate, TGA_Balance\n2024-01-11,\"1,005.25\"\n2024-01-04,100\n"
	rows, err := ReadBalances(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), rows[0].Date, "file order is kept")
	assert.True(t, rows[0].Balance.Equal(decimal.RequireFromString("1005.25")))
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(100)))
}

func TestReadBalances_BalanceAlias(t *testing.T) {
	rows, err := ReadBalances(strings.NewReader("date,balance\n2024-01-04,1\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadBalances_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
		column  string
	}{
		{name: "missing balance", in: "date,other\n2024-01-04,1\n", wantErr: model.ErrMissingRequiredColumn, column: "tga_balance"},
		{name: "missing date", in: "day,tga_balance\n2024-01-04,1\n", wantErr: model.ErrMissingRequiredColumn, column: "date"},
		{name: "empty upload", in: "", wantErr: model.ErrMissingRequiredColumn, column: "date"},
		{name: "bad balance", in: "date,tga_balance\n2024-01-04,abc\n", wantErr: model.ErrInvalidInput},
		{name: "bad date", in: "date,tga_balance\nsoon,1\n", wantErr: model.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadBalances(strings.NewReader(tt.in))
			assert.Nil(t, rows)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.column != "" {
				var mce *model.MissingColumnError
				require.ErrorAs(t, err, &mce)
				assert.Equal(t, tt.column, mce.Column)
				assert.Equal(t, TableTGA, mce.Table)
			}
		})
	}
}

func TestReadBalances_RowErrorLine(t *testing.T) {
	_, err := ReadBalances(strings.NewReader("date,tga_balance\n2024-01-04,1\n2024-01-11,\n"))
	var rowErr *model.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, "tga_balance", rowErr.Column)
}

func TestReadSignals(t *testing.T) {
	in := "date,score,flag,market_return_pct\n" +
		"2024-01-19,90,yes,2%\n" +
		"2024-01-05,50,no,1\n"
	rows, err := ReadSignals(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, model.SignalRow{
		Date:            time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC),
		Score:           90,
		Flag:            model.FlagYes,
		MarketReturnPct: 2,
	}, rows[0])
	assert.Equal(t, model.FlagNo, rows[1].Flag)
}

func TestReadSignals_MissingColumns(t *testing.T) {
	tests := []struct {
		header string
		column string
	}{
		{"date,flag,market_return_pct", "score"},
		{"date,score,market_return_pct", "flag"},
		{"date,score,flag", "market_return_pct"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			_, err := ReadSignals(strings.NewReader(tt.header + "\n"))
			var mce *model.MissingColumnError
			require.ErrorAs(t, err, &mce)
			assert.Equal(t, tt.column, mce.Column)
			assert.ErrorIs(t, err, model.ErrMissingRequiredColumn)
		})
	}
}

func TestReadSignals_HeaderOnlyIsEmpty(t *testing.T) {
	rows, err := ReadSignals(strings.NewReader("date,score,flag,market_return_pct\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSamplesParse(t *testing.T) {
	raw, err := samples.Open("sample_tga.csv")
	require.NoError(t, err)
	balances, err := ReadBalances(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, balances, 12)

	raw, err = samples.Open("sample_backtest_signals.csv")
	require.NoError(t, err)
	signals, err := ReadSignals(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, signals, 12)
	assert.Equal(t, model.FlagNo, signals[0].Flag)
	assert.Equal(t, model.FlagYes, signals[1].Flag)
	assert.Equal(t, 65.0, signals[1].Score)
	assert.Equal(t, 1.84, signals[1].MarketReturnPct)

	assert.Equal(t, []string{"sample_backtest_signals.csv", "sample_tga.csv"}, samples.Names())
}

func TestParseFlag(t *testing.T) {
	for _, raw := range []string{"yes", "YES", " y ", "true", "1", "是"} {
		assert.Equal(t, model.FlagYes, model.ParseFlag(raw), raw)
	}
	for _, raw := range []string{"no", "否", "", "maybe", "0"} {
		assert.Equal(t, model.FlagNo, model.ParseFlag(raw), raw)
	}
}
