package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tga-liquidity/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

func TestReadPriceCSV_Conventions(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "single ticker",
			in: "Date,Open,High,Low,Close,Adj Close,Volume\n" +
				"2024-01-05,1,1,1,1,4697.24,1\n" +
				"2024-01-04,1,1,1,1,4688.68,1\n",
		},
		{
			name: "multi ticker",
			in: "Date,^GSPC/Close,^GSPC/Adj Close\n" +
				"2024-01-04,1,4688.68\n" +
				"2024-01-05,1,4697.24\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := ReadPriceCSV(strings.NewReader(tt.in), "^GSPC")
			require.NoError(t, err)
			assert.Equal(t, []model.PricePoint{
				{Date: day(2024, 1, 4), Price: 4688.68},
				{Date: day(2024, 1, 5), Price: 4697.24},
			}, points)
		})
	}
}

func TestReadPriceCSV_SkipsNulls(t *testing.T) {
	in := "Date,Adj Close\n2024-01-04,null\n2024-01-05,\n2024-01-08,4763.54\n"
	points, err := ReadPriceCSV(strings.NewReader(in), "^GSPC")
	require.NoError(t, err)
	assert.Equal(t, []model.PricePoint{{Date: day(2024, 1, 8), Price: 4763.54}}, points)
}

func TestReadPriceCSV_MissingAdjClose(t *testing.T) {
	_, err := ReadPriceCSV(strings.NewReader("Date,Close\n2024-01-04,1\n"), "^GSPC")
	var mce *model.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "Adj Close", mce.Column)
}

func TestCSVFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spx.csv")
	content := "Date,Adj Close\n2024-01-03,1\n2024-01-04,2\n2024-01-05,3\n2024-01-08,4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := NewCSVFileSource(path)
	points, err := src.FetchDaily(context.Background(), "^GSPC", day(2024, 1, 4), day(2024, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, []model.PricePoint{
		{Date: day(2024, 1, 4), Price: 2},
		{Date: day(2024, 1, 5), Price: 3},
	}, points)
}

func TestCSVSource_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewCSVFileSource(filepath.Join(t.TempDir(), "missing.csv")).
		FetchDaily(ctx, "^GSPC", day(2024, 1, 4), day(2024, 1, 5))
	assert.ErrorIs(t, err, model.ErrDataSourceUnavailable)

	_, err = NewCSVBytesSource([]byte("Date,Close\n2024-01-04,1\n")).
		FetchDaily(ctx, "^GSPC", day(2024, 1, 4), day(2024, 1, 5))
	assert.ErrorIs(t, err, model.ErrDataSourceUnavailable)
	assert.ErrorIs(t, err, model.ErrMissingRequiredColumn)

	_, err = NewCSVBytesSource([]byte("Date,Adj Close\n2024-01-04,abc\n")).
		FetchDaily(ctx, "^GSPC", day(2024, 1, 4), day(2024, 1, 5))
	assert.ErrorIs(t, err, model.ErrDataSourceUnavailable)
}

func TestWritePriceCSV_ReadableBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	points := []model.PricePoint{
		{Date: day(2024, 1, 4), Price: 4688.68},
		{Date: day(2024, 1, 5), Price: 4697.24},
	}
	require.NoError(t, WritePriceCSV(path, points))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "Date,Adj Close\n2024-01-04,4688.68\n"))

	got, err := NewCSVFileSource(path).FetchDaily(context.Background(), "^GSPC", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, points, got)
}
