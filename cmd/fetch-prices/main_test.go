package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		_, _ = io.WriteString(w, `{"chart":{"result":[{"meta":{"gmtoffset":-18000},
			"timestamp":[1704378600,1704465000],
			"indicators":{"adjclose":[{"adjclose":[4688.68,4697.24]}]}}]}}`)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "data", "spx.csv")
	var buf bytes.Buffer
	cmd := newFetchCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--base-url", srv.URL, "--start", "2024-01-01", "--end", "2024-01-31", "--output", out})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "Wrote 2 prices")
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Date,Adj Close\n2024-01-04,4688.68\n2024-01-05,4697.24\n", string(raw))
}

func TestFetchPrices_BadDate(t *testing.T) {
	cmd := newFetchCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--start", "soon"})
	assert.Error(t, cmd.Execute())
}
