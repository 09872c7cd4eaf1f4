package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tga-liquidity/internal/model"
)

// Table names used in error messages.
const (
	TableTGA     = "tga"
	TableSignals = "signals"
	TablePrices  = "prices"
)

var dateLayouts = []string{
	model.DateLayout,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate accepts the date formats seen in uploaded tables and returns a UTC day.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// Header maps normalized column names to their index.
type Header map[string]int

func normalize(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}

func NewHeader(record []string) Header {
	h := make(Header, len(record))
	for i, name := range record {
		key := normalize(name)
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// Lookup returns the index of the first alias present in the header.
func (h Header) Lookup(aliases ...string) (int, bool) {
	for _, a := range aliases {
		if i, ok := h[normalize(a)]; ok {
			return i, true
		}
	}
	return -1, false
}

// Require is Lookup that reports the canonical (first) alias as missing.
func (h Header) Require(table string, aliases ...string) (int, error) {
	if i, ok := h.Lookup(aliases...); ok {
		return i, nil
	}
	return -1, &model.MissingColumnError{Table: table, Column: aliases[0]}
}

// Table is a parsed CSV: a header plus raw records. Line numbers are 1-based and
// include the header line.
type Table struct {
	Name    string
	Header  Header
	Records [][]string
}

// ReadTable reads the whole CSV. An input without a header row is reported as
// missing the "date" column, since nothing can be processed from it.
func ReadTable(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &model.MissingColumnError{Table: name, Column: "date"}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s header: %w", model.ErrInvalidInput, name, err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s rows: %w", model.ErrInvalidInput, name, err)
	}
	return &Table{Name: name, Header: NewHeader(head), Records: records}, nil
}

// Cell returns the trimmed value at column i of record n, or "" when the record is short.
func (t *Table) Cell(n, i int) string {
	rec := t.Records[n]
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Line is the 1-based file line of record n.
func (t *Table) Line(n int) int { return n + 2 }

func (t *Table) rowErr(n int, column string, err error) error {
	return &model.RowError{Table: t.Name, Line: t.Line(n), Column: column, Err: err}
}
