// Package attendance turns an LMS attendance export into one summary row per student.
package attendance

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

// Table is a rectangular view of an export: one header and the data rows,
// every row padded to the header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable collapses the whitespace of every header and pads or cuts rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: make([]string, len(header)), Rows: make([][]string, 0, len(rows))}
	for i, h := range header {
		t.Header[i] = core.CollapseSpaces(h)
	}
	for _, r := range rows {
		row := make([]string, len(header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Column returns the values of column i.
func (t *Table) Column(i int) []string {
	col := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row[i]
	}
	return col
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadCSV reads a comma separated export whose first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading attendance csv")
	}
	if len(records) == 0 {
		return nil, errors.New("attendance csv is empty")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return NewTable(header, records[1:]), nil
}

// ReadXLS reads the first sheet of a legacy Excel workbook; its first row is the header.
func ReadXLS(r io.ReadSeeker) (*Table, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, "opening attendance workbook")
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("attendance workbook has no sheet")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("attendance workbook has no sheet")
	}

	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		rec := make([]string, row.LastCol())
		for c := range rec {
			rec[c] = row.Col(c)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, errors.New("attendance workbook is empty")
	}
	return NewTable(records[0], records[1:]), nil
}

// ReadFile reads a .xls workbook or, for any other extension, a CSV file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening attendance export")
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return ReadXLS(f)
	}
	return ReadCSV(f)
}
