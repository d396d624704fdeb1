package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// FromCSV reads a price table shaped like the export of any tabular source:
// a header row "timestamp,INST1,INST2,..." followed by one row per step.
// Timestamps parse as RFC 3339 or as a bare 2006-01-02 date. An empty cell
// marks the instrument missing at that step.
func FromCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header needs a timestamp column and at least one instrument")
	}
	instruments := header[1:]

	var steps []Step
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		prices := make(map[string]float64, len(instruments))
		for col, inst := range instruments {
			cell := strings.TrimSpace(record[col+1])
			if cell == "" {
				continue
			}
			px, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad price for %s: %w", row, inst, err)
			}
			prices[inst] = px
		}
		steps = append(steps, Step{Ts: ts, Prices: prices})
	}
	return New(steps)
}

// LoadCSV opens path and delegates to FromCSV.
func LoadCSV(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()
	return FromCSV(file)
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q", raw)
	}
	return ts, nil
}
